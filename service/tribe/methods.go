package tribe

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
)

const (
	methodRegisterUser           = "registerUser"
	methodRegisterStore          = "registerStore"
	methodPurchaseAndEarnRewards = "purchaseAndEarnRewards"
	methodReferProduct           = "referProduct"
	methodCreateGiftCard         = "createGiftCard"
	methodAwardGiftCard          = "awardGiftCard"
	methodMintRoyaltyGiftCard    = "mintRoyaltyGiftCard"
	methodGetStorePoints         = "getStorePoints"
	methodGetTotalPoints         = "getTotalPoints"
	methodGetUserDetails         = "getUserDetails"
	methodGetStoreDetails        = "getStoreDetails"
	methodGetGiftCardDetails     = "getGiftCardDetails"
	methodListUserGiftCards      = "listUserGiftCards"
	methodGetUserTier            = "getUserTier"
	methodGetAllStores           = "getAllStores"
)

func (s *Service) RegisterUser(ctx context.Context, email string, isShopper, isBusinessOwner bool) (*core.Receipt, error) {
	return s.Write(ctx, methodRegisterUser, email, isShopper, isBusinessOwner)
}

// RegisterStore submits the store fields in contract order: name,
// description, phone number, email, physical location.
func (s *Service) RegisterStore(ctx context.Context, store *core.Store) (*core.Receipt, error) {
	return s.Write(ctx, methodRegisterStore,
		store.Name,
		store.Description,
		store.PhoneNumber,
		store.Email,
		store.PhysicalLocation,
	)
}

func (s *Service) PurchaseAndEarnRewards(ctx context.Context, store common.Address, amount string) (*core.Receipt, error) {
	value, err := core.ParseBaseUnits("amount", amount)
	if err != nil {
		return nil, err
	}

	return s.Write(ctx, methodPurchaseAndEarnRewards, store, value)
}

func (s *Service) ReferProduct(ctx context.Context, referred common.Address) (*core.Receipt, error) {
	return s.Write(ctx, methodReferProduct, referred)
}

func (s *Service) CreateGiftCard(ctx context.Context, value string, pointCost uint64) (*core.Receipt, error) {
	v, err := core.ParseBaseUnits("value", value)
	if err != nil {
		return nil, err
	}

	return s.Write(ctx, methodCreateGiftCard, v, new(big.Int).SetUint64(pointCost))
}

func (s *Service) AwardGiftCard(ctx context.Context, id uint64, recipient common.Address) (*core.Receipt, error) {
	return s.Write(ctx, methodAwardGiftCard, new(big.Int).SetUint64(id), recipient)
}

func (s *Service) MintRoyaltyGiftCard(ctx context.Context, id uint64) (*core.Receipt, error) {
	return s.Write(ctx, methodMintRoyaltyGiftCard, new(big.Int).SetUint64(id))
}

func (s *Service) readUint(ctx context.Context, method string, args ...any) (uint64, error) {
	out, err := s.Read(ctx, method, args...)
	if err != nil {
		return 0, err
	}

	d := decoder{method: method, out: out}
	v := d.uint64(0)
	return v, d.err
}

func (s *Service) GetStorePoints(ctx context.Context, user, store common.Address) (uint64, error) {
	return s.readUint(ctx, methodGetStorePoints, user, store)
}

func (s *Service) GetTotalPoints(ctx context.Context, user common.Address) (uint64, error) {
	return s.readUint(ctx, methodGetTotalPoints, user)
}

func (s *Service) GetUserTier(ctx context.Context, user common.Address) (uint64, error) {
	return s.readUint(ctx, methodGetUserTier, user)
}

func (s *Service) GetUserDetails(ctx context.Context, user common.Address) (*core.User, error) {
	out, err := s.Read(ctx, methodGetUserDetails, user)
	if err != nil {
		return nil, err
	}

	d := decoder{method: methodGetUserDetails, out: out}
	u := &core.User{
		Address:         user,
		Email:           d.string(0),
		IsShopper:       d.bool(1),
		IsBusinessOwner: d.bool(2),
		TotalPoints:     d.uint64(3),
		Tier:            d.uint64(4),
		ReferralCount:   d.uint64(5),
	}

	if d.err != nil {
		return nil, d.err
	}

	return u, nil
}

func (s *Service) GetStoreDetails(ctx context.Context, store common.Address) (*core.Store, error) {
	out, err := s.Read(ctx, methodGetStoreDetails, store)
	if err != nil {
		return nil, err
	}

	d := decoder{method: methodGetStoreDetails, out: out}
	st := &core.Store{
		Address:          store,
		Name:             d.string(0),
		Description:      d.string(1),
		PhoneNumber:      d.string(2),
		Email:            d.string(3),
		PhysicalLocation: d.string(4),
		Owner:            d.address(5),
		IsActive:         d.bool(6),
	}

	if d.err != nil {
		return nil, d.err
	}

	return st, nil
}

// GetGiftCardDetails returns core.ErrNotFound for ids the contract has never
// issued; those read back with a zero store address.
func (s *Service) GetGiftCardDetails(ctx context.Context, id uint64) (*core.GiftCard, error) {
	out, err := s.Read(ctx, methodGetGiftCardDetails, new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}

	d := decoder{method: methodGetGiftCardDetails, out: out}
	card := &core.GiftCard{
		ID:        d.uint64(0),
		Store:     d.address(1),
		Value:     core.FromBaseUnits(d.bigInt(2)),
		PointCost: d.uint64(3),
		IsActive:  d.bool(4),
	}

	if d.err != nil {
		return nil, d.err
	}

	if card.Store == (common.Address{}) {
		return nil, fmt.Errorf("%w: gift card %d", core.ErrNotFound, id)
	}

	return card, nil
}

func (s *Service) ListUserGiftCards(ctx context.Context, user common.Address) ([]uint64, error) {
	out, err := s.Read(ctx, methodListUserGiftCards, user)
	if err != nil {
		return nil, err
	}

	d := decoder{method: methodListUserGiftCards, out: out}
	values := d.bigInts(0)
	if d.err != nil {
		return nil, d.err
	}

	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		if !v.IsUint64() {
			return nil, fmt.Errorf("%w: %s: gift card id %s overflows", core.ErrDecode, methodListUserGiftCards, v)
		}

		ids = append(ids, v.Uint64())
	}

	return ids, nil
}

func (s *Service) GetAllStores(ctx context.Context) ([]common.Address, error) {
	out, err := s.Read(ctx, methodGetAllStores)
	if err != nil {
		return nil, err
	}

	d := decoder{method: methodGetAllStores, out: out}
	stores := d.addresses(0)
	return stores, d.err
}
