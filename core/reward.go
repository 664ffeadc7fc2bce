package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type User struct {
	Address         common.Address `json:"address"`
	Email           string         `json:"email"`
	IsShopper       bool           `json:"is_shopper"`
	IsBusinessOwner bool           `json:"is_business_owner"`
	TotalPoints     uint64         `json:"total_points"`
	Tier            uint64         `json:"tier"`
	ReferralCount   uint64         `json:"referral_count"`
}

// Registered reports whether the contract holds a record for the user.
// Unknown addresses read back as zero values.
func (u *User) Registered() bool {
	return u != nil && u.Email != ""
}

type Store struct {
	Address          common.Address `json:"address"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	PhoneNumber      string         `json:"phone_number"`
	Email            string         `json:"email"`
	PhysicalLocation string         `json:"physical_location"`
	Owner            common.Address `json:"owner"`
	IsActive         bool           `json:"is_active"`
}

func (s *Store) Registered() bool {
	return s != nil && s.Name != ""
}

type GiftCard struct {
	ID        uint64          `json:"id"`
	Store     common.Address  `json:"store"`
	Value     decimal.Decimal `json:"value"`
	PointCost uint64          `json:"point_cost"`
	IsActive  bool            `json:"is_active"`
}

type Receipt struct {
	TxHash      common.Hash    `json:"tx_hash"`
	Method      string         `json:"method"`
	From        common.Address `json:"from"`
	Success     bool           `json:"success"`
	BlockNumber uint64         `json:"block_number"`
	GasUsed     uint64         `json:"gas_used"`
	Logs        int            `json:"logs"`
	ConfirmedAt time.Time      `json:"confirmed_at"`
}

// RewardService is the contract gateway. Writes block until the transaction
// is confirmed; amounts cross this boundary as decimal strings.
type RewardService interface {
	ResolveAccount(ctx context.Context) (common.Address, bool)

	RegisterUser(ctx context.Context, email string, isShopper, isBusinessOwner bool) (*Receipt, error)
	RegisterStore(ctx context.Context, store *Store) (*Receipt, error)
	PurchaseAndEarnRewards(ctx context.Context, store common.Address, amount string) (*Receipt, error)
	ReferProduct(ctx context.Context, referred common.Address) (*Receipt, error)
	CreateGiftCard(ctx context.Context, value string, pointCost uint64) (*Receipt, error)
	AwardGiftCard(ctx context.Context, id uint64, recipient common.Address) (*Receipt, error)
	MintRoyaltyGiftCard(ctx context.Context, id uint64) (*Receipt, error)

	GetStorePoints(ctx context.Context, user, store common.Address) (uint64, error)
	GetTotalPoints(ctx context.Context, user common.Address) (uint64, error)
	GetUserDetails(ctx context.Context, user common.Address) (*User, error)
	GetStoreDetails(ctx context.Context, store common.Address) (*Store, error)
	GetGiftCardDetails(ctx context.Context, id uint64) (*GiftCard, error)
	ListUserGiftCards(ctx context.Context, user common.Address) ([]uint64, error)
	GetUserTier(ctx context.Context, user common.Address) (uint64, error)
	GetAllStores(ctx context.Context) ([]common.Address, error)
}
