package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
	"github.com/shopspring/decimal"
)

var (
	alice   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	shopABC = common.HexToAddress("0x0000000000000000000000000000000000000abc")
	shopDEF = common.HexToAddress("0x0000000000000000000000000000000000000def")
)

// fakeGateway keeps contract state in maps and counts every call.
type fakeGateway struct {
	mux sync.Mutex

	account   common.Address
	connected bool

	users     map[common.Address]*core.User
	stores    map[common.Address]*core.Store
	cards     map[uint64]*core.GiftCard
	userCards map[common.Address][]uint64
	allStores []common.Address

	fail  map[string]error
	gate  chan struct{}
	calls map[string]int
	args  map[string][]any
	block uint64
}

func newFakeGateway(account common.Address) *fakeGateway {
	return &fakeGateway{
		account:   account,
		connected: true,
		users:     map[common.Address]*core.User{},
		stores:    map[common.Address]*core.Store{},
		cards:     map[uint64]*core.GiftCard{},
		userCards: map[common.Address][]uint64{},
		fail:      map[string]error{},
		calls:     map[string]int{},
		args:      map[string][]any{},
		block:     100,
	}
}

func (f *fakeGateway) called(method string, args ...any) error {
	f.mux.Lock()
	defer f.mux.Unlock()

	f.calls[method]++
	f.args[method] = args
	return f.fail[method]
}

func (f *fakeGateway) count(method string) int {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.calls[method]
}

func (f *fakeGateway) lastArgs(method string) []any {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.args[method]
}

func (f *fakeGateway) setFail(method string, err error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.fail[method] = err
}

func (f *fakeGateway) switchAccount(account common.Address, connected bool) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.account, f.connected = account, connected
}

func (f *fakeGateway) writes() int {
	f.mux.Lock()
	defer f.mux.Unlock()

	n := 0
	for _, m := range []string{"RegisterUser", "RegisterStore", "PurchaseAndEarnRewards", "ReferProduct", "CreateGiftCard", "AwardGiftCard", "MintRoyaltyGiftCard"} {
		n += f.calls[m]
	}
	return n
}

func (f *fakeGateway) write(ctx context.Context, method string, apply func(from common.Address), args ...any) (*core.Receipt, error) {
	if err := f.called(method, args...); err != nil {
		return nil, err
	}

	if f.gate != nil {
		<-f.gate
	}

	f.mux.Lock()
	defer f.mux.Unlock()

	if !f.connected {
		return nil, core.ErrWalletUnavailable
	}

	if apply != nil {
		apply(f.account)
	}

	f.block++
	return &core.Receipt{Method: method, From: f.account, Success: true, BlockNumber: f.block}, nil
}

func (f *fakeGateway) ResolveAccount(ctx context.Context) (common.Address, bool) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.calls["ResolveAccount"]++
	return f.account, f.connected
}

func (f *fakeGateway) RegisterUser(ctx context.Context, email string, isShopper, isBusinessOwner bool) (*core.Receipt, error) {
	return f.write(ctx, "RegisterUser", func(from common.Address) {
		f.users[from] = &core.User{Address: from, Email: email, IsShopper: isShopper, IsBusinessOwner: isBusinessOwner}
	}, email, isShopper, isBusinessOwner)
}

func (f *fakeGateway) RegisterStore(ctx context.Context, store *core.Store) (*core.Receipt, error) {
	return f.write(ctx, "RegisterStore", func(from common.Address) {
		s := *store
		s.Address, s.Owner, s.IsActive = from, from, true
		f.stores[from] = &s
		f.allStores = append(f.allStores, from)
	}, store.Name, store.Description, store.PhoneNumber, store.Email, store.PhysicalLocation)
}

func (f *fakeGateway) PurchaseAndEarnRewards(ctx context.Context, store common.Address, amount string) (*core.Receipt, error) {
	return f.write(ctx, "PurchaseAndEarnRewards", func(from common.Address) {
		if u, ok := f.users[from]; ok {
			u.TotalPoints += 10
		}
	}, store, amount)
}

func (f *fakeGateway) ReferProduct(ctx context.Context, referred common.Address) (*core.Receipt, error) {
	return f.write(ctx, "ReferProduct", nil, referred)
}

func (f *fakeGateway) CreateGiftCard(ctx context.Context, value string, pointCost uint64) (*core.Receipt, error) {
	return f.write(ctx, "CreateGiftCard", nil, value, pointCost)
}

func (f *fakeGateway) AwardGiftCard(ctx context.Context, id uint64, recipient common.Address) (*core.Receipt, error) {
	return f.write(ctx, "AwardGiftCard", nil, id, recipient)
}

func (f *fakeGateway) MintRoyaltyGiftCard(ctx context.Context, id uint64) (*core.Receipt, error) {
	return f.write(ctx, "MintRoyaltyGiftCard", nil, id)
}

func (f *fakeGateway) GetStorePoints(ctx context.Context, user, store common.Address) (uint64, error) {
	if err := f.called("GetStorePoints", user, store); err != nil {
		return 0, err
	}
	return 7, nil
}

func (f *fakeGateway) GetTotalPoints(ctx context.Context, user common.Address) (uint64, error) {
	if err := f.called("GetTotalPoints", user); err != nil {
		return 0, err
	}

	f.mux.Lock()
	defer f.mux.Unlock()
	if u, ok := f.users[user]; ok {
		return u.TotalPoints, nil
	}
	return 0, nil
}

func (f *fakeGateway) GetUserDetails(ctx context.Context, user common.Address) (*core.User, error) {
	if err := f.called("GetUserDetails", user); err != nil {
		return nil, err
	}

	f.mux.Lock()
	defer f.mux.Unlock()
	if u, ok := f.users[user]; ok {
		cp := *u
		return &cp, nil
	}
	return &core.User{Address: user}, nil
}

func (f *fakeGateway) GetStoreDetails(ctx context.Context, store common.Address) (*core.Store, error) {
	if err := f.called("GetStoreDetails", store); err != nil {
		return nil, err
	}

	f.mux.Lock()
	defer f.mux.Unlock()
	if s, ok := f.stores[store]; ok {
		cp := *s
		return &cp, nil
	}
	return &core.Store{Address: store}, nil
}

func (f *fakeGateway) GetGiftCardDetails(ctx context.Context, id uint64) (*core.GiftCard, error) {
	if err := f.called("GetGiftCardDetails", id); err != nil {
		return nil, err
	}

	f.mux.Lock()
	defer f.mux.Unlock()
	if c, ok := f.cards[id]; ok {
		return c, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeGateway) ListUserGiftCards(ctx context.Context, user common.Address) ([]uint64, error) {
	if err := f.called("ListUserGiftCards", user); err != nil {
		return nil, err
	}

	f.mux.Lock()
	defer f.mux.Unlock()
	return f.userCards[user], nil
}

func (f *fakeGateway) GetUserTier(ctx context.Context, user common.Address) (uint64, error) {
	if err := f.called("GetUserTier", user); err != nil {
		return 0, err
	}
	return 2, nil
}

func (f *fakeGateway) GetAllStores(ctx context.Context) ([]common.Address, error) {
	if err := f.called("GetAllStores"); err != nil {
		return nil, err
	}

	f.mux.Lock()
	defer f.mux.Unlock()
	return append([]common.Address(nil), f.allStores...), nil
}

type fakeTokens struct {
	balance decimal.Decimal
	err     error
}

func (f *fakeTokens) Balance(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	return f.balance, f.err
}

type fakeJournal struct {
	mux        sync.Mutex
	activities []*core.Activity
}

func (f *fakeJournal) Create(ctx context.Context, activity *core.Activity) error {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.activities = append(f.activities, activity)
	return nil
}

func (f *fakeJournal) ListAccount(ctx context.Context, account string, limit int) ([]*core.Activity, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	var list []*core.Activity
	for _, a := range f.activities {
		if a.Account == account {
			list = append(list, a)
		}
	}
	return list, nil
}

func (f *fakeJournal) DeleteBefore(ctx context.Context, before time.Time, limit int) (int64, error) {
	return 0, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
