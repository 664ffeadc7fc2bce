package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOwner(gw *fakeGateway, journal core.ActivityStore) *Owner {
	tokens := &fakeTokens{balance: decimal.RequireFromString("12.5")}
	return NewOwner(gw, tokens, journal, discardLogger(), Config{})
}

func newShopper(gw *fakeGateway, tokens core.TokenService) *Shopper {
	if tokens == nil {
		tokens = &fakeTokens{balance: decimal.RequireFromString("3")}
	}
	return NewShopper(gw, tokens, nil, discardLogger(), Config{})
}

func registeredShopper(t *testing.T, gw *fakeGateway) *Shopper {
	t.Helper()

	gw.users[alice] = &core.User{Address: alice, Email: "alice@example.com", IsShopper: true, TotalPoints: 40}
	s := newShopper(gw, nil)
	require.NoError(t, s.Sync(context.Background()))
	require.Equal(t, StateRegistered, s.State())
	return s
}

func TestOwner_RegisterStore(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	journal := &fakeJournal{}
	o := newOwner(gw, journal)

	assert.Equal(t, StateUninitialized, o.State())
	require.NoError(t, o.Sync(ctx))
	assert.Equal(t, StateUnregistered, o.State())
	assert.Equal(t, 0, gw.count("GetTotalPoints"), "unregistered accounts are not refreshed")

	receipt, err := o.Register(ctx, StoreForm{
		Name:             "Joe's Shop",
		Description:      "Coffee",
		PhoneNumber:      "5551234567",
		Email:            "a@b.com",
		PhysicalLocation: "12 Main St",
	})
	require.NoError(t, err)
	assert.True(t, receipt.Success)

	assert.Equal(t, []any{"Joe's Shop", "Coffee", "5551234567", "a@b.com", "12 Main St"}, gw.lastArgs("RegisterStore"))
	assert.Equal(t, StateRegistered, o.State())

	// one lookup during sync, one read in the refresh after registering
	assert.Equal(t, 2, gw.count("GetStoreDetails"))
	assert.Equal(t, []any{alice}, gw.lastArgs("GetStoreDetails"))
	assert.Equal(t, 1, gw.count("GetTotalPoints"), "exactly one refresh")
	assert.Equal(t, 1, gw.count("GetUserTier"))

	snap := o.Snapshot()
	require.NotNil(t, snap.Store)
	assert.Equal(t, "Joe's Shop", snap.Store.Name)
	assert.Equal(t, "12.5", snap.Balance)
	assert.NotNil(t, snap.RefreshedAt)

	notices := o.Notices().List()
	require.Len(t, notices, 1)
	assert.Equal(t, LevelSuccess, notices[0].Level)

	require.Len(t, journal.activities, 1)
	assert.Equal(t, ActionRegisterStore, journal.activities[0].Action)
	assert.True(t, journal.activities[0].Success)
}

func TestOwner_RegisterTwice(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	gw.stores[alice] = &core.Store{Address: alice, Name: "Joe's Shop", Owner: alice}
	o := newOwner(gw, nil)
	require.NoError(t, o.Sync(ctx))
	require.Equal(t, StateRegistered, o.State())

	_, err := o.Register(ctx, StoreForm{Name: "Other", PhoneNumber: "5551234567", Email: "a@b.com"})
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, 0, gw.count("RegisterStore"))
}

func TestOwner_RegisterValidation(t *testing.T) {
	gw := newFakeGateway(alice)
	o := newOwner(gw, nil)
	require.NoError(t, o.Sync(context.Background()))

	_, err := o.Register(context.Background(), StoreForm{PhoneNumber: "555-1234", Email: "not-an-email"})
	require.ErrorIs(t, err, core.ErrValidation)

	var v *core.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v.Fields, "name")
	assert.Contains(t, v.Fields, "email")
	assert.Contains(t, v.Fields, "phone_number")

	assert.Equal(t, 0, gw.writes())
	assert.Equal(t, StateUnregistered, o.State())
}

func TestShopper_PurchaseReverted(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	s := registeredShopper(t, gw)
	require.Equal(t, 1, gw.count("GetTotalPoints"))

	gw.setFail("PurchaseAndEarnRewards", fmt.Errorf("%w: insufficient allowance", core.ErrTransactionReverted))

	_, err := s.Purchase(ctx, shopABC.Hex(), "10.5")
	require.ErrorIs(t, err, core.ErrTransactionReverted)
	assert.Equal(t, []any{shopABC, "10.5"}, gw.lastArgs("PurchaseAndEarnRewards"))

	assert.Equal(t, StateRegistered, s.State())
	assert.Equal(t, 1, gw.count("GetTotalPoints"), "no refresh after a failed write")

	notices := s.Notices().List()
	require.NotEmpty(t, notices)
	last := notices[len(notices)-1]
	assert.Equal(t, LevelError, last.Level)
	assert.Equal(t, core.KindTransactionReverted, last.Kind)
	assert.Contains(t, last.Message, "Purchase failed")
}

func TestShopper_PurchaseRefreshesFocusStore(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	s := registeredShopper(t, gw)

	_, err := s.Purchase(ctx, shopABC.Hex(), "10.5")
	require.NoError(t, err)

	assert.Equal(t, 2, gw.count("GetTotalPoints"))
	assert.Equal(t, []any{alice, shopABC}, gw.lastArgs("GetStorePoints"))

	snap := s.Snapshot()
	assert.Equal(t, uint64(50), snap.TotalPoints)
	assert.Equal(t, uint64(7), snap.StorePoints)
	assert.Equal(t, shopABC.Hex(), snap.FocusStore)
}

func TestShopper_PurchaseValidation(t *testing.T) {
	gw := newFakeGateway(alice)
	s := registeredShopper(t, gw)

	tests := []struct {
		store, amount, field string
	}{
		{"", "1", "store"},
		{"0x123", "1", "store"},
		{shopABC.Hex(), "", "amount"},
		{shopABC.Hex(), "ten", "amount"},
		{shopABC.Hex(), "-1", "amount"},
		{shopABC.Hex(), "1.0000000000000000001", "amount"},
		{shopABC.Hex(), "1e60", "amount"},
		{shopABC.Hex(), "1" + strings.Repeat("0", 60), "amount"},
	}

	for _, tt := range tests {
		_, err := s.Purchase(context.Background(), tt.store, tt.amount)

		var v *core.ValidationError
		require.True(t, errors.As(err, &v), "%s %s", tt.store, tt.amount)
		assert.Contains(t, v.Fields, tt.field)
	}

	assert.Equal(t, 0, gw.writes())
}

func TestController_WalletUnavailable(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(common.Address{})
	gw.connected = false

	o := newOwner(gw, nil)
	s := newShopper(gw, nil)

	require.NoError(t, o.Sync(ctx))
	require.NoError(t, s.Sync(ctx))
	assert.Equal(t, StateUnregistered, o.State())
	assert.False(t, o.Snapshot().Connected)

	actions := []func() error{
		func() error { _, err := o.Register(ctx, StoreForm{Name: "Joe's Shop", PhoneNumber: "5551234567", Email: "a@b.com"}); return err },
		func() error { _, err := o.CreateGiftCard(ctx, "25", 100); return err },
		func() error { _, err := o.AwardGiftCard(ctx, 1, bob.Hex()); return err },
		func() error { _, err := s.Register(ctx, UserForm{Email: "a@b.com", IsShopper: true}); return err },
		func() error { _, err := s.Purchase(ctx, shopABC.Hex(), "10.5"); return err },
		func() error { _, err := s.Refer(ctx, bob.Hex()); return err },
		func() error { _, err := s.MintGiftCard(ctx, 1); return err },
	}

	for i, action := range actions {
		assert.ErrorIs(t, action(), core.ErrWalletUnavailable, "action %d", i)
	}

	assert.Equal(t, 0, gw.writes())
	assert.ErrorIs(t, o.Refresh(ctx), core.ErrWalletUnavailable)
}

func TestController_RefreshFieldFailure(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	gw.userCards[alice] = []uint64{1, 2, 3}
	gw.cards[1] = &core.GiftCard{ID: 1, Store: shopABC, Value: decimal.NewFromInt(5), PointCost: 50, IsActive: true}
	gw.cards[3] = &core.GiftCard{ID: 3, Store: shopDEF, Value: decimal.NewFromInt(10), PointCost: 90, IsActive: true}

	s := registeredShopper(t, gw)
	require.NoError(t, s.Focus(shopABC.Hex()))

	gw.setFail("GetStoreDetails", core.ErrNetwork)
	gw.setFail("GetStorePoints", core.ErrDecode)

	require.NoError(t, s.Refresh(ctx))

	snap := s.Snapshot()
	assert.Nil(t, snap.Store)
	assert.Zero(t, snap.StorePoints)
	assert.Equal(t, uint64(40), snap.TotalPoints)
	assert.Equal(t, uint64(2), snap.Tier)
	require.Len(t, snap.GiftCards, 2, "missing card 2 is skipped")
	assert.EqualValues(t, 1, snap.GiftCards[0].ID)
	assert.EqualValues(t, 3, snap.GiftCards[1].ID)
}

func TestController_RefreshKeepsPreviousValueOnFailure(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	tokens := &fakeTokens{balance: decimal.RequireFromString("3")}
	gw.users[alice] = &core.User{Address: alice, Email: "alice@example.com", IsShopper: true}

	s := newShopper(gw, tokens)
	require.NoError(t, s.Sync(ctx))
	assert.Equal(t, "3", s.Snapshot().Balance)

	tokens.err = core.ErrNetwork
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, "3", s.Snapshot().Balance)
}

func TestController_AccountSwitch(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	s := registeredShopper(t, gw)
	assert.Equal(t, uint64(40), s.Snapshot().TotalPoints)

	gw.switchAccount(bob, true)

	_, err := s.Refer(ctx, alice.Hex())
	assert.ErrorIs(t, err, core.ErrNotRegistered)
	assert.Equal(t, 0, gw.writes())

	snap := s.Snapshot()
	assert.Equal(t, StateUnregistered, snap.State)
	assert.Equal(t, bob.Hex(), snap.Account)
	assert.Zero(t, snap.TotalPoints, "figures of the previous account are cleared")
}

func TestShopper_RegisterAndMint(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(bob)
	s := newShopper(gw, nil)
	require.NoError(t, s.Sync(ctx))

	_, err := s.MintGiftCard(ctx, 1)
	assert.ErrorIs(t, err, core.ErrNotRegistered)

	_, err = s.Register(ctx, UserForm{Email: " bob@example.com ", IsShopper: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"bob@example.com", true, false}, gw.lastArgs("RegisterUser"))
	assert.Equal(t, StateRegistered, s.State())

	_, err = s.MintGiftCard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(1)}, gw.lastArgs("MintRoyaltyGiftCard"))
	assert.Equal(t, 2, gw.count("GetTotalPoints"))
}

func TestOwner_GiftCards(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	gw.stores[alice] = &core.Store{Address: alice, Name: "Joe's Shop", Owner: alice}
	o := newOwner(gw, nil)
	require.NoError(t, o.Sync(ctx))

	_, err := o.CreateGiftCard(ctx, "25.50", 0)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = o.CreateGiftCard(ctx, "25.50", 300)
	require.NoError(t, err)
	assert.Equal(t, []any{"25.5", uint64(300)}, gw.lastArgs("CreateGiftCard"))

	_, err = o.AwardGiftCard(ctx, 4, "nobody")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = o.AwardGiftCard(ctx, 4, bob.Hex())
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(4), bob}, gw.lastArgs("AwardGiftCard"))
}

func TestController_DebouncesIdenticalWrites(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	s := registeredShopper(t, gw)
	gw.gate = make(chan struct{})

	var wg sync.WaitGroup
	results := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[0] = s.Refer(ctx, bob.Hex())
	}()

	require.Eventually(t, func() bool { return gw.count("ReferProduct") == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, s.Snapshot().Pending)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[1] = s.Refer(ctx, bob.Hex())
	}()

	time.Sleep(50 * time.Millisecond)
	close(gw.gate)
	wg.Wait()

	assert.NoError(t, results[0])
	assert.NoError(t, results[1])
	assert.Equal(t, 1, gw.count("ReferProduct"))
	assert.Equal(t, 0, s.Snapshot().Pending)
}

func TestOwner_RegisterDistinctFormsNotCoalesced(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	o := newOwner(gw, nil)
	require.NoError(t, o.Sync(ctx))
	gw.gate = make(chan struct{})

	forms := []StoreForm{
		{Name: "Joe's Shop", Description: "Coffee", PhoneNumber: "5551234567", Email: "a@b.com", PhysicalLocation: "12 Main St"},
		{Name: "Joe's Shop", Description: "Coffee", PhoneNumber: "5559876543", Email: "a@b.com", PhysicalLocation: "12 Main St"},
	}

	var wg sync.WaitGroup
	results := make([]error, len(forms))
	for i, form := range forms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = o.Register(ctx, form)
		}()
	}

	require.Eventually(t, func() bool { return gw.count("RegisterStore") == 2 }, time.Second, time.Millisecond)
	close(gw.gate)
	wg.Wait()

	assert.NoError(t, results[0])
	assert.NoError(t, results[1])
	assert.Equal(t, 2, gw.count("RegisterStore"))
}

func TestShops(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(alice)
	gw.stores[shopABC] = &core.Store{Address: shopABC, Name: "ABC Market", Owner: shopABC}
	gw.stores[shopDEF] = &core.Store{Address: shopDEF, Name: "DEF Deli", Owner: shopDEF}
	gw.allStores = []common.Address{shopABC, shopDEF, shopABC, bob}

	s := registeredShopper(t, gw)
	shops := NewShops(gw, s, discardLogger(), ShopsConfig{PayAmount: "1.5"})

	stores, err := shops.List(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 2, "duplicates and unregistered addresses are dropped")
	assert.Equal(t, "ABC Market", stores[0].Name)
	assert.Equal(t, "DEF Deli", stores[1].Name)

	before := gw.count("GetStoreDetails")
	_, err = shops.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, gw.count("GetStoreDetails"), "details are cached")

	_, err = shops.Pay(ctx, shopDEF.Hex())
	require.NoError(t, err)
	assert.Equal(t, []any{shopDEF, "1.5"}, gw.lastArgs("PurchaseAndEarnRewards"))
}

func TestShops_SkipsFailingStore(t *testing.T) {
	gw := newFakeGateway(alice)
	gw.allStores = []common.Address{shopABC}
	gw.setFail("GetStoreDetails", core.ErrNetwork)

	shops := NewShops(gw, newShopper(gw, nil), discardLogger(), ShopsConfig{PayAmount: "1"})
	stores, err := shops.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stores)

	gw.setFail("GetAllStores", core.ErrNetwork)
	_, err = shops.List(context.Background())
	assert.ErrorIs(t, err, core.ErrNetwork)
}

func TestNewShops_InvalidPayAmount(t *testing.T) {
	gw := newFakeGateway(alice)
	assert.Panics(t, func() {
		NewShops(gw, newShopper(gw, nil), discardLogger(), ShopsConfig{PayAmount: "free"})
	})
}
