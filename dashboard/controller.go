package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
	"golang.org/x/sync/singleflight"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleShopper Role = "shopper"
)

type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateUnregistered  State = "unregistered"
	StateRegistered    State = "registered"
)

const (
	ActionRegisterStore  = "register_store"
	ActionRegisterUser   = "register_user"
	ActionPurchase       = "purchase"
	ActionRefer          = "refer"
	ActionCreateGiftCard = "create_gift_card"
	ActionAwardGiftCard  = "award_gift_card"
	ActionMintGiftCard   = "mint_gift_card"
)

// Snapshot is the display state of one dashboard. Fields that could not be
// read are left at their zero value.
type Snapshot struct {
	Role        Role             `json:"role"`
	State       State            `json:"state"`
	Connected   bool             `json:"connected"`
	Account     string           `json:"account,omitempty"`
	Balance     string           `json:"balance"`
	TotalPoints uint64           `json:"total_points"`
	StorePoints uint64           `json:"store_points"`
	FocusStore  string           `json:"focus_store,omitempty"`
	Tier        uint64           `json:"tier"`
	User        *core.User       `json:"user,omitempty"`
	Store       *core.Store      `json:"store,omitempty"`
	GiftCards   []*core.GiftCard `json:"gift_cards"`
	Pending     int              `json:"pending"`
	RefreshedAt *time.Time       `json:"refreshed_at,omitempty"`
}

type Config struct {
	NoticeCapacity int
}

// Controller holds the registration state and display fields of one role.
// All methods are safe for concurrent use.
type Controller struct {
	role     Role
	gateway  core.RewardService
	tokens   core.TokenService
	journal  core.ActivityStore
	notifier *Notifier
	logger   *slog.Logger

	flight singleflight.Group

	mux     sync.RWMutex
	state   State
	account common.Address
	focus   common.Address
	view    Snapshot
	pending int
}

func newController(
	role Role,
	gateway core.RewardService,
	tokens core.TokenService,
	journal core.ActivityStore,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	return &Controller{
		role:     role,
		gateway:  gateway,
		tokens:   tokens,
		journal:  journal,
		notifier: NewNotifier(cfg.NoticeCapacity),
		logger:   logger.With("controller", string(role)),
		state:    StateUninitialized,
	}
}

func (c *Controller) Role() Role {
	return c.role
}

func (c *Controller) State() State {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.state
}

func (c *Controller) Account() (common.Address, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.account, c.view.Connected
}

func (c *Controller) Notices() *Notifier {
	return c.notifier
}

func (c *Controller) Snapshot() Snapshot {
	c.mux.RLock()
	defer c.mux.RUnlock()

	s := c.view
	s.Role = c.role
	s.State = c.state
	s.Pending = c.pending
	if c.view.Connected {
		s.Account = c.account.Hex()
	}
	if c.focus != (common.Address{}) {
		s.FocusStore = c.focus.Hex()
	}
	if s.GiftCards == nil {
		s.GiftCards = []*core.GiftCard{}
	}

	return s
}

func (c *Controller) setState(s State) {
	c.mux.Lock()
	c.state = s
	c.mux.Unlock()
}

// Sync resolves the active account, checks whether it is registered for this
// role and refreshes the display fields of a registered account. It runs on
// start and whenever the wallet switches accounts.
func (c *Controller) Sync(ctx context.Context) error {
	_, err, _ := c.flight.Do("sync", func() (any, error) {
		return nil, c.sync(ctx)
	})
	return err
}

func (c *Controller) sync(ctx context.Context) error {
	c.setState(StateLoading)

	account, ok := c.gateway.ResolveAccount(ctx)

	c.mux.Lock()
	if !ok || account != c.account {
		// another account's figures must never show under this one
		c.view = Snapshot{}
		c.focus = common.Address{}
	}
	c.account = account
	c.view.Connected = ok
	c.mux.Unlock()

	if !ok {
		c.logger.Info("no wallet account")
		c.setState(StateUnregistered)
		return nil
	}

	registered, err := c.lookup(ctx, account)
	if err != nil {
		c.logger.Error("registration lookup", "account", account.Hex(), "err", err)
		c.setState(StateUnregistered)
		return err
	}

	if !registered {
		c.setState(StateUnregistered)
		return nil
	}

	c.setState(StateRegistered)
	c.refresh(ctx)
	return nil
}

// lookup reports whether account has a record for this role. The contract
// reads unknown accounts back as empty records.
func (c *Controller) lookup(ctx context.Context, account common.Address) (bool, error) {
	if c.role == RoleOwner {
		store, err := c.gateway.GetStoreDetails(ctx, account)
		if err != nil {
			return false, err
		}

		c.mux.Lock()
		c.view.Store = store
		c.mux.Unlock()
		return store.Registered(), nil
	}

	user, err := c.gateway.GetUserDetails(ctx, account)
	if err != nil {
		return false, err
	}

	c.mux.Lock()
	c.view.User = user
	c.mux.Unlock()
	return user.Registered(), nil
}

// Refresh re-reads every display field of a registered account. Field
// failures are logged and never returned.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mux.RLock()
	connected, state := c.view.Connected, c.state
	c.mux.RUnlock()

	switch {
	case !connected:
		return core.ErrWalletUnavailable
	case state != StateRegistered:
		return fmt.Errorf("%w: %s dashboard", core.ErrNotRegistered, c.role)
	}

	c.refresh(ctx)
	return nil
}

func (c *Controller) setFocus(store common.Address) {
	c.mux.Lock()
	c.focus = store
	c.mux.Unlock()
}
