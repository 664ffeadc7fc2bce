package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pandodao/rewardtribe/core"
	"github.com/zyedidia/generic/mapset"
	"golang.org/x/sync/errgroup"
)

type ShopsConfig struct {
	// PayAmount is the fixed amount the pay action purchases for.
	PayAmount   string `valid:"required"`
	Concurrency int
	CacheTTL    time.Duration
}

// Shops lists every registered store and pays them through the shopper
// dashboard.
type Shops struct {
	gateway core.RewardService
	shopper *Shopper
	logger  *slog.Logger
	cfg     ShopsConfig

	details *expirable.LRU[common.Address, *core.Store]
}

func NewShops(
	gateway core.RewardService,
	shopper *Shopper,
	logger *slog.Logger,
	cfg ShopsConfig,
) *Shops {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	if _, err := core.ParseAmount("pay_amount", cfg.PayAmount); err != nil {
		panic(err)
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}

	return &Shops{
		gateway: gateway,
		shopper: shopper,
		logger:  logger.With("controller", "shops"),
		cfg:     cfg,
		details: expirable.NewLRU[common.Address, *core.Store](512, nil, cfg.CacheTTL),
	}
}

// List reads getAllStores and the details of each distinct store. Stores
// whose details cannot be read are left out.
func (s *Shops) List(ctx context.Context) ([]*core.Store, error) {
	addrs, err := s.gateway.GetAllStores(ctx)
	if err != nil {
		s.logger.Error("gateway.GetAllStores", "err", err)
		return nil, err
	}

	seen := mapset.New[common.Address]()
	unique := addrs[:0:0]
	for _, addr := range addrs {
		if seen.Has(addr) {
			continue
		}
		seen.Put(addr)
		unique = append(unique, addr)
	}

	results := make([]*core.Store, len(unique))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	for i, addr := range unique {
		g.Go(func() error {
			store, err := s.store(ctx, addr)
			if err != nil {
				s.logger.Error("gateway.GetStoreDetails", "store", addr.Hex(), "err", err)
				return nil
			}

			results[i] = store
			return nil
		})
	}

	_ = g.Wait()

	stores := make([]*core.Store, 0, len(results))
	for _, store := range results {
		if store != nil && store.Registered() {
			stores = append(stores, store)
		}
	}

	return stores, nil
}

func (s *Shops) store(ctx context.Context, addr common.Address) (*core.Store, error) {
	if store, ok := s.details.Get(addr); ok {
		return store, nil
	}

	store, err := s.gateway.GetStoreDetails(ctx, addr)
	if err != nil {
		return nil, err
	}

	s.details.Add(addr, store)
	return store, nil
}

// Pay purchases the configured amount at store as the shopper.
func (s *Shops) Pay(ctx context.Context, store string) (*core.Receipt, error) {
	return s.shopper.Purchase(ctx, store, s.cfg.PayAmount)
}
