package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
)

// Dashboard is a controller the watcher keeps in sync with the wallet.
type Dashboard interface {
	Sync(ctx context.Context) error
}

type Config struct {
	Interval time.Duration
}

func New(
	gateway core.RewardService,
	dashboards []Dashboard,
	logger *slog.Logger,
	cfg Config,
) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}

	return &Watcher{
		gateway:    gateway,
		dashboards: dashboards,
		logger:     logger.With("worker", "watcher"),
		cfg:        cfg,
	}
}

// Watcher polls the wallet for the active account and re-syncs every
// dashboard when it changes or the wallet connects or disconnects.
type Watcher struct {
	gateway    core.RewardService
	dashboards []Dashboard
	logger     *slog.Logger
	cfg        Config

	account   common.Address
	connected bool
	synced    bool
}

func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher start")

	for {
		_ = w.run(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.cfg.Interval):
		}
	}
}

func (w *Watcher) run(ctx context.Context) error {
	account, ok := w.gateway.ResolveAccount(ctx)
	if w.synced && account == w.account && ok == w.connected {
		return nil
	}

	w.logger.Info("account changed", "account", account.Hex(), "connected", ok)

	var failed error
	for _, d := range w.dashboards {
		if err := d.Sync(ctx); err != nil {
			w.logger.Error("dashboard.Sync", "err", err)
			failed = err
		}
	}

	if failed != nil {
		// retried on the next tick
		return failed
	}

	w.account, w.connected, w.synced = account, ok, true
	return nil
}
