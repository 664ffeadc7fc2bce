package cleaner

import (
	"context"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pandodao/rewardtribe/core"
)

type Config struct {
	Retention time.Duration `valid:"required"`
	Interval  time.Duration
}

// Cleaner prunes journal activities older than the retention window.
type Cleaner struct {
	activities core.ActivityStore
	logger     *slog.Logger
	cfg        Config
}

func New(
	activities core.ActivityStore,
	logger *slog.Logger,
	cfg Config,
) *Cleaner {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}

	return &Cleaner{
		activities: activities,
		logger:     logger.With("worker", "cleaner"),
		cfg:        cfg,
	}
}

func (w *Cleaner) Run(ctx context.Context) error {
	w.logger.Info("cleaner start", "retention", w.cfg.Retention)

	for {
		_ = w.run(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.cfg.Interval):
		}
	}
}

func (w *Cleaner) run(ctx context.Context) error {
	before := time.Now().Add(-w.cfg.Retention)

	var total int64
	for {
		const limit = 500
		n, err := w.activities.DeleteBefore(ctx, before, limit)
		if err != nil {
			w.logger.Error("activities.DeleteBefore", "err", err)
			return err
		}

		total += n
		if n < limit {
			break
		}
	}

	if total > 0 {
		w.logger.Info("pruned activities", "count", total, "before", before)
	}

	return nil
}
