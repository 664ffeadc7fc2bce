package activity

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pandodao/rewardtribe/core"
	"github.com/pandodao/rewardtribe/store/db"
	"github.com/tsenart/nap"
)

type Config struct {
	Driver string `valid:"required"`
}

func New(conn *nap.DB, cfg Config) core.ActivityStore {
	builder := sq.StatementBuilder
	if cfg.Driver == db.DriverPostgres {
		builder = builder.PlaceholderFormat(sq.Dollar)
	}

	return &store{
		db:      conn,
		driver:  cfg.Driver,
		builder: builder,
	}
}

type store struct {
	db      *nap.DB
	driver  string
	builder sq.StatementBuilderType
}

var columns = []string{"id", "created_at", "role", "action", "account", "tx_hash", "success", "block_number", "detail"}

func (s *store) Create(ctx context.Context, activity *core.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	activity.CreatedAt = activity.CreatedAt.UTC()

	b := s.builder.Insert("activities").
		Columns(columns[1:]...).
		Values(
			activity.CreatedAt,
			activity.Role,
			activity.Action,
			activity.Account,
			activity.TxHash,
			activity.Success,
			activity.BlockNumber,
			activity.Detail,
		)

	if s.driver == db.DriverPostgres {
		b = b.Suffix("RETURNING id")
		return b.RunWith(s.db).QueryRowContext(ctx).Scan(&activity.ID)
	}

	r, err := b.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return err
	}

	id, err := r.LastInsertId()
	if err != nil {
		return err
	}

	activity.ID = uint64(id)
	return nil
}

func (s *store) ListAccount(ctx context.Context, account string, limit int) ([]*core.Activity, error) {
	b := s.builder.Select(columns...).
		From("activities").
		Where(sq.Eq{"account": account}).
		OrderBy("id DESC").
		Limit(uint64(limit))

	rows, err := b.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*core.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}

		activities = append(activities, a)
	}

	return activities, rows.Err()
}

func (s *store) DeleteBefore(ctx context.Context, t time.Time, limit int) (int64, error) {
	b := s.builder.Select("id").
		From("activities").
		Where(sq.Lt{"created_at": t.UTC()}).
		OrderBy("id").
		Limit(uint64(limit))

	rows, err := b.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return 0, err
	}

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	r, err := s.builder.Delete("activities").
		Where(sq.Eq{"id": ids}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}

	return r.RowsAffected()
}
