package core

import (
	"context"
	"time"
)

type Activity struct {
	ID          uint64    `json:"id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Role        string    `json:"role"`
	Action      string    `json:"action"`
	Account     string    `json:"account"`
	TxHash      string    `json:"tx_hash,omitempty"`
	Success     bool      `json:"success"`
	BlockNumber uint64    `json:"block_number,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

type ActivityStore interface {
	Create(ctx context.Context, activity *Activity) error
	// ListAccount returns the newest activities of account first.
	ListAccount(ctx context.Context, account string, limit int) ([]*Activity, error)
	// DeleteBefore removes up to limit activities created before t.
	DeleteBefore(ctx context.Context, t time.Time, limit int) (int64, error)
}
