package activity

import (
	"database/sql"

	"github.com/pandodao/rewardtribe/core"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(s scanner) (*core.Activity, error) {
	var (
		a      core.Activity
		detail sql.NullString
	)

	if err := s.Scan(
		&a.ID,
		&a.CreatedAt,
		&a.Role,
		&a.Action,
		&a.Account,
		&a.TxHash,
		&a.Success,
		&a.BlockNumber,
		&detail,
	); err != nil {
		return nil, err
	}

	a.Detail = detail.String
	return &a, nil
}
