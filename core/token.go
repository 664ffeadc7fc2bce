package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type TokenService interface {
	// Balance returns the stable token balance of owner in whole units.
	Balance(ctx context.Context, owner common.Address) (decimal.Decimal, error)
}
