package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Wallet is the signer capability the gateway consumes. The active account
// may change at any time, so callers must not cache Accounts.
type Wallet interface {
	Accounts(ctx context.Context) ([]common.Address, error)
	SignTx(ctx context.Context, account common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}
