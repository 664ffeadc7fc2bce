package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pandodao/rewardtribe/core"
)

const codeUserRejected = 4001

// Caller is the part of *rpc.Client used by Provider.
type Caller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

func DialProvider(ctx context.Context, url string) (*Provider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial wallet: %w", core.ErrWalletUnavailable, err)
	}

	return NewProvider(client), nil
}

func NewProvider(client Caller) *Provider {
	return &Provider{client: client}
}

// Provider delegates account selection and signing to a remote signer that
// speaks eth_accounts and eth_signTransaction, such as Clef or a node with
// unlocked accounts.
type Provider struct {
	client Caller
}

var _ core.Wallet = (*Provider)(nil)

func (p *Provider) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, p.wrap(err)
	}

	return accounts, nil
}

type signTxArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Data                 hexutil.Bytes   `json:"data"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
}

type signTxResult struct {
	Raw hexutil.Bytes `json:"raw"`
}

func (p *Provider) SignTx(ctx context.Context, account common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	args := signTxArgs{
		From:    account,
		To:      tx.To(),
		Gas:     hexutil.Uint64(tx.Gas()),
		Value:   (*hexutil.Big)(tx.Value()),
		Nonce:   hexutil.Uint64(tx.Nonce()),
		Data:    tx.Data(),
		ChainID: (*hexutil.Big)(chainID),
	}

	if tx.Type() == types.LegacyTxType {
		args.GasPrice = (*hexutil.Big)(tx.GasPrice())
	} else {
		args.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
		args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
	}

	var result signTxResult
	if err := p.client.CallContext(ctx, &result, "eth_signTransaction", args); err != nil {
		return nil, p.wrap(err)
	}

	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(result.Raw); err != nil {
		return nil, fmt.Errorf("%w: signed transaction: %w", core.ErrDecode, err)
	}

	return signed, nil
}

func (p *Provider) wrap(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeUserRejected {
		return fmt.Errorf("%w: %w", core.ErrUserRejected, err)
	}

	return fmt.Errorf("%w: %w", core.ErrWalletUnavailable, err)
}
