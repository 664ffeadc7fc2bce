package tribe

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pandodao/generic"
	"github.com/pandodao/rewardtribe/core"
)

//go:embed abi/RewardTribe.json
var contractABI []byte

var parsedABI = generic.Must(abi.JSON(bytes.NewReader(contractABI)))

// Backend is the subset of the Ethereum RPC the gateway needs.
// *ethclient.Client satisfies it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Config struct {
	Contract       string `valid:"required"`
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

func New(
	backend Backend,
	wallet core.Wallet,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	if !common.IsHexAddress(cfg.Contract) {
		panic(fmt.Errorf("invalid contract address %q", cfg.Contract))
	}

	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 2 * time.Minute
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}

	return &Service{
		backend:  backend,
		wallet:   wallet,
		logger:   logger.With("service", "tribe"),
		abi:      parsedABI,
		contract: common.HexToAddress(cfg.Contract),
		cfg:      cfg,
		metrics:  gatewayMetrics(),
	}
}

type Service struct {
	backend  Backend
	wallet   core.Wallet
	logger   *slog.Logger
	abi      abi.ABI
	contract common.Address
	cfg      Config
	metrics  *metrics

	mux     sync.Mutex
	chainID *big.Int
}

// ResolveAccount asks the wallet for its first address. It is called on
// every write so an account switch in the wallet takes effect immediately.
func (s *Service) ResolveAccount(ctx context.Context) (common.Address, bool) {
	accounts, err := s.wallet.Accounts(ctx)
	if err != nil {
		s.logger.Warn("wallet.Accounts", "err", err)
		return common.Address{}, false
	}

	if len(accounts) == 0 {
		return common.Address{}, false
	}

	return accounts[0], true
}

func (s *Service) getChainID(ctx context.Context) (*big.Int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.chainID != nil {
		return s.chainID, nil
	}

	id, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, classify(err)
	}

	s.chainID = id
	return id, nil
}

// Read performs an eth_call against the latest state and returns the
// unpacked outputs in ABI order.
func (s *Service) Read(ctx context.Context, method string, args ...any) (out []any, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(method, "read", start, err) }()

	data, err := s.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %w", core.ErrDecode, method, err)
	}

	output, err := s.backend.CallContract(ctx, ethereum.CallMsg{To: &s.contract, Data: data}, nil)
	if err != nil {
		return nil, classify(err)
	}

	if len(output) == 0 && len(s.abi.Methods[method].Outputs) > 0 {
		return nil, fmt.Errorf("%w: %s returned no data", core.ErrDecode, method)
	}

	out, err = s.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %w", core.ErrDecode, method, err)
	}

	return out, nil
}

// Write signs and submits a contract call from the active account and blocks
// until it is mined. Retried writes are not deduplicated here.
func (s *Service) Write(ctx context.Context, method string, args ...any) (receipt *core.Receipt, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(method, "write", start, err) }()

	logger := s.logger.With("method", method)

	account, ok := s.ResolveAccount(ctx)
	if !ok {
		return nil, core.ErrWalletUnavailable
	}

	data, err := s.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %w", core.ErrDecode, method, err)
	}

	chainID, err := s.getChainID(ctx)
	if err != nil {
		logger.Error("backend.ChainID", "err", err)
		return nil, err
	}

	tx, err := s.buildTx(ctx, chainID, account, data)
	if err != nil {
		logger.Error("buildTx", "err", err)
		return nil, err
	}

	signed, err := s.wallet.SignTx(ctx, account, tx, chainID)
	if err != nil {
		logger.Error("wallet.SignTx", "err", err)
		if errors.Is(err, core.ErrUserRejected) || errors.Is(err, core.ErrWalletUnavailable) {
			return nil, err
		}

		return nil, classify(err)
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		logger.Error("backend.SendTransaction", "err", err)
		return nil, classify(err)
	}

	logger.Info("transaction submitted", "hash", signed.Hash().Hex(), "from", account.Hex(), "nonce", signed.Nonce())

	r, err := s.waitMined(ctx, signed.Hash())
	if err != nil {
		logger.Error("waitMined", "hash", signed.Hash().Hex(), "err", err)
		return nil, err
	}

	receipt = &core.Receipt{
		TxHash:      r.TxHash,
		Method:      method,
		From:        account,
		Success:     r.Status == types.ReceiptStatusSuccessful,
		GasUsed:     r.GasUsed,
		Logs:        len(r.Logs),
		ConfirmedAt: time.Now(),
	}

	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}

	if !receipt.Success {
		logger.Warn("transaction reverted", "hash", r.TxHash.Hex(), "block", receipt.BlockNumber)
		return receipt, fmt.Errorf("%w: %s failed in block %d", core.ErrTransactionReverted, r.TxHash.Hex(), receipt.BlockNumber)
	}

	logger.Debug("transaction confirmed", "hash", r.TxHash.Hex(), "block", receipt.BlockNumber)
	return receipt, nil
}

func (s *Service) buildTx(ctx context.Context, chainID *big.Int, from common.Address, data []byte) (*types.Transaction, error) {
	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &s.contract, Data: data})
	if err != nil {
		return nil, classify(err)
	}

	// estimates are exact for the current state, leave room for drift
	gas += gas / 5

	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, classify(err)
	}

	head, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}

	if head.BaseFee == nil {
		price, err := s.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, classify(err)
		}

		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price,
			Gas:      gas,
			To:       &s.contract,
			Data:     data,
		}), nil
	}

	tip, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, classify(err)
	}

	feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
	feeCap.Add(feeCap, tip)

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &s.contract,
		Data:      data,
	}), nil
}

func (s *Service) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		r, err := s.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && r != nil:
			return r, nil
		case err != nil && !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil:
			// the transaction is already out, keep polling through transient failures
			s.logger.Debug("backend.TransactionReceipt", "hash", hash.Hex(), "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: confirmation of %s: %w", core.ErrNetwork, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
