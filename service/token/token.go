package token

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"math/big"
	"sync"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/generic"
	"github.com/pandodao/rewardtribe/core"
	"github.com/shopspring/decimal"
	"github.com/zyedidia/generic/cache"
)

//go:embed abi/ERC20.json
var erc20JSON []byte

var erc20 = generic.Must(abi.JSON(bytes.NewReader(erc20JSON)))

type Config struct {
	Address string `valid:"required"`
}

func New(caller ethereum.ContractCaller, cfg Config) *Service {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	if !common.IsHexAddress(cfg.Address) {
		panic(fmt.Errorf("invalid token address %q", cfg.Address))
	}

	return &Service{
		caller:   caller,
		address:  common.HexToAddress(cfg.Address),
		decimals: cache.New[common.Address, uint8](16),
	}
}

// Service reads ERC-20 balances of the stable token.
type Service struct {
	caller  ethereum.ContractCaller
	address common.Address

	decimals *cache.Cache[common.Address, uint8]
	mux      sync.Mutex
}

var _ core.TokenService = (*Service)(nil)

func (s *Service) Balance(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	decimals, err := s.getDecimals(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	out, err := s.call(ctx, "balanceOf", owner)
	if err != nil {
		return decimal.Zero, err
	}

	v, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: balanceOf returned %T", core.ErrDecode, out[0])
	}

	return decimal.NewFromBigInt(v, -int32(decimals)), nil
}

func (s *Service) getDecimals(ctx context.Context) (uint8, error) {
	s.mux.Lock()
	v, ok := s.decimals.Get(s.address)
	s.mux.Unlock()
	if ok {
		return v, nil
	}

	out, err := s.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}

	v, ok = out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("%w: decimals returned %T", core.ErrDecode, out[0])
	}

	s.mux.Lock()
	s.decimals.Put(s.address, v)
	s.mux.Unlock()

	return v, nil
}

func (s *Service) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := erc20.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %w", core.ErrDecode, method, err)
	}

	output, err := s.caller.CallContract(ctx, ethereum.CallMsg{To: &s.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrNetwork, method, err)
	}

	out, err := erc20.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %w", core.ErrDecode, method, err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s returned no values", core.ErrDecode, method)
	}

	return out, nil
}
