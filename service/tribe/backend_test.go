package tribe

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const testContract = "0x289E16e6B6943AbB8Ffb80c73D32920064253f5B"

type readFunc func(args []any) ([]any, error)

// fakeBackend answers eth_call by packing outputs with the real ABI and
// records every submitted transaction.
type fakeBackend struct {
	mux sync.Mutex

	chainID *big.Int
	baseFee *big.Int
	reads   map[string]readFunc
	raw     map[string][]byte
	callErr error

	estimateErr   error
	sendErr       error
	receiptStatus uint64
	pendingPolls  int

	estimates []string
	sent      []*types.Transaction
	polls     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chainID:       big.NewInt(44787),
		baseFee:       big.NewInt(5_000_000_000),
		reads:         map[string]readFunc{},
		raw:           map[string][]byte{},
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (f *fakeBackend) on(method string, fn readFunc) {
	f.reads[method] = fn
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}

	method, err := parsedABI.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}

	if raw, ok := f.raw[method.Name]; ok {
		return raw, nil
	}

	fn, ok := f.reads[method.Name]
	if !ok {
		return nil, fmt.Errorf("no fake for %s", method.Name)
	}

	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}

	out, err := fn(args)
	if err != nil {
		return nil, err
	}

	return method.Outputs.Pack(out...)
}

func (f *fakeBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	method, err := parsedABI.MethodById(call.Data[:4])
	if err != nil {
		return 0, err
	}

	f.estimates = append(f.estimates, method.Name)
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}

	return 100_000, nil
}

func (f *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100), BaseFee: f.baseFee}, nil
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(10_000_000_000), nil
}

func (f *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mux.Lock()
	defer f.mux.Unlock()

	if f.sendErr != nil {
		return f.sendErr
	}

	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	f.polls++
	if f.polls <= f.pendingPolls {
		return nil, ethereum.NotFound
	}

	return &types.Receipt{
		Status:      f.receiptStatus,
		TxHash:      txHash,
		BlockNumber: big.NewInt(101),
		GasUsed:     84_000,
	}, nil
}

func (f *fakeBackend) lastCall(t *testing.T) (string, []any) {
	t.Helper()

	f.mux.Lock()
	defer f.mux.Unlock()

	require.NotEmpty(t, f.sent, "no transaction sent")
	data := f.sent[len(f.sent)-1].Data()

	method, err := parsedABI.MethodById(data[:4])
	require.NoError(t, err)

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)

	return method.Name, args
}

// fakeWallet signs with in-memory keys. The first key is the active account.
type fakeWallet struct {
	mux     sync.Mutex
	keys    []*ecdsa.PrivateKey
	signErr error
}

func newFakeWallet(t *testing.T, n int) *fakeWallet {
	t.Helper()

	w := &fakeWallet{}
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		w.keys = append(w.keys, key)
	}

	return w
}

func (w *fakeWallet) Accounts(ctx context.Context) ([]common.Address, error) {
	w.mux.Lock()
	defer w.mux.Unlock()

	accounts := make([]common.Address, 0, len(w.keys))
	for _, key := range w.keys {
		accounts = append(accounts, crypto.PubkeyToAddress(key.PublicKey))
	}

	return accounts, nil
}

func (w *fakeWallet) SignTx(ctx context.Context, account common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	w.mux.Lock()
	defer w.mux.Unlock()

	if w.signErr != nil {
		return nil, w.signErr
	}

	for _, key := range w.keys {
		if crypto.PubkeyToAddress(key.PublicKey) == account {
			return types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
		}
	}

	return nil, errors.New("unknown account")
}

// switchAccount moves the key at i to the front, as a user switching accounts would.
func (w *fakeWallet) switchAccount(i int) {
	w.mux.Lock()
	defer w.mux.Unlock()
	w.keys[0], w.keys[i] = w.keys[i], w.keys[0]
}

func (w *fakeWallet) address(i int) common.Address {
	w.mux.Lock()
	defer w.mux.Unlock()
	return crypto.PubkeyToAddress(w.keys[i].PublicKey)
}

// rpcError mimics the JSON-RPC errors returned by go-ethereum's rpc client.
type rpcError struct {
	code int
	msg  string
	data any
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }
func (e *rpcError) ErrorData() any { return e.data }

func revertError(t *testing.T, reason string) error {
	t.Helper()

	typ, err := abi.NewType("string", "", nil)
	require.NoError(t, err)

	packed, err := abi.Arguments{{Type: typ}}.Pack(reason)
	require.NoError(t, err)

	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return &rpcError{
		code: codeExecutionRevert,
		msg:  "execution reverted",
		data: hexutil.Encode(append(selector, packed...)),
	}
}

func newTestService(t *testing.T, backend Backend, wallet *fakeWallet) *Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(backend, wallet, logger, Config{
		Contract:       testContract,
		ConfirmTimeout: time.Second,
		PollInterval:   5 * time.Millisecond,
	})
}
