package tribe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pandodao/rewardtribe/core"
)

const (
	codeUserRejected    = 4001 // EIP-1193
	codeExecutionRevert = 3
)

// classify maps an RPC or transport failure onto the core error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", core.ErrNetwork, err)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected:
			return fmt.Errorf("%w: %w", core.ErrUserRejected, err)
		case codeExecutionRevert:
			return reverted(err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "execution reverted"):
		return reverted(err)
	case strings.Contains(msg, "user rejected"), strings.Contains(msg, "user denied"):
		return fmt.Errorf("%w: %w", core.ErrUserRejected, err)
	}

	return fmt.Errorf("%w: %w", core.ErrNetwork, err)
}

func reverted(err error) error {
	if reason := revertReason(err); reason != "" {
		return fmt.Errorf("%w: %s", core.ErrTransactionReverted, reason)
	}

	return fmt.Errorf("%w: %w", core.ErrTransactionReverted, err)
}

// revertReason decodes an Error(string) payload carried in the RPC error data.
func revertReason(err error) string {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return ""
	}

	s, ok := de.ErrorData().(string)
	if !ok {
		return ""
	}

	data, err := hexutil.Decode(s)
	if err != nil {
		return ""
	}

	reason, err := abi.UnpackRevert(data)
	if err != nil {
		return ""
	}

	return reason
}
