package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
)

type write struct {
	action string
	// args identify the call for debouncing and the journal
	args []any
	// register writes run from Unregistered, every other write needs Registered
	register bool
	submit   func(ctx context.Context) (*core.Receipt, error)
	// done runs after a confirmed receipt and before the refresh
	done func()
}

// exec runs one user action: fail fast without a wallet, check the state,
// submit at most once per identical in-flight request, then report, journal
// and refresh.
func (c *Controller) exec(ctx context.Context, w write) (*core.Receipt, error) {
	logger := c.logger.With("action", w.action)

	account, ok := c.gateway.ResolveAccount(ctx)
	if !ok {
		c.mux.Lock()
		c.view.Connected = false
		c.mux.Unlock()

		c.notifier.Failure(w.action, core.ErrWalletUnavailable)
		return nil, core.ErrWalletUnavailable
	}

	if current, connected := c.Account(); !connected || current != account {
		// the wallet switched accounts since the last sync
		if err := c.Sync(ctx); err != nil {
			c.notifier.Failure(w.action, err)
			return nil, err
		}
	}

	if err := c.checkState(w.register); err != nil {
		c.notifier.Failure(w.action, err)
		return nil, err
	}

	key := c.debounceKey(account, w)
	v, err, shared := c.flight.Do(key, func() (any, error) {
		c.mux.Lock()
		c.pending++
		c.mux.Unlock()

		defer func() {
			c.mux.Lock()
			c.pending--
			c.mux.Unlock()
		}()

		return c.submit(ctx, account, w)
	})

	if shared {
		logger.Debug("joined in-flight request", "key", key)
	}

	receipt, _ := v.(*core.Receipt)
	return receipt, err
}

func (c *Controller) submit(ctx context.Context, account common.Address, w write) (*core.Receipt, error) {
	logger := c.logger.With("action", w.action)

	receipt, err := w.submit(ctx)
	c.record(ctx, account, w, receipt, err)

	if err != nil {
		logger.Error("gateway", "err", err)
		c.notifier.Failure(w.action, err)
		return receipt, err
	}

	if w.done != nil {
		w.done()
	}

	if w.register {
		c.setState(StateRegistered)
	}

	c.notifier.Success(w.action, fmt.Sprintf("%s confirmed in block %d.", label(w.action), receipt.BlockNumber))
	c.refresh(ctx)

	return receipt, nil
}

func (c *Controller) checkState(register bool) error {
	state := c.State()

	if register {
		if state == StateRegistered {
			return core.FieldError("account", "is already registered")
		}
		return nil
	}

	if state != StateRegistered {
		return fmt.Errorf("%w: %s dashboard", core.ErrNotRegistered, c.role)
	}

	return nil
}

func (c *Controller) debounceKey(account common.Address, w write) string {
	return strings.Join([]string{string(c.role), w.action, account.Hex(), formatArgs(w.args)}, "|")
}

func formatArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}

	return strings.Join(parts, ",")
}

// record journals a write that reached the chain. Journal failures are logged
// only.
func (c *Controller) record(ctx context.Context, account common.Address, w write, receipt *core.Receipt, err error) {
	if c.journal == nil {
		return
	}

	if receipt == nil && err != nil {
		return
	}

	activity := &core.Activity{
		CreatedAt: time.Now(),
		Role:      string(c.role),
		Action:    w.action,
		Account:   account.Hex(),
		Detail:    formatArgs(w.args),
	}

	if receipt != nil {
		activity.TxHash = receipt.TxHash.Hex()
		activity.Success = receipt.Success
		activity.BlockNumber = receipt.BlockNumber
	}

	if err != nil {
		activity.Detail = err.Error()
	}

	if err := c.journal.Create(ctx, activity); err != nil {
		c.logger.Error("journal.Create", "action", w.action, "err", err)
	}
}
