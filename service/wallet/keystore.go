package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pandodao/rewardtribe/core"
)

type KeystoreConfig struct {
	Dir        string `valid:"required"`
	Passphrase string
	// Account pins the active address; empty means the first key in Dir.
	Account string
}

func NewKeystore(cfg KeystoreConfig) *Keystore {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	if cfg.Account != "" && !common.IsHexAddress(cfg.Account) {
		panic(fmt.Errorf("invalid wallet account %q", cfg.Account))
	}

	return &Keystore{
		ks:  keystore.NewKeyStore(cfg.Dir, keystore.LightScryptN, keystore.LightScryptP),
		cfg: cfg,
	}
}

// Keystore signs with encrypted key files on disk. Without a passphrase the
// account must have been unlocked, otherwise signing is refused.
type Keystore struct {
	ks  *keystore.KeyStore
	cfg KeystoreConfig
}

var _ core.Wallet = (*Keystore)(nil)

func (w *Keystore) Accounts(ctx context.Context) ([]common.Address, error) {
	list := w.ks.Accounts()
	addrs := make([]common.Address, 0, len(list))

	if w.cfg.Account != "" {
		active := common.HexToAddress(w.cfg.Account)
		if !w.ks.HasAddress(active) {
			return nil, nil
		}

		addrs = append(addrs, active)
		for _, a := range list {
			if a.Address != active {
				addrs = append(addrs, a.Address)
			}
		}

		return addrs, nil
	}

	for _, a := range list {
		addrs = append(addrs, a.Address)
	}

	return addrs, nil
}

func (w *Keystore) SignTx(ctx context.Context, account common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	acc := accounts.Account{Address: account}

	var (
		signed *types.Transaction
		err    error
	)

	if w.cfg.Passphrase != "" {
		signed, err = w.ks.SignTxWithPassphrase(acc, w.cfg.Passphrase, tx, chainID)
	} else {
		signed, err = w.ks.SignTx(acc, tx, chainID)
	}

	switch {
	case err == nil:
		return signed, nil
	case errors.Is(err, keystore.ErrLocked), errors.Is(err, keystore.ErrDecrypt):
		return nil, fmt.Errorf("%w: %w", core.ErrUserRejected, err)
	case errors.Is(err, keystore.ErrNoMatch), errors.Is(err, accounts.ErrUnknownAccount):
		return nil, fmt.Errorf("%w: %w", core.ErrWalletUnavailable, err)
	}

	return nil, err
}

// Unlock keeps account decrypted in memory until the process exits.
func (w *Keystore) Unlock(account common.Address, passphrase string) error {
	return w.ks.Unlock(accounts.Account{Address: account}, passphrase)
}

// NewAccount generates a key and stores it encrypted with passphrase.
func (w *Keystore) NewAccount(passphrase string) (common.Address, error) {
	acc, err := w.ks.NewAccount(passphrase)
	if err != nil {
		return common.Address{}, err
	}

	return acc.Address, nil
}
