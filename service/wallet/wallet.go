package wallet

import (
	"context"
	"fmt"

	"github.com/asaskevich/govalidator"
	"github.com/pandodao/rewardtribe/core"
)

const (
	KindKeystore = "keystore"
	KindRPC      = "rpc"
)

type Config struct {
	Kind string `valid:"required,in(keystore|rpc)"`

	// keystore
	Dir        string
	Passphrase string
	Account    string

	// rpc
	URL string
}

// New opens the wallet provider selected by cfg.Kind.
func New(ctx context.Context, cfg Config) (core.Wallet, error) {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindKeystore:
		return NewKeystore(KeystoreConfig{
			Dir:        cfg.Dir,
			Passphrase: cfg.Passphrase,
			Account:    cfg.Account,
		}), nil
	case KindRPC:
		return DialProvider(ctx, cfg.URL)
	}

	return nil, fmt.Errorf("unknown wallet kind %q", cfg.Kind)
}
