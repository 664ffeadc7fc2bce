package dashboard

import (
	"context"
	"log/slog"

	"github.com/pandodao/rewardtribe/core"
)

// Shopper is the customer dashboard. Store points follow the store of the
// last confirmed purchase.
type Shopper struct {
	*Controller
}

func NewShopper(
	gateway core.RewardService,
	tokens core.TokenService,
	journal core.ActivityStore,
	logger *slog.Logger,
	cfg Config,
) *Shopper {
	return &Shopper{
		Controller: newController(RoleShopper, gateway, tokens, journal, logger, cfg),
	}
}

func (s *Shopper) Register(ctx context.Context, form UserForm) (*core.Receipt, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	return s.exec(ctx, write{
		action:   ActionRegisterUser,
		args:     []any{form.Email, form.IsShopper, form.IsBusinessOwner},
		register: true,
		submit: func(ctx context.Context) (*core.Receipt, error) {
			return s.gateway.RegisterUser(ctx, form.Email, form.IsShopper, form.IsBusinessOwner)
		},
	})
}

func (s *Shopper) Purchase(ctx context.Context, store, amount string) (*core.Receipt, error) {
	v := &core.ValidationError{}
	addr := parseAddress(v, "store", store)
	value := parseAmount(v, "amount", amount)
	if err := v.Err(); err != nil {
		return nil, err
	}

	return s.exec(ctx, write{
		action: ActionPurchase,
		args:   []any{addr.Hex(), value},
		submit: func(ctx context.Context) (*core.Receipt, error) {
			return s.gateway.PurchaseAndEarnRewards(ctx, addr, value)
		},
		done: func() { s.setFocus(addr) },
	})
}

func (s *Shopper) Refer(ctx context.Context, friend string) (*core.Receipt, error) {
	v := &core.ValidationError{}
	addr := parseAddress(v, "friend", friend)
	if err := v.Err(); err != nil {
		return nil, err
	}

	return s.exec(ctx, write{
		action: ActionRefer,
		args:   []any{addr.Hex()},
		submit: func(ctx context.Context) (*core.Receipt, error) {
			return s.gateway.ReferProduct(ctx, addr)
		},
	})
}

// MintGiftCard redeems points for the gift card id as a royalty card.
func (s *Shopper) MintGiftCard(ctx context.Context, id uint64) (*core.Receipt, error) {
	return s.exec(ctx, write{
		action: ActionMintGiftCard,
		args:   []any{id},
		submit: func(ctx context.Context) (*core.Receipt, error) {
			return s.gateway.MintRoyaltyGiftCard(ctx, id)
		},
	})
}

// Focus sets the store whose points and details the dashboard shows.
func (s *Shopper) Focus(store string) error {
	v := &core.ValidationError{}
	addr := parseAddress(v, "store", store)
	if err := v.Err(); err != nil {
		return err
	}

	s.setFocus(addr)
	return nil
}
