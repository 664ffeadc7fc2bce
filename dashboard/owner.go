package dashboard

import (
	"context"
	"log/slog"

	"github.com/pandodao/rewardtribe/core"
)

// Owner is the business owner dashboard. Its account is registered once the
// contract holds a store under that address.
type Owner struct {
	*Controller
}

func NewOwner(
	gateway core.RewardService,
	tokens core.TokenService,
	journal core.ActivityStore,
	logger *slog.Logger,
	cfg Config,
) *Owner {
	return &Owner{
		Controller: newController(RoleOwner, gateway, tokens, journal, logger, cfg),
	}
}

func (o *Owner) Register(ctx context.Context, form StoreForm) (*core.Receipt, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	store := form.store()
	return o.exec(ctx, write{
		action:   ActionRegisterStore,
		args:     []any{store.Name, store.Description, store.PhoneNumber, store.Email, store.PhysicalLocation},
		register: true,
		submit: func(ctx context.Context) (*core.Receipt, error) {
			return o.gateway.RegisterStore(ctx, store)
		},
	})
}

func (o *Owner) CreateGiftCard(ctx context.Context, value string, pointCost uint64) (*core.Receipt, error) {
	v := &core.ValidationError{}
	amount := parseAmount(v, "value", value)
	if pointCost == 0 {
		v.Add("point_cost", "is required")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	return o.exec(ctx, write{
		action: ActionCreateGiftCard,
		args:   []any{amount, pointCost},
		submit: func(ctx context.Context) (*core.Receipt, error) {
			return o.gateway.CreateGiftCard(ctx, amount, pointCost)
		},
	})
}

func (o *Owner) AwardGiftCard(ctx context.Context, id uint64, recipient string) (*core.Receipt, error) {
	v := &core.ValidationError{}
	to := parseAddress(v, "recipient", recipient)
	if err := v.Err(); err != nil {
		return nil, err
	}

	return o.exec(ctx, write{
		action: ActionAwardGiftCard,
		args:   []any{id, to.Hex()},
		submit: func(ctx context.Context) (*core.Receipt, error) {
			return o.gateway.AwardGiftCard(ctx, id, to)
		},
	})
}
