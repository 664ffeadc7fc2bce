package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
	"golang.org/x/sync/errgroup"
)

// refresh fans out one read per display field. A failed field keeps the value
// from the previous cycle; values of a different account were already
// cleared by sync.
func (c *Controller) refresh(ctx context.Context) {
	c.mux.RLock()
	account, focus := c.account, c.focus
	c.mux.RUnlock()

	if c.role == RoleOwner {
		focus = account
	}

	var g errgroup.Group

	field := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				c.logger.Error("refresh", "field", name, "account", account.Hex(), "err", err)
			}
			return nil
		})
	}

	if c.tokens != nil {
		field("balance", func() error {
			v, err := c.tokens.Balance(ctx, account)
			if err != nil {
				return err
			}

			c.update(account, func(s *Snapshot) { s.Balance = v.String() })
			return nil
		})
	}

	field("total_points", func() error {
		v, err := c.gateway.GetTotalPoints(ctx, account)
		if err != nil {
			return err
		}

		c.update(account, func(s *Snapshot) { s.TotalPoints = v })
		return nil
	})

	if focus != (common.Address{}) {
		field("store_points", func() error {
			v, err := c.gateway.GetStorePoints(ctx, account, focus)
			if err != nil {
				return err
			}

			c.update(account, func(s *Snapshot) { s.StorePoints = v })
			return nil
		})

		field("store_details", func() error {
			v, err := c.gateway.GetStoreDetails(ctx, focus)
			if err != nil {
				return err
			}

			c.update(account, func(s *Snapshot) { s.Store = v })
			return nil
		})
	}

	field("user_details", func() error {
		v, err := c.gateway.GetUserDetails(ctx, account)
		if err != nil {
			return err
		}

		c.update(account, func(s *Snapshot) { s.User = v })
		return nil
	})

	field("gift_cards", func() error {
		v, err := c.giftCards(ctx, account)
		if err != nil {
			return err
		}

		c.update(account, func(s *Snapshot) { s.GiftCards = v })
		return nil
	})

	field("tier", func() error {
		v, err := c.gateway.GetUserTier(ctx, account)
		if err != nil {
			return err
		}

		c.update(account, func(s *Snapshot) { s.Tier = v })
		return nil
	})

	_ = g.Wait()

	now := time.Now()
	c.update(account, func(s *Snapshot) { s.RefreshedAt = &now })
}

// giftCards lists the account's card ids and reads each card. Cards that no
// longer resolve are skipped.
func (c *Controller) giftCards(ctx context.Context, account common.Address) ([]*core.GiftCard, error) {
	ids, err := c.gateway.ListUserGiftCards(ctx, account)
	if err != nil {
		return nil, err
	}

	cards := make([]*core.GiftCard, 0, len(ids))
	for _, id := range ids {
		card, err := c.gateway.GetGiftCardDetails(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				c.logger.Warn("gift card missing", "id", id)
				continue
			}
			return nil, err
		}

		cards = append(cards, card)
	}

	return cards, nil
}

// update applies fn unless the account changed while the read was in flight.
func (c *Controller) update(account common.Address, fn func(s *Snapshot)) {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.account == account {
		fn(&c.view)
	}
}
