package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/pandodao/rewardtribe/core"
	"github.com/pandodao/rewardtribe/dashboard"
)

type Config struct {
	ActivityLimit int
}

func New(
	owner *dashboard.Owner,
	shopper *dashboard.Shopper,
	shops *dashboard.Shops,
	activities core.ActivityStore,
	logger *slog.Logger,
	cfg Config,
) *Server {
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = 50
	}

	return &Server{
		owner:      owner,
		shopper:    shopper,
		shops:      shops,
		activities: activities,
		logger:     logger.With("server", "api"),
		cfg:        cfg,
	}
}

type Server struct {
	owner      *dashboard.Owner
	shopper    *dashboard.Shopper
	shops      *dashboard.Shops
	activities core.ActivityStore
	logger     *slog.Logger
	cfg        Config
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Route("/dashboard", func(r chi.Router) {
		r.Post("/owner/register", s.registerStore)
		r.Post("/owner/giftcards", s.createGiftCard)
		r.Post("/owner/giftcards/{id}/award", s.awardGiftCard)

		r.Post("/shopper/register", s.registerUser)
		r.Post("/shopper/purchase", s.purchase)
		r.Post("/shopper/refer", s.refer)
		r.Post("/shopper/giftcards/{id}/mint", s.mintGiftCard)
		r.Put("/shopper/focus", s.focus)

		r.Get("/{role}", s.snapshot)
		r.Post("/{role}/sync", s.sync)
		r.Post("/{role}/refresh", s.refresh)
		r.Get("/{role}/notices", s.notices)
		r.Delete("/{role}/notices/{id}", s.dismissNotice)
	})

	r.Get("/shops", s.listShops)
	r.Post("/shops/{address}/pay", s.pay)
	r.Get("/activities", s.listActivities)

	return r
}

func (s *Server) controller(r *http.Request) (*dashboard.Controller, error) {
	switch dashboard.Role(chi.URLParam(r, "role")) {
	case dashboard.RoleOwner:
		return s.owner.Controller, nil
	case dashboard.RoleShopper:
		return s.shopper.Controller, nil
	}

	return nil, fmt.Errorf("%w: dashboard %q", core.ErrNotFound, chi.URLParam(r, "role"))
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	renderJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) sync(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err == nil {
		err = c.Sync(r.Context())
	}

	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	renderJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err == nil {
		err = c.Refresh(r.Context())
	}

	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	renderJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) notices(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	renderJSON(w, http.StatusOK, c.Notices().List())
}

func (s *Server) dismissNotice(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	id := chi.URLParam(r, "id")
	if !c.Notices().Dismiss(id) {
		renderError(w, s.logger, fmt.Errorf("%w: notice %s", core.ErrNotFound, id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type writeResponse struct {
	Receipt   *core.Receipt      `json:"receipt"`
	Dashboard dashboard.Snapshot `json:"dashboard"`
}

// write runs a dashboard action and renders its receipt with the refreshed
// dashboard.
func (s *Server) write(w http.ResponseWriter, c *dashboard.Controller, fn func() (*core.Receipt, error)) {
	receipt, err := fn()
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	renderJSON(w, http.StatusOK, writeResponse{Receipt: receipt, Dashboard: c.Snapshot()})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return core.FieldError("body", "is not valid JSON")
	}

	return nil
}

func pathID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, core.FieldError("id", "must be a non-negative integer")
	}

	return id, nil
}

func (s *Server) registerStore(w http.ResponseWriter, r *http.Request) {
	var form dashboard.StoreForm
	if err := decode(r, &form); err != nil {
		renderError(w, s.logger, err)
		return
	}

	s.write(w, s.owner.Controller, func() (*core.Receipt, error) {
		return s.owner.Register(r.Context(), form)
	})
}

func (s *Server) createGiftCard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value     string `json:"value"`
		PointCost uint64 `json:"point_cost"`
	}

	if err := decode(r, &body); err != nil {
		renderError(w, s.logger, err)
		return
	}

	s.write(w, s.owner.Controller, func() (*core.Receipt, error) {
		return s.owner.CreateGiftCard(r.Context(), body.Value, body.PointCost)
	})
}

func (s *Server) awardGiftCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	var body struct {
		Recipient string `json:"recipient"`
	}

	if err := decode(r, &body); err != nil {
		renderError(w, s.logger, err)
		return
	}

	s.write(w, s.owner.Controller, func() (*core.Receipt, error) {
		return s.owner.AwardGiftCard(r.Context(), id, body.Recipient)
	})
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var form dashboard.UserForm
	if err := decode(r, &form); err != nil {
		renderError(w, s.logger, err)
		return
	}

	s.write(w, s.shopper.Controller, func() (*core.Receipt, error) {
		return s.shopper.Register(r.Context(), form)
	})
}

func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Store  string `json:"store"`
		Amount string `json:"amount"`
	}

	if err := decode(r, &body); err != nil {
		renderError(w, s.logger, err)
		return
	}

	s.write(w, s.shopper.Controller, func() (*core.Receipt, error) {
		return s.shopper.Purchase(r.Context(), body.Store, body.Amount)
	})
}

func (s *Server) refer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Friend string `json:"friend"`
	}

	if err := decode(r, &body); err != nil {
		renderError(w, s.logger, err)
		return
	}

	s.write(w, s.shopper.Controller, func() (*core.Receipt, error) {
		return s.shopper.Refer(r.Context(), body.Friend)
	})
}

func (s *Server) mintGiftCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	s.write(w, s.shopper.Controller, func() (*core.Receipt, error) {
		return s.shopper.MintGiftCard(r.Context(), id)
	})
}

func (s *Server) focus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Store string `json:"store"`
	}

	err := decode(r, &body)
	if err == nil {
		err = s.shopper.Focus(body.Store)
	}

	if err == nil {
		err = s.shopper.Refresh(r.Context())
	}

	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	renderJSON(w, http.StatusOK, s.shopper.Snapshot())
}

func (s *Server) listShops(w http.ResponseWriter, r *http.Request) {
	stores, err := s.shops.List(r.Context())
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	renderJSON(w, http.StatusOK, stores)
}

func (s *Server) pay(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	s.write(w, s.shopper.Controller, func() (*core.Receipt, error) {
		return s.shops.Pay(r.Context(), address)
	})
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		renderError(w, s.logger, core.FieldError("account", "is required"))
		return
	}

	if common.IsHexAddress(account) {
		account = common.HexToAddress(account).Hex()
	}

	limit := s.cfg.ActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			renderError(w, s.logger, core.FieldError("limit", "must be a positive integer"))
			return
		}
		limit = min(n, s.cfg.ActivityLimit)
	}

	activities, err := s.activities.ListAccount(r.Context(), account, limit)
	if err != nil {
		renderError(w, s.logger, err)
		return
	}

	if activities == nil {
		activities = []*core.Activity{}
	}

	renderJSON(w, http.StatusOK, activities)
}
