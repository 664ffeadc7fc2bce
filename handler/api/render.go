package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oxtoacart/bpool"
	"github.com/pandodao/rewardtribe/core"
)

var buffers = bpool.NewBufferPool(64)

func renderJSON(w http.ResponseWriter, status int, v any) {
	buf := buffers.Get()
	defer buffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorBody struct {
	Kind    core.ErrorKind    `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var statusByKind = map[core.ErrorKind]int{
	core.KindValidation:          http.StatusBadRequest,
	core.KindWalletUnavailable:   http.StatusPreconditionFailed,
	core.KindUserRejected:        http.StatusConflict,
	core.KindTransactionReverted: http.StatusUnprocessableEntity,
	core.KindNotFound:            http.StatusNotFound,
	core.KindNotRegistered:       http.StatusForbidden,
	core.KindNetwork:             http.StatusBadGateway,
	core.KindDecode:              http.StatusInternalServerError,
}

func renderError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := core.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := errorBody{Kind: kind, Message: err.Error()}

	var v *core.ValidationError
	if errors.As(err, &v) {
		body.Fields = v.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("api", "kind", kind, "err", err)
	}

	renderJSON(w, status, map[string]any{"error": body})
}
