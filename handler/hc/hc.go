package hc

import (
	"encoding/json"
	"net/http"
	"time"
)

type Info struct {
	Version string
	Commit  string
	Network string
	ChainID int64
}

func Handler(info Info) http.Handler {
	t := time.Now()
	fn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"version":  info.Version,
			"commit":   info.Commit,
			"network":  info.Network,
			"chain_id": info.ChainID,
			"uptime":   time.Since(t).Truncate(time.Second).String(),
		})
	}

	return http.HandlerFunc(fn)
}
