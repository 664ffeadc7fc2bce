package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/wire"
	"github.com/pandodao/rewardtribe/handler/api"
	"github.com/pandodao/rewardtribe/handler/hc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

var serverSet = wire.NewSet(
	provideAPIConfig,
	api.New,
	provideServer,
)

func provideAPIConfig(v *viper.Viper) api.Config {
	return api.Config{
		ActivityLimit: v.GetInt("api.activity_limit"),
	}
}

func provideServer(apiHandler *api.Server, n network) *http.Server {
	m := chi.NewMux()
	m.Use(middleware.RealIP)
	m.Use(middleware.Logger)
	m.Use(middleware.Recoverer)
	m.Use(cors.AllowAll().Handler)

	m.Mount("/api", apiHandler.Handler())
	m.Mount("/hc", hc.Handler(hc.Info{
		Version: version,
		Commit:  commit,
		Network: n.Name,
		ChainID: n.ChainID,
	}))
	m.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", opt.port),
		Handler: m,
	}
}
