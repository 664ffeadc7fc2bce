package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/carlmjohnson/versioninfo"
	"github.com/pandodao/rewardtribe/worker/cleaner"
	"github.com/pandodao/rewardtribe/worker/watcher"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	opt struct {
		config string
		port   int
		debug  bool
	}

	version = "0.0.1-src"
	commit  = versioninfo.Short()
)

func main() {
	flag.StringVar(&opt.config, "config", "config.yaml", "config file path")
	flag.IntVar(&opt.port, "port", 8080, "server port")
	flag.BoolVar(&opt.debug, "debug", false, "debug mode")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	v := initViper()
	logger := initLogger(v)

	app, cleanup, err := setupApp(ctx, v, logger)
	if err != nil {
		logger.Error("setup failed", "err", err)
		return
	}

	defer cleanup()

	logger.Info("reward tribe server launched",
		"version", version,
		"commit", commit,
		"network", v.GetString("network"),
		"addr", app.svr.Addr,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.svr.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return app.svr.Shutdown(context.Background())
	})

	g.Go(func() error {
		return app.watcher.Run(ctx)
	})

	g.Go(func() error {
		return app.cleaner.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exit", "err", err)
	}
}

type app struct {
	svr     *http.Server
	watcher *watcher.Watcher
	cleaner *cleaner.Cleaner
	logger  *slog.Logger
}

func initLogger(v *viper.Viper) *slog.Logger {
	level := slog.LevelInfo
	if opt.debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if file := v.GetString("log.file"); file != "" {
		w = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    v.GetInt("log.max_size"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAge:     v.GetInt("log.max_age"),
			Compress:   true,
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func initViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(opt.config)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("network", "testnet")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	if err := v.ReadInConfig(); err != nil {
		log.Panicln(err)
	}

	return v
}
