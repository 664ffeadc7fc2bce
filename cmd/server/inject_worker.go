package main

import (
	"github.com/google/wire"
	"github.com/pandodao/rewardtribe/dashboard"
	"github.com/pandodao/rewardtribe/worker/cleaner"
	"github.com/pandodao/rewardtribe/worker/watcher"
	"github.com/spf13/viper"
)

var workerSet = wire.NewSet(
	provideWatcherConfig,
	provideDashboards,
	watcher.New,
	provideCleanerConfig,
	cleaner.New,
)

func provideWatcherConfig(v *viper.Viper) watcher.Config {
	return watcher.Config{
		Interval: v.GetDuration("watcher.interval"),
	}
}

func provideDashboards(owner *dashboard.Owner, shopper *dashboard.Shopper) []watcher.Dashboard {
	return []watcher.Dashboard{owner, shopper}
}

func provideCleanerConfig(v *viper.Viper) cleaner.Config {
	v.SetDefault("cleaner.retention", "720h")

	return cleaner.Config{
		Retention: v.GetDuration("cleaner.retention"),
		Interval:  v.GetDuration("cleaner.interval"),
	}
}
