package main

import (
	"github.com/google/wire"
	"github.com/pandodao/rewardtribe/worker/cleaner"
	"github.com/spf13/viper"
)

var workerSet = wire.NewSet(
	provideCleanerConfig,
	cleaner.New,
)

func provideCleanerConfig(v *viper.Viper) cleaner.Config {
	v.SetDefault("cleaner.retention", "720h")

	return cleaner.Config{
		Retention: v.GetDuration("cleaner.retention"),
		Interval:  v.GetDuration("cleaner.interval"),
	}
}
