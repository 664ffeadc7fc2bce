package main

import (
	"github.com/google/wire"
	"github.com/pandodao/rewardtribe/store/activity"
	"github.com/pandodao/rewardtribe/store/db"
	"github.com/spf13/viper"
	"github.com/tsenart/nap"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var storeSet = wire.NewSet(
	provideDB,
	provideActivityConfig,
	activity.New,
)

func provideDB(v *viper.Viper) (*nap.DB, func(), error) {
	v.SetDefault("db.driver", db.DriverSQLite)
	v.SetDefault("db.dsn", ":memory:")

	driver := v.GetString("db.driver")
	dsn := v.GetString("db.dsn")

	for _, replica := range v.GetStringSlice("db.replicas") {
		dsn += ";" + replica
	}

	conn, err := nap.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	// every sqlite connection to :memory: opens a fresh database
	if driver == db.DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := db.Migrate(conn.Master(), driver); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, func() { _ = conn.Close() }, nil
}

func provideActivityConfig(v *viper.Viper) activity.Config {
	return activity.Config{
		Driver: v.GetString("db.driver"),
	}
}
