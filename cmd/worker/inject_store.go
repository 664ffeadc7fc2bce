package main

import (
	"fmt"
	"strings"

	"github.com/google/wire"
	"github.com/pandodao/rewardtribe/service/wallet"
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
	provideKeystore,
)

func provideDB(v *viper.Viper) (*nap.DB, func(), error) {
	v.SetDefault("db.driver", db.DriverSQLite)
	v.SetDefault("db.dsn", ":memory:")

	driver := v.GetString("db.driver")
	dsn := v.GetString("db.dsn")
	if driver == db.DriverSQLite && inMemory(dsn) {
		return nil, nil, fmt.Errorf("journal commands need a shared db.dsn, %q is private to this process", dsn)
	}

	conn, err := nap.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	if driver == db.DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := db.Migrate(conn.Master(), driver); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, func() { _ = conn.Close() }, nil
}

// inMemory reports whether a sqlite dsn names a database that lives only in
// the opening process.
func inMemory(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func provideActivityConfig(v *viper.Viper) activity.Config {
	return activity.Config{
		Driver: v.GetString("db.driver"),
	}
}

func provideKeystore(v *viper.Viper) *wallet.Keystore {
	v.SetDefault("wallet.dir", "keystore")

	return wallet.NewKeystore(wallet.KeystoreConfig{
		Dir:     v.GetString("wallet.dir"),
		Account: v.GetString("wallet.account"),
	})
}
