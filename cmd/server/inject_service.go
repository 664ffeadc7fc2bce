package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/wire"
	"github.com/pandodao/rewardtribe/core"
	"github.com/pandodao/rewardtribe/dashboard"
	"github.com/pandodao/rewardtribe/service/token"
	"github.com/pandodao/rewardtribe/service/tribe"
	"github.com/pandodao/rewardtribe/service/wallet"
	"github.com/spf13/viper"
)

var serviceSet = wire.NewSet(
	provideNetwork,
	provideEthClient,
	wire.Bind(new(tribe.Backend), new(*ethclient.Client)),
	wire.Bind(new(ethereum.ContractCaller), new(*ethclient.Client)),
	provideWalletConfig,
	wallet.New,
	provideTribeConfig,
	tribe.New,
	wire.Bind(new(core.RewardService), new(*tribe.Service)),
	provideTokenConfig,
	token.New,
	wire.Bind(new(core.TokenService), new(*token.Service)),
	provideDashboardConfig,
	dashboard.NewOwner,
	dashboard.NewShopper,
	provideShopsConfig,
	dashboard.NewShops,
)

// network is one entry of the networks table, selected by the network key.
type network struct {
	Name        string
	RPCURL      string `mapstructure:"rpc_url"`
	ChainID     int64  `mapstructure:"chain_id"`
	Contract    string `mapstructure:"contract"`
	StableToken string `mapstructure:"stable_token"`
}

func provideNetwork(v *viper.Viper) (network, error) {
	name := v.GetString("network")

	var n network
	if err := v.UnmarshalKey("networks."+name, &n); err != nil {
		return n, err
	}

	if n.RPCURL == "" {
		return n, fmt.Errorf("network %q is not configured", name)
	}

	n.Name = name
	return n, nil
}

func provideEthClient(ctx context.Context, n network) (*ethclient.Client, func(), error) {
	client, err := ethclient.DialContext(ctx, n.RPCURL)
	if err != nil {
		return nil, nil, err
	}

	if n.ChainID > 0 {
		id, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, nil, err
		}

		if id.Int64() != n.ChainID {
			client.Close()
			return nil, nil, fmt.Errorf("network %s: rpc reports chain id %s, want %d", n.Name, id, n.ChainID)
		}
	}

	return client, client.Close, nil
}

func provideWalletConfig(v *viper.Viper) wallet.Config {
	v.SetDefault("wallet.kind", wallet.KindKeystore)
	v.SetDefault("wallet.dir", "keystore")

	return wallet.Config{
		Kind:       v.GetString("wallet.kind"),
		Dir:        v.GetString("wallet.dir"),
		Passphrase: v.GetString("wallet.passphrase"),
		Account:    v.GetString("wallet.account"),
		URL:        v.GetString("wallet.url"),
	}
}

func provideTribeConfig(v *viper.Viper, n network) tribe.Config {
	return tribe.Config{
		Contract:       n.Contract,
		ConfirmTimeout: v.GetDuration("gateway.confirm_timeout"),
		PollInterval:   v.GetDuration("gateway.poll_interval"),
	}
}

func provideTokenConfig(n network) token.Config {
	return token.Config{
		Address: n.StableToken,
	}
}

func provideDashboardConfig(v *viper.Viper) dashboard.Config {
	return dashboard.Config{
		NoticeCapacity: v.GetInt("dashboard.notice_capacity"),
	}
}

func provideShopsConfig(v *viper.Viper) dashboard.ShopsConfig {
	v.SetDefault("shops.pay_amount", "1")

	return dashboard.ShopsConfig{
		PayAmount:   v.GetString("shops.pay_amount"),
		Concurrency: v.GetInt("shops.concurrency"),
		CacheTTL:    v.GetDuration("shops.cache_ttl"),
	}
}
