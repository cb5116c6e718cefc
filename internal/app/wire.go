//go:build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/wallet/provider"
	"github/chapool/web3-hd/internal/wallet/seed"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// appSet groups the providers every App needs.
var appSet = wire.NewSet(
	newApp,
	NewRegistry,
	NewManager,
)

var rpcSet = wire.NewSet(
	provider.NewMetrics,
	NewDialer,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	wire.Bind(new(provider.Dialer), new(*provider.RPCDialer)),
)

// InitNewApp returns a new App talking to the configured JSON-RPC nodes.
func InitNewApp(
	_ config.Config,
	_ *seed.Seed,
) (*App, error) {
	wire.Build(appSet, rpcSet)
	return new(App), nil
}

// InitNewAppWithDialer returns a new App using the given Dialer.
func InitNewAppWithDialer(
	_ config.Config,
	_ *seed.Seed,
	_ provider.Dialer,
) (*App, error) {
	wire.Build(appSet)
	return new(App), nil
}
