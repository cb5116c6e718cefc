// Package app assembles the wallet manager and its collaborators from the
// configuration.
package app

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/wallet/manager"
	"github/chapool/web3-hd/internal/wallet/provider"
	"github/chapool/web3-hd/internal/wallet/seed"
)

type App struct {
	Config   config.Config
	Manager  *manager.Manager
	Registry *prometheus.Registry
}

func newApp(cfg config.Config, m *manager.Manager, reg *prometheus.Registry) *App {
	return &App{
		Config:   cfg,
		Manager:  m,
		Registry: reg,
	}
}

// NewRegistry returns a registry private to this run.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func NewDialer(metrics *provider.Metrics) *provider.RPCDialer {
	return provider.NewRPCDialer(metrics)
}

// NewManager uses s when given, the configured mnemonic otherwise.
func NewManager(cfg config.Config, dialer provider.Dialer, s *seed.Seed) *manager.Manager {
	opts := []manager.Option{manager.WithConcurrency(cfg.Wallet.Concurrency)}
	if s != nil {
		opts = append(opts, manager.WithSeed(s))
	}

	return manager.New(cfg.Wallet, dialer, opts...)
}

// WriteMetrics writes the collected metrics in the node exporter textfile format
// when a metrics file is configured.
func (a *App) WriteMetrics() error {
	if a.Config.MetricsFile == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(a.Config.MetricsFile, a.Registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", a.Config.MetricsFile)
	}

	return nil
}
