package command

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/app"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/util"
	"github/chapool/web3-hd/internal/wallet"
)

// NewSubcommandGroup returns a command that only groups subcommands and prints
// its help when called on its own.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: name + " subcommands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// Setup configures the global logger from cfg and tags ctx with a run id.
func Setup(ctx context.Context, cfg config.Config) (context.Context, error) {
	if err := util.ConfigureLogger(os.Stderr, cfg.Logger.Level, cfg.Logger.PrettyPrintConsole); err != nil {
		return nil, err
	}

	ctx, runID := util.WithRunID(ctx)
	util.LogFromContext(ctx).Debug().Str("run_id", runID).Msg("Starting run")

	return ctx, nil
}

// WithManager opens the seed, assembles the App and runs f with it. Metrics are
// written after f returns, whether it failed or not.
func WithManager(ctx context.Context, cfg config.Config, f func(ctx context.Context, a *app.App) error) error {
	ctx, err := Setup(ctx, cfg)
	if err != nil {
		return err
	}

	s, err := wallet.OpenSeed(ctx, cfg.Wallet.Mnemonic, cfg.Wallet.Passphrase)
	if err != nil {
		return err
	}
	defer s.Clear()

	a, err := app.InitNewApp(cfg, s)
	if err != nil {
		return errors.Wrap(err, "failed to initialize app")
	}

	return withMetrics(ctx, a, f)
}

// WithApp runs f with an already assembled App.
func WithApp(ctx context.Context, a *app.App, f func(ctx context.Context, a *app.App) error) error {
	ctx, err := Setup(ctx, a.Config)
	if err != nil {
		return err
	}

	return withMetrics(ctx, a, f)
}

func withMetrics(ctx context.Context, a *app.App, f func(ctx context.Context, a *app.App) error) error {
	resultErr := f(ctx, a)

	if err := a.WriteMetrics(); err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to write metrics")
	}

	return resultErr
}
