package command

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/app"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
)

const (
	FlagChain       = "chain"
	FlagConfig      = "config"
	FlagEnvFile     = "env-file"
	FlagConcurrency = "concurrency"
	FlagMetricsFile = "metrics-file"
)

// Range defaults of the commands taking [from] [to].
const (
	DefaultRangeFrom = 0
	DefaultRangeTo   = 10
)

// AddPersistentFlags registers the flags shared by every command on root.
func AddPersistentFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringP(FlagChain, "c", "", "chain to operate on (eth|polygon|bsc|tron)")
	f.String(FlagConfig, "", "config file (default ./config.toml)")
	f.String(FlagEnvFile, config.DefaultEnvFile, "env file loaded into the environment")
	f.Int(FlagConcurrency, 0, "number of indices queried at once")
	f.String(FlagMetricsFile, "", "write RPC metrics in the textfile exporter format")
}

// LoadConfig reads the configuration, with flags taking precedence over the
// file and the environment.
func LoadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	configFile, _ := flags.GetString(FlagConfig)
	envFile, _ := flags.GetString(FlagEnvFile)

	v, err := config.NewViper(configFile, envFile)
	if err != nil {
		return config.Config{}, err
	}

	bindings := map[string]string{
		config.KeyConcurrency: FlagConcurrency,
		config.KeyMetricsFile: FlagMetricsFile,
	}
	for key, name := range bindings {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			if err := v.BindPFlag(key, flag); err != nil {
				return config.Config{}, errors.Wrapf(err, "failed to bind flag %s", name)
			}
		}
	}

	return config.Load(v)
}

// SelectedChain returns the chain given with --chain.
func SelectedChain(cmd *cobra.Command) (chain.Chain, error) {
	name, _ := cmd.Flags().GetString(FlagChain)

	c, err := chain.Parse(name)
	if err != nil {
		return chain.None, errors.Wrap(err, "select a chain with --chain")
	}

	return c, nil
}

// Run loads the configuration, resolves --chain and runs f with the assembled
// App.
func Run(cmd *cobra.Command, f func(ctx context.Context, a *app.App, c chain.Chain) error) error {
	c, err := SelectedChain(cmd)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cmd)
	if err != nil {
		return err
	}

	return WithManager(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
		return f(ctx, a, c)
	})
}

// ParseIndex parses an account index argument.
func ParseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Wrapf(errs.ErrInvalidIndex, "%q is not a number", arg)
	}

	return index, nil
}

// ParseRange parses the optional [from] [to] arguments.
func ParseRange(args []string) (int, int, error) {
	from, to := DefaultRangeFrom, DefaultRangeTo

	var err error
	if len(args) > 0 {
		if from, err = ParseIndex(args[0]); err != nil {
			return 0, 0, err
		}
	}
	if len(args) > 1 {
		if to, err = ParseIndex(args[1]); err != nil {
			return 0, 0, err
		}
	}

	return from, to, nil
}
