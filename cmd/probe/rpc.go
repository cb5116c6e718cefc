package probe

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/app"
	"github/chapool/web3-hd/internal/util"
	"github/chapool/web3-hd/internal/util/command"
	"github/chapool/web3-hd/internal/wallet/balance"
	"github/chapool/web3-hd/internal/wallet/chain"
)

const gweiDecimals = 9

func newRPC() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpc",
		Short: "Checks that the configured RPC endpoints answer",
		Long: `Checks that the configured RPC endpoints answer.

Every chain with a provider is checked unless --chain is given.
Exits non zero when any chain is unreachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err
			}

			chains := chain.All()
			if name, _ := cmd.Flags().GetString(command.FlagChain); name != "" {
				c, err := command.SelectedChain(cmd)
				if err != nil {
					return err
				}
				chains = []chain.Chain{c}
			}

			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			// nodes are checked without opening the seed
			a, err := app.InitNewApp(cfg, nil)
			if err != nil {
				return errors.Wrap(err, "failed to initialize app")
			}

			return command.WithApp(cmd.Context(), a, func(ctx context.Context, a *app.App) error {
				return checkChains(ctx, cmd.OutOrStdout(), a, chains, verbose)
			})
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "also print the base fee")

	return cmd
}

func checkChains(ctx context.Context, w io.Writer, a *app.App, chains []chain.Chain, verbose bool) error {
	failed := 0
	checked := 0

	for _, c := range chains {
		if len(a.Config.Wallet.Chain(c).RPCURLs) == 0 {
			continue
		}
		checked++

		line, err := checkChain(ctx, a, c, verbose)
		if err != nil {
			failed++
			util.LogFromContext(ctx).Error().Err(err).Str("chain", c.String()).Msg("Chain is unreachable")
			fmt.Fprintf(w, "%s\tunreachable\n", c)
			continue
		}

		fmt.Fprintf(w, "%s\tok\t%s\n", c, line)
	}

	if checked == 0 {
		return errors.New("no provider configured")
	}
	if failed > 0 {
		return errors.Errorf("%d of %d chains unreachable", failed, checked)
	}

	return nil
}

func checkChain(ctx context.Context, a *app.App, c chain.Chain, verbose bool) (string, error) {
	p, err := a.Manager.Dial(ctx, c)
	if err != nil {
		return "", err
	}
	defer p.Close()

	id, err := p.ChainID(ctx)
	if err != nil {
		return "", err
	}

	line := "chain id " + id.String()
	if !verbose {
		return line, nil
	}

	baseFee, err := p.BaseFee(ctx)
	if err != nil {
		return "", err
	}

	return line + "\tbase fee " + balance.FormatUnits(baseFee, gweiDecimals) + " gwei", nil
}
