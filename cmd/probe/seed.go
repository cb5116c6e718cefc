package probe

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/app"
	"github/chapool/web3-hd/internal/util/command"
	"github/chapool/web3-hd/internal/wallet"
	"github/chapool/web3-hd/internal/wallet/chain"
)

func newSeed() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Checks the mnemonic and the verification address without touching the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return command.WithManager(cmd.Context(), cfg, func(_ context.Context, a *app.App) error {
				addr, err := a.Manager.Address(chain.Ethereum, wallet.VerificationAddressIndex)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\n", addr)
				return nil
			})
		},
	}
}
