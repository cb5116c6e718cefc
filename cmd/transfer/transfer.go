package transfer

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/app"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/util/command"
	"github/chapool/web3-hd/internal/wallet/balance"
	"github/chapool/web3-hd/internal/wallet/chain"
)

const (
	tokensFlag = "tokens"
)

func New() []*cobra.Command {
	return []*cobra.Command{
		newSend(),
		newSendToken(),
		newSweep(),
	}
}

func newSend() *cobra.Command {
	return &cobra.Command{
		Use:   "send <from-index> <to-address> <amount>",
		Short: "Sends native currency, amount in whole units (e.g. 0.5)",
		Args:  cobra.ExactArgs(3), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := command.ParseIndex(args[0])
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				amount, err := balance.ParseUnits(args[2], c.NativeDecimals())
				if err != nil {
					return err
				}

				receipt, err := a.Manager.Transfer(ctx, c, index, args[1], amount)
				printReceipt(cmd.OutOrStdout(), receipt)
				return err
			})
		},
	}
}

func newSendToken() *cobra.Command {
	return &cobra.Command{
		Use:   "send-token <from-index> <token> <to-address> <amount>",
		Short: "Sends a token given by configured symbol or address, amount in whole units",
		Args:  cobra.ExactArgs(4), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := command.ParseIndex(args[0])
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				token, ok := a.Manager.LookupToken(c, args[1])
				if !ok {
					token = config.Token{Address: args[1], Decimals: config.DefaultTokenDecimals}
				}

				amount, err := balance.ParseUnits(args[3], token.Decimals)
				if err != nil {
					return err
				}

				receipt, err := a.Manager.TransferToken(ctx, c, index, token.Address, args[2], amount)
				printReceipt(cmd.OutOrStdout(), receipt)
				return err
			})
		},
	}
}

func newSweep() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep <index> [to-address]",
		Short: "Moves the whole balance of an account, to the configured safe address by default",
		Args:  cobra.RangeArgs(1, 2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := command.ParseIndex(args[0])
			if err != nil {
				return err
			}

			to := ""
			if len(args) > 1 {
				to = args[1]
			}

			withTokens, err := cmd.Flags().GetBool(tokensFlag)
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				out := cmd.OutOrStdout()

				// tokens go first, their fees are paid from the native balance
				if withTokens {
					sweeps, err := a.Manager.SweepTokens(ctx, c, index, to)
					for _, s := range sweeps {
						fmt.Fprintf(out, "swept %s %s\n", s.Token.Formatted(), s.Token.Symbol)
						printReceipt(out, s.Receipt)
					}
					if err != nil {
						return err
					}
				}

				tx, amount, err := a.Manager.Sweep(ctx, c, index, to)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "swept %s %s\n", balance.FormatUnits(amount, c.NativeDecimals()), c.NativeSymbol())
				fmt.Fprintf(out, "tx %s\n", tx.Hash().Hex())
				return nil
			})
		},
	}

	cmd.Flags().Bool(tokensFlag, false, "sweep every configured token before the native balance")

	return cmd
}

func printReceipt(w io.Writer, receipt *types.Receipt) {
	if receipt == nil {
		return
	}

	status := "success"
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = "failed"
	}

	fmt.Fprintf(w, "tx %s %s block %s gas %d\n", receipt.TxHash.Hex(), status, receipt.BlockNumber, receipt.GasUsed)
}
