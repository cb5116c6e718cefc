package query

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/app"
	"github/chapool/web3-hd/internal/util/command"
	"github/chapool/web3-hd/internal/wallet/balance"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/manager"
)

func New() []*cobra.Command {
	return []*cobra.Command{
		newBalance(),
		newBalances(),
		newTokenBalance(),
		newTokenBalances(),
		newTotalBalance(),
		newTotalBalances(),
	}
}

func newBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <index>",
		Short: "Prints the native balance of one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := command.ParseIndex(args[0])
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				b, err := a.Manager.Balance(ctx, c, index)
				if err != nil {
					return err
				}

				printNative(cmd.OutOrStdout(), c, b)
				return nil
			})
		},
	}
}

func newBalances() *cobra.Command {
	return &cobra.Command{
		Use:   "balances [from] [to]",
		Short: "Prints the native balances of an index range (default 0 to 10)",
		Args:  cobra.MaximumNArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := command.ParseRange(args)
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				balances, err := a.Manager.Balances(ctx, c, from, to)
				if err != nil {
					return err
				}

				for _, b := range balances {
					printNative(cmd.OutOrStdout(), c, b)
				}
				return nil
			})
		},
	}
}

func newTokenBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "token-balance <index>",
		Short: "Prints the balance of every configured token of one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := command.ParseIndex(args[0])
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				b, err := a.Manager.TokenBalances(ctx, c, index)
				if err != nil {
					return err
				}

				printTokens(cmd.OutOrStdout(), b)
				return nil
			})
		},
	}
}

func newTokenBalances() *cobra.Command {
	return &cobra.Command{
		Use:   "token-balances [from] [to]",
		Short: "Prints the token balances of an index range (default 0 to 10)",
		Args:  cobra.MaximumNArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := command.ParseRange(args)
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				balances, err := a.Manager.TokenBalancesRange(ctx, c, from, to)
				if err != nil {
					return err
				}

				for _, b := range balances {
					printTokens(cmd.OutOrStdout(), b)
				}
				return nil
			})
		},
	}
}

func newTotalBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "total-balance <index>",
		Short: "Prints the native and token holdings of one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := command.ParseIndex(args[0])
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				state, err := a.Manager.TotalBalance(ctx, c, index)
				if err != nil {
					return err
				}

				printState(cmd.OutOrStdout(), c, state)
				return nil
			})
		},
	}
}

func newTotalBalances() *cobra.Command {
	return &cobra.Command{
		Use:   "total-balances [from] [to]",
		Short: "Prints the native and token holdings of an index range (default 0 to 10)",
		Args:  cobra.MaximumNArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := command.ParseRange(args)
			if err != nil {
				return err
			}

			return command.Run(cmd, func(ctx context.Context, a *app.App, c chain.Chain) error {
				states, err := a.Manager.TotalBalances(ctx, c, from, to)
				if err != nil {
					return err
				}

				for _, state := range states {
					printState(cmd.OutOrStdout(), c, state)
				}
				return nil
			})
		},
	}
}

func printNative(w io.Writer, c chain.Chain, b manager.NativeBalance) {
	fmt.Fprintf(w, "%d\t%s\t%s %s\n", b.Index, b.Address, balance.FormatUnits(b.Amount, c.NativeDecimals()), c.NativeSymbol())
}

func printTokens(w io.Writer, b manager.TokenBalances) {
	if len(b.Tokens) == 0 {
		fmt.Fprintf(w, "%d\t%s\tno tokens configured\n", b.Index, b.Address)
		return
	}

	for _, t := range b.Tokens {
		fmt.Fprintf(w, "%d\t%s\t%s %s\n", b.Index, b.Address, t.Formatted(), t.Symbol)
	}
}

func printState(w io.Writer, c chain.Chain, s balance.WalletState) {
	fmt.Fprintf(w, "%d\t%s\t%s\n", s.Index, s.Address, s.State.Describe(c.NativeSymbol(), c.NativeDecimals()))
}
