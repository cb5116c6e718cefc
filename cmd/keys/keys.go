package keys

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/app"
	"github/chapool/web3-hd/internal/util/command"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/seed"
)

const (
	wordsFlag = "words"
)

func New() []*cobra.Command {
	return []*cobra.Command{
		newAddress(),
		newPublicKey(),
		newPrivateKey(),
		newKeypair(),
		newGenPhrase(),
	}
}

// newIndexCommand builds a command printing one line derived from the key at
// <index>. Nothing is sent to a node.
func newIndexCommand(use string, short string, f func(a *app.App, c chain.Chain, index int) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <index>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := command.ParseIndex(args[0])
			if err != nil {
				return err
			}

			return command.Run(cmd, func(_ context.Context, a *app.App, c chain.Chain) error {
				out, err := f(a, c, index)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func newAddress() *cobra.Command {
	return newIndexCommand("address", "Prints the address of an account",
		func(a *app.App, c chain.Chain, index int) (string, error) {
			addr, err := a.Manager.Address(c, index)
			if err != nil {
				return "", err
			}
			return addr.String(), nil
		})
}

func newPublicKey() *cobra.Command {
	return newIndexCommand("pubkey", "Prints the extended public key of an account",
		func(a *app.App, c chain.Chain, index int) (string, error) {
			return a.Manager.PublicKey(c, index)
		})
}

func newPrivateKey() *cobra.Command {
	return newIndexCommand("privkey", "Prints the private key of an account",
		func(a *app.App, c chain.Chain, index int) (string, error) {
			return a.Manager.PrivateKey(c, index)
		})
}

func newKeypair() *cobra.Command {
	return newIndexCommand("keypair", "Prints the private key and the extended public key of an account",
		func(a *app.App, c chain.Chain, index int) (string, error) {
			private, public, err := a.Manager.Keypair(c, index)
			if err != nil {
				return "", err
			}
			return private + "\n" + public, nil
		})
}

func newGenPhrase() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-phrase",
		Short: "Generates a new mnemonic phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			words, err := cmd.Flags().GetInt(wordsFlag)
			if err != nil {
				return err
			}

			mnemonic, err := seed.GenerateMnemonic(words)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), mnemonic)
			return nil
		},
	}

	cmd.Flags().Int(wordsFlag, seed.DefaultWords, "number of words (12, 15, 18, 21 or 24)")

	return cmd
}
