package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/web3-hd/cmd/env"
	"github/chapool/web3-hd/cmd/keys"
	"github/chapool/web3-hd/cmd/probe"
	"github/chapool/web3-hd/cmd/query"
	"github/chapool/web3-hd/cmd/transfer"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/util/command"
)

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: config.GetFormattedBuildArgs(),
		Use:     "web3-hd",
		Short:   config.ModuleName,
		Long: fmt.Sprintf(`%v

A multi-chain HD wallet for Ethereum, Polygon, BSC and Tron.
Accounts are derived from the mnemonic in hd_phrase (BIP-32/BIP-44).
Configuration is read from config.toml, .env and APP_ prefixed variables.`, config.ModuleName),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	command.AddPersistentFlags(rootCmd)

	// attach the subcommands
	rootCmd.AddCommand(query.New()...)
	rootCmd.AddCommand(keys.New()...)
	rootCmd.AddCommand(transfer.New()...)
	rootCmd.AddCommand(
		env.New(),
		probe.New(),
	)

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := New().Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
