package wallet

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/util"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/seed"
	"golang.org/x/term"
)

// OpenSeed validates the configured mnemonic. When none is configured and stdin
// is a terminal the mnemonic and passphrase are read with echo disabled.
func OpenSeed(ctx context.Context, mnemonic string, passphrase string) (*seed.Seed, error) {
	log := util.LogFromContext(ctx).With().Str("component", "wallet_init").Logger()

	//nolint:gosec // file descriptors fit into int
	stdin := int(os.Stdin.Fd())

	if strings.TrimSpace(mnemonic) == "" {
		if !term.IsTerminal(stdin) {
			return nil, errors.Wrap(errs.ErrInvalidMnemonic, "hd_phrase is not configured")
		}

		log.Info().Msg("No mnemonic configured, reading it from the terminal")

		var err error
		mnemonic, err = promptSecret(stdin, "Enter mnemonic: ")
		if err != nil {
			return nil, err
		}

		passphrase, err = promptSecret(stdin, "Enter passphrase (empty for none): ")
		if err != nil {
			return nil, err
		}
	}

	s, err := seed.New(mnemonic, passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize seed")
	}

	log.Debug().Int("words", s.Words()).Msg("Seed initialized")

	return s, nil
}

// promptSecret prompts for input without echoing it.
//
//nolint:forbidigo // Secret input requires direct terminal I/O
func promptSecret(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	secret, err := term.ReadPassword(fd)
	if err != nil {
		return "", errors.Wrap(err, "failed to read from terminal")
	}

	fmt.Fprintln(os.Stderr)

	return string(secret), nil
}
