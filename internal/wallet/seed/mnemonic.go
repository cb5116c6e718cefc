package seed

import (
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/web3-hd/internal/wallet/errs"
)

// DefaultWords is the phrase length produced by GenerateMnemonic when no
// length is requested.
const DefaultWords = 12

// GenerateMnemonic creates a new random English BIP39 phrase with the given
// number of words (12, 15, 18, 21 or 24).
func GenerateMnemonic(words int) (string, error) {
	if words == 0 {
		words = DefaultWords
	}

	if words%3 != 0 || words < 12 || words > 24 {
		return "", errors.Wrapf(errs.ErrValidation, "unsupported mnemonic length %d", words)
	}
	// every 3 words encode 32 bits of entropy plus 1 checksum bit
	bitSize := words / 3 * 32

	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate mnemonic")
	}

	return mnemonic, nil
}
