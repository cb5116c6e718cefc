package seed

import (
	"crypto/sha512"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/web3-hd/internal/wallet/errs"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 2048 // BIP39 standard iterations
	pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)

	redacted = "seed([redacted])"
)

// Seed is the validated root of every key derived for one logical wallet.
// It keeps only the BIP39 seed bytes, never the phrase itself.
type Seed struct {
	seed  []byte
	words int
}

// New validates mnemonic (word list membership and checksum) and converts it to
// a seed using PBKDF2 (BIP39 standard):
// seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
func New(mnemonic string, passphrase string) (*Seed, error) {
	phrase := normalize(mnemonic)
	if err := Validate(phrase); err != nil {
		return nil, err
	}

	seed := pbkdf2.Key(
		[]byte(phrase),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)

	return &Seed{
		seed:  seed,
		words: len(strings.Fields(phrase)),
	}, nil
}

// Validate checks a mnemonic against the English word list and its checksum.
// The returned error never contains the phrase.
func Validate(mnemonic string) error {
	phrase := normalize(mnemonic)
	if phrase == "" {
		return errors.Wrap(errs.ErrInvalidMnemonic, "empty phrase")
	}

	if _, err := bip39.EntropyFromMnemonic(phrase); err != nil {
		switch {
		case errors.Is(err, bip39.ErrChecksumIncorrect):
			return errors.Wrap(errs.ErrInvalidMnemonic, "checksum incorrect")
		default:
			return errors.Wrapf(errs.ErrInvalidMnemonic, "%d words, unknown word or bad length", len(strings.Fields(phrase)))
		}
	}

	return nil
}

// Bytes returns a copy of the seed to prevent external modification.
func (s *Seed) Bytes() []byte {
	if s == nil || s.seed == nil {
		return nil
	}

	seedCopy := make([]byte, len(s.seed))
	copy(seedCopy, s.seed)
	return seedCopy
}

// Words returns the number of words of the phrase the seed was built from.
func (s *Seed) Words() int {
	return s.words
}

// Clear zeroes the seed. The Seed must not be used afterwards.
func (s *Seed) Clear() {
	for i := range s.seed {
		s.seed[i] = 0
	}
	s.seed = nil
}

func (s *Seed) String() string   { return redacted }
func (s *Seed) GoString() string { return redacted }

// MarshalText keeps the seed out of structured log output.
func (s *Seed) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

func normalize(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}
