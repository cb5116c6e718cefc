package wallet

import (
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/address"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/seed"
)

// VerificationAddressIndex is the Ethereum account index compared against a
// configured verification address.
const VerificationAddressIndex = 0

// VerifyAddress derives the Ethereum address at VerificationAddressIndex and
// compares it with expected. A mistyped passphrase still yields a valid seed;
// this catches it before any balance is looked up. An empty expected address is
// accepted.
func VerifyAddress(s *seed.Seed, expected string) error {
	if expected == "" {
		return nil
	}

	want, err := address.ParseEVM(expected)
	if err != nil {
		return errs.For("verify", chain.Ethereum, errors.Wrap(err, "invalid verification address"))
	}

	h, err := NewHandle(chain.Ethereum, s)
	if err != nil {
		return err
	}

	derived, err := h.Address(VerificationAddressIndex)
	if err != nil {
		return err
	}

	if derived.Account() != want.Account() {
		return errs.At("verify", chain.Ethereum, VerificationAddressIndex, errors.Wrapf(errs.ErrInvalidMnemonic,
			"derived address %s does not match verification address %s", derived, want))
	}

	return nil
}
