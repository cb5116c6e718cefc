package address

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
)

const evmAddressLength = 2 + 2*common.AddressLength

// EVMFromPublicKey encodes pub as an EIP-55 checksummed 0x address.
func EVMFromPublicKey(pub []byte) (Address, error) {
	hash, err := accountHash(pub)
	if err != nil {
		return Address{}, err
	}

	return evmFromAccount(hash)
}

func evmFromAccount(hash common.Address) (Address, error) {
	text := "0x" + ChecksumHex(hex.EncodeToString(hash.Bytes()))
	if len(text) != evmAddressLength {
		return Address{}, errors.Wrapf(errs.ErrEncoding, "encoded address has %d chars", len(text))
	}

	return Address{family: chain.FamilyEVM, text: text, hash: hash}, nil
}

// ParseEVM validates a 0x prefixed 40 hex digit address. All lowercase or all
// uppercase input is accepted and re-checksummed; mixed case input must carry a
// valid EIP-55 checksum.
func ParseEVM(text string) (Address, error) {
	if len(text) != evmAddressLength {
		return Address{}, errors.Wrapf(errs.ErrInvalidAddress, "EVM address is %d chars instead of %d", len(text), evmAddressLength)
	}
	if !strings.HasPrefix(text, "0x") {
		return Address{}, errors.Wrap(errs.ErrInvalidAddress, "EVM address must start with 0x")
	}

	digits := text[2:]
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return Address{}, errors.Wrap(errs.ErrInvalidAddress, "EVM address is not hex")
	}

	lower, upper := strings.ToLower(digits), strings.ToUpper(digits)
	if digits != lower && digits != upper && ChecksumHex(lower) != digits {
		return Address{}, errors.Wrapf(errs.ErrChecksum, "EIP-55 checksum of %s", text)
	}

	return evmFromAccount(common.BytesToAddress(raw))
}

// ChecksumHex applies EIP-55 mixed case to a 40 char hex address without 0x:
// each letter is uppercased when the matching nibble of Keccak-256 over the
// lowercase address is >= 8.
func ChecksumHex(address string) string {
	address = strings.ToLower(address)
	hash := crypto.Keccak256([]byte(address))

	var sb strings.Builder
	sb.Grow(len(address))
	for i := 0; i < len(address); i++ {
		char := address[i]

		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		nibble &= 0x0f

		if char >= 'a' && char <= 'f' && nibble >= 8 {
			char -= 'a' - 'A'
		}
		sb.WriteByte(char)
	}
	return sb.String()
}
