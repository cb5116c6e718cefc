// Package address encodes secp256k1 public keys into chain specific addresses
// and validates addresses supplied by users.
package address

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
)

const (
	compressedPubKeyLength   = 33
	uncompressedPubKeyLength = 65
	accountHashLength        = common.AddressLength
)

// Address is a chain family tagged address. The zero value is invalid.
type Address struct {
	family chain.Family
	text   string
	hash   common.Address
}

// String returns the canonical textual form (EIP-55 hex or Base58Check).
func (a Address) String() string { return a.text }

func (a Address) Family() chain.Family { return a.family }

// Account returns the 20 byte account hash, the form JSON-RPC nodes of both
// families expect on the wire.
func (a Address) Account() common.Address { return a.hash }

// IsZero reports whether a was never set.
func (a Address) IsZero() bool { return a.family == chain.FamilyUnknown }

// FromPublicKey dispatches to the encoder of family.
func FromPublicKey(family chain.Family, pub []byte) (Address, error) {
	switch family {
	case chain.FamilyEVM:
		return EVMFromPublicKey(pub)
	case chain.FamilyTron:
		return TronFromPublicKey(pub)
	case chain.FamilyUnknown:
	}
	return Address{}, errs.ErrMissingChainSelection
}

// Parse validates text as an address of family.
func Parse(family chain.Family, text string) (Address, error) {
	switch family {
	case chain.FamilyEVM:
		return ParseEVM(text)
	case chain.FamilyTron:
		return ParseTron(text)
	case chain.FamilyUnknown:
	}
	return Address{}, errs.ErrMissingChainSelection
}

// Normalize converts a user supplied address of family into the 20 byte account
// form used by the provider.
func Normalize(family chain.Family, text string) (common.Address, error) {
	a, err := Parse(family, text)
	if err != nil {
		return common.Address{}, err
	}
	return a.Account(), nil
}

// accountHash parses pub as a secp256k1 point and returns the last 20 bytes of
// Keccak-256 over the uncompressed key without its 0x04 prefix.
func accountHash(pub []byte) (common.Address, error) {
	var (
		key *ecdsa.PublicKey
		err error
	)

	switch len(pub) {
	case compressedPubKeyLength:
		key, err = crypto.DecompressPubkey(pub)
	case uncompressedPubKeyLength:
		key, err = crypto.UnmarshalPubkey(pub)
	default:
		return common.Address{}, errors.Wrapf(errs.ErrInvalidPublicKey, "unexpected length %d", len(pub))
	}
	if err != nil {
		return common.Address{}, errs.Mark(errs.ErrInvalidPublicKey, err)
	}

	uncompressed := crypto.FromECDSAPub(key)
	hash := crypto.Keccak256(uncompressed[1:])

	return common.BytesToAddress(hash[len(hash)-accountHashLength:]), nil
}
