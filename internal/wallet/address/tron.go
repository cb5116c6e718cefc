package address

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
)

const (
	// TronVersion is the address version byte of Tron main net.
	TronVersion byte = 0x41

	tronChecksumLength = 4
	tronDecodedLength  = 1 + accountHashLength + tronChecksumLength
	tronTextLength     = 34
)

// TronFromPublicKey encodes pub as a Base58Check Tron address:
// base58(0x41 || hash20 || sha256(sha256(0x41 || hash20))[:4]).
func TronFromPublicKey(pub []byte) (Address, error) {
	hash, err := accountHash(pub)
	if err != nil {
		return Address{}, err
	}

	return tronFromAccount(hash)
}

func tronFromAccount(hash common.Address) (Address, error) {
	text := base58.CheckEncode(hash.Bytes(), TronVersion)

	// guard against encoder misuse, the result must decode to the same payload
	decoded, version, err := base58.CheckDecode(text)
	if err != nil || version != TronVersion || !bytes.Equal(decoded, hash.Bytes()) {
		return Address{}, errors.Wrap(errs.ErrEncoding, "Tron address does not round trip")
	}

	return Address{family: chain.FamilyTron, text: text, hash: hash}, nil
}

// ParseTron validates a Base58Check Tron address: 25 decoded bytes, version
// byte 0x41 and a matching double SHA-256 checksum. Well formed Base58 text of
// address length that decodes to another size is a checksum failure.
func ParseTron(text string) (Address, error) {
	if n := len(base58.Decode(text)); n != tronDecodedLength {
		if n > 0 && len(text) == tronTextLength {
			return Address{}, errors.Wrapf(errs.ErrChecksum, "Base58Check payload of %s is %d bytes", text, n)
		}
		return Address{}, errors.Wrapf(errs.ErrInvalidAddress, "Tron address decodes to %d bytes instead of %d", n, tronDecodedLength)
	}

	payload, version, err := base58.CheckDecode(text)
	switch {
	case errors.Is(err, base58.ErrChecksum):
		return Address{}, errors.Wrapf(errs.ErrChecksum, "Base58Check checksum of %s", text)
	case err != nil:
		return Address{}, errors.Wrap(errs.ErrInvalidAddress, err.Error())
	}
	if version != TronVersion {
		return Address{}, errors.Wrapf(errs.ErrInvalidAddress, "Tron address version 0x%02x", version)
	}

	return Address{family: chain.FamilyTron, text: text, hash: common.BytesToAddress(payload)}, nil
}

// TronHex returns the 21 byte hex form (41 prefix) used by Tron's HTTP APIs.
func TronHex(a Address) string {
	return hex.EncodeToString(append([]byte{TronVersion}, a.hash.Bytes()...))
}
