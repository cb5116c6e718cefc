package derivation

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github/chapool/web3-hd/internal/wallet/errs"
)

const (
	minSeedLength    = 16
	maxSeedLength    = 64
	privateKeyLength = 32
)

// KeyPair is the extended key pair at the end of a derivation path.
// WARNING: Caller must Wipe the pair once the private key is no longer needed.
type KeyPair struct {
	PrivateKey []byte // 32 byte secp256k1 scalar
	PublicKey  []byte // 33 byte compressed point
	ChainCode  []byte
	Depth      uint8

	xpub string
}

// Derive creates the master key from seed (HMAC-SHA512, "Bitcoin seed") and
// derives the child keys along path.
func Derive(seed []byte, path Path) (*KeyPair, error) {
	if len(seed) < minSeedLength || len(seed) > maxSeedLength {
		return nil, errors.Wrapf(errs.ErrDerivation, "invalid seed length %d", len(seed))
	}

	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errs.Mark(errs.ErrDerivation, errors.Wrap(err, "failed to create master key"))
	}

	key := masterKey
	for depth, index := range path {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errs.Mark(errs.ErrDerivation, errors.Wrapf(err, "failed to derive child key at depth %d", depth+1))
		}
	}

	public := key.PublicKey()

	return &KeyPair{
		PrivateKey: common.LeftPadBytes(key.Key, privateKeyLength),
		PublicKey:  public.Key,
		ChainCode:  append([]byte(nil), key.ChainCode...),
		Depth:      key.Depth,
		xpub:       public.String(),
	}, nil
}

// PrivateHex returns the private key as 64 lowercase hex characters.
func (k *KeyPair) PrivateHex() string {
	return hex.EncodeToString(k.PrivateKey)
}

// ExtendedPublicKey returns the Base58 serialized extended public key (xpub...).
func (k *KeyPair) ExtendedPublicKey() string {
	return k.xpub
}

// Wipe zeroes the private half of the pair.
func (k *KeyPair) Wipe() {
	if k == nil {
		return
	}
	for i := range k.PrivateKey {
		k.PrivateKey[i] = 0
	}
	k.PrivateKey = nil
}
