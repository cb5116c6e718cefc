package wallet

import (
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/address"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/seed"
)

// Handle binds a seed to a chain and with it to a derivation rule and an
// address encoder. It is immutable; every key is derived fresh per call.
type Handle struct {
	chain  chain.Chain
	family chain.Family
	seed   *seed.Seed
}

func NewHandle(c chain.Chain, s *seed.Seed) (Handle, error) {
	if !c.Valid() {
		return Handle{}, errs.For("handle", c, errs.ErrMissingChainSelection)
	}
	if s == nil {
		return Handle{}, errs.For("handle", c, errors.Wrap(errs.ErrValidation, "seed is required"))
	}

	return Handle{chain: c, family: c.Family(), seed: s}, nil
}

func (h Handle) Chain() chain.Chain { return h.chain }

// derive returns the key pair at index. Caller must Wipe it.
func (h Handle) derive(index int) (*derivation.KeyPair, derivation.Path, error) {
	path, err := derivation.BuildPath(h.chain, index)
	if err != nil {
		return nil, nil, err
	}

	seedBytes := h.seed.Bytes()
	defer wipe(seedBytes)

	kp, err := derivation.Derive(seedBytes, path)
	if err != nil {
		return nil, nil, err
	}

	return kp, path, nil
}

func (h Handle) Address(index int) (address.Address, error) {
	kp, _, err := h.derive(index)
	if err != nil {
		return address.Address{}, errs.At("address", h.chain, index, err)
	}
	defer kp.Wipe()

	a, err := address.FromPublicKey(h.family, kp.PublicKey)
	if err != nil {
		return address.Address{}, errs.At("address", h.chain, index, err)
	}

	return a, nil
}

func (h Handle) PublicKey(index int) (string, error) {
	kp, _, err := h.derive(index)
	if err != nil {
		return "", errs.At("public key", h.chain, index, err)
	}
	defer kp.Wipe()

	return kp.ExtendedPublicKey(), nil
}

func (h Handle) PrivateKey(index int) (string, error) {
	kp, _, err := h.derive(index)
	if err != nil {
		return "", errs.At("private key", h.chain, index, err)
	}
	defer kp.Wipe()

	return kp.PrivateHex(), nil
}

func (h Handle) Keypair(index int) (string, string, error) {
	kp, _, err := h.derive(index)
	if err != nil {
		return "", "", errs.At("keypair", h.chain, index, err)
	}
	defer kp.Wipe()

	return kp.PrivateHex(), kp.ExtendedPublicKey(), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
