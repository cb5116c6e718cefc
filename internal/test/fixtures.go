// Package test holds fixtures and fakes shared by the package tests.
package test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/web3-hd/internal/wallet/seed"
)

// Mnemonic is the well known BIP-39 test phrase. Never fund its addresses.
const Mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// Known vectors for Mnemonic with an empty passphrase.
const (
	SeedHex = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

	EthAddress0    = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	EthPrivateKey0 = "1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727"
	EthXPub0       = "xpub6H6LG2We64bdwqNF7gNkUJ5EvDibiT2gbs77oonbawV86XE3eMxZf9czGQ9CPdSzsdsHLnLEjiJJEDnFMAyLrWATesaVbTYeggBXMHaFKLg"

	TronAddress0    = "TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH"
	TronPrivateKey0 = "b5a4cea271ff424d7c31dc12a3e43e401df7a40d7412a15750f3f0b6b5449a28"
)

// NewSeed returns the seed of Mnemonic and clears it when the test ends.
func NewSeed(t *testing.T) *seed.Seed {
	t.Helper()

	s, err := seed.New(Mnemonic, "")
	require.NoError(t, err)
	t.Cleanup(s.Clear)

	return s
}
