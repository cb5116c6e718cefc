package address_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/web3-hd/internal/test"
	"github/chapool/web3-hd/internal/wallet/address"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
)

func publicKey(t *testing.T, c chain.Chain, index int) []byte {
	t.Helper()

	p, err := derivation.BuildPath(c, index)
	require.NoError(t, err)
	kp, err := derivation.Derive(test.NewSeed(t).Bytes(), p)
	require.NoError(t, err)
	kp.Wipe()

	return kp.PublicKey
}

func TestEVMFromPublicKeyVector(t *testing.T) {
	a, err := address.EVMFromPublicKey(publicKey(t, chain.Ethereum, 0))
	require.NoError(t, err)

	assert.Equal(t, test.EthAddress0, a.String())
	assert.Len(t, a.String(), 42)
	assert.Equal(t, chain.FamilyEVM, a.Family())
	assert.Equal(t, common.HexToAddress(test.EthAddress0), a.Account())
}

func TestEVMFromPublicKeyAcceptsUncompressed(t *testing.T) {
	compressed := publicKey(t, chain.Ethereum, 3)
	key, err := crypto.DecompressPubkey(compressed)
	require.NoError(t, err)

	a, err := address.EVMFromPublicKey(compressed)
	require.NoError(t, err)
	b, err := address.EVMFromPublicKey(crypto.FromECDSAPub(key))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, crypto.PubkeyToAddress(*key).Hex(), a.String())
}

func TestChecksumHexEIP55Vectors(t *testing.T) {
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		"0x52908400098527886E0F7030069857D2E4169EE7",
		"0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		"0xde709f2102306220921060314715629080e2fb77",
		"0x27b1fdb04752bbc536007a920d24acb045561c26",
	}

	for _, v := range vectors {
		assert.Equal(t, v[2:], address.ChecksumHex(strings.ToLower(v[2:])), v)
		assert.Equal(t, common.HexToAddress(v).Hex(), "0x"+address.ChecksumHex(v[2:]), v)
	}
}

func TestEVMChecksumRoundTrip(t *testing.T) {
	for i := 0; i < 10; i++ {
		a, err := address.EVMFromPublicKey(publicKey(t, chain.Ethereum, i))
		require.NoError(t, err)

		lower := strings.ToLower(a.String())
		assert.Equal(t, a.String(), "0x"+address.ChecksumHex(lower[2:]))

		parsed, err := address.ParseEVM(lower)
		require.NoError(t, err)
		assert.Equal(t, a, parsed)

		parsed, err = address.ParseEVM(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}

func TestParseEVMRejectsInvalid(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", errs.ErrInvalidAddress},
		{"0x9858EfFD232B4033E47d90003D41EC34EcaEda9", errs.ErrInvalidAddress},
		{"0x9858EfFD232B4033E47d90003D41EC34EcaEda944", errs.ErrInvalidAddress},
		{"009858EfFD232B4033E47d90003D41EC34EcaEda94", errs.ErrInvalidAddress},
		{"0X9858EfFD232B4033E47d90003D41EC34EcaEda94", errs.ErrInvalidAddress},
		{"0x9858EfFD232B4033E47d90003D41EC34EcaEda9g", errs.ErrInvalidAddress},
		// one letter flipped to lowercase breaks the checksum
		{"0x9858efFD232B4033E47d90003D41EC34EcaEda94", errs.ErrChecksum},
	}

	for _, tt := range tests {
		_, err := address.ParseEVM(tt.in)
		assert.ErrorIs(t, err, tt.want, tt.in)
	}
}

func TestTronFromPublicKeyVector(t *testing.T) {
	a, err := address.TronFromPublicKey(publicKey(t, chain.Tron, 0))
	require.NoError(t, err)

	assert.Equal(t, test.TronAddress0, a.String())
	assert.Equal(t, chain.FamilyTron, a.Family())
	assert.True(t, strings.HasPrefix(address.TronHex(a), "41"))
	assert.Len(t, address.TronHex(a), 42)
}

func TestTronBase58CheckRoundTrip(t *testing.T) {
	for i := 0; i < 10; i++ {
		a, err := address.TronFromPublicKey(publicKey(t, chain.Tron, i))
		require.NoError(t, err)

		decoded := base58.Decode(a.String())
		require.Len(t, decoded, 25)
		assert.Equal(t, address.TronVersion, decoded[0])

		payload, version, err := base58.CheckDecode(a.String())
		require.NoError(t, err)
		assert.Equal(t, address.TronVersion, version)
		assert.True(t, bytes.Equal(a.Account().Bytes(), payload))

		parsed, err := address.ParseTron(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}

func TestTronSingleCharacterMutationFails(t *testing.T) {
	const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	addr := test.TronAddress0

	for i := 0; i < len(addr); i++ {
		for j := 0; j < len(alphabet); j++ {
			if alphabet[j] == addr[i] {
				continue
			}
			mutated := addr[:i] + string(alphabet[j]) + addr[i+1:]

			_, err := address.ParseTron(mutated)
			assert.ErrorIs(t, err, errs.ErrChecksum, "position %d: %s", i, mutated)
		}
	}
}

func TestParseTronRejectsInvalid(t *testing.T) {
	_, err := address.ParseTron("")
	assert.ErrorIs(t, err, errs.ErrInvalidAddress)

	_, err = address.ParseTron("T0EZSdKsoDHQMeZwihtdoBiN46zxhGWYdH")
	assert.ErrorIs(t, err, errs.ErrInvalidAddress)

	// a valid Bitcoin address decodes to 25 bytes but carries version 0x00
	_, err = address.ParseTron("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2")
	assert.ErrorIs(t, err, errs.ErrInvalidAddress)

	// Base58Check with a different version byte
	_, err = address.ParseTron(base58.CheckEncode(make([]byte, 20), 0x00))
	assert.ErrorIs(t, err, errs.ErrInvalidAddress)
}

func TestEncodersRejectInvalidPublicKeys(t *testing.T) {
	notOnCurve := append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)
	badPrefix := append([]byte{0x05}, publicKey(t, chain.Ethereum, 0)[1:]...)
	zeroPoint := append([]byte{0x04}, make([]byte, 64)...)

	for _, pub := range [][]byte{nil, make([]byte, 20), notOnCurve, badPrefix, zeroPoint} {
		_, err := address.EVMFromPublicKey(pub)
		assert.ErrorIs(t, err, errs.ErrInvalidPublicKey)

		_, err = address.TronFromPublicKey(pub)
		assert.ErrorIs(t, err, errs.ErrInvalidPublicKey)
	}
}

func TestNormalize(t *testing.T) {
	evm, err := address.Normalize(chain.FamilyEVM, strings.ToLower(test.EthAddress0))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(test.EthAddress0), evm)

	tron, err := address.Normalize(chain.FamilyTron, test.TronAddress0)
	require.NoError(t, err)
	assert.NotEqual(t, common.Address{}, tron)

	_, err = address.Normalize(chain.FamilyTron, test.EthAddress0)
	assert.ErrorIs(t, err, errs.ErrInvalidAddress)

	_, err = address.Normalize(chain.FamilyUnknown, test.EthAddress0)
	assert.ErrorIs(t, err, errs.ErrMissingChainSelection)
}
