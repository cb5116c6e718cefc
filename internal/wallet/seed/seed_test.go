package seed_test

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/seed"
)

//nolint:dupword // BIP39 test vector
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewSeedVector(t *testing.T) {
	s, err := seed.New(testMnemonic, "")
	require.NoError(t, err)

	assert.Equal(t,
		"5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		hex.EncodeToString(s.Bytes()),
	)
	assert.Equal(t, 12, s.Words())
}

func TestNewSeedNormalizesWhitespace(t *testing.T) {
	a, err := seed.New(testMnemonic, "")
	require.NoError(t, err)
	b, err := seed.New("  "+strings.ReplaceAll(testMnemonic, " ", "\n  ")+"\t", "")
	require.NoError(t, err)

	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestNewSeedPassphraseChangesSeed(t *testing.T) {
	a, err := seed.New(testMnemonic, "")
	require.NoError(t, err)
	b, err := seed.New(testMnemonic, "TREZOR")
	require.NoError(t, err)

	assert.NotEqual(t, a.Bytes(), b.Bytes())
}

func TestNewSeedRejectsInvalid(t *testing.T) {
	tests := []string{
		"",
		"hello world invalid mnemonic phrase designed to fail validation check",
		// valid words, wrong checksum
		strings.Replace(testMnemonic, "about", "abandon", 1),
		// wrong length
		"abandon abandon abandon",
	}

	for _, m := range tests {
		_, err := seed.New(m, "")
		require.Error(t, err, m)
		assert.ErrorIs(t, err, errs.ErrInvalidMnemonic)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.NotContains(t, err.Error(), "abandon")
		assert.NotContains(t, err.Error(), "designed")
	}
}

func TestSeedIsRedacted(t *testing.T) {
	s, err := seed.New(testMnemonic, "")
	require.NoError(t, err)

	for _, out := range []string{fmt.Sprint(s), fmt.Sprintf("%v", s), fmt.Sprintf("%#v", s)} {
		assert.NotContains(t, out, "abandon")
		assert.NotContains(t, out, "5eb00bbd")
	}
	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.NotContains(t, string(text), "5eb00bbd")
}

func TestBytesReturnsCopy(t *testing.T) {
	s, err := seed.New(testMnemonic, "")
	require.NoError(t, err)

	b := s.Bytes()
	b[0] ^= 0xff
	assert.NotEqual(t, b, s.Bytes())

	s.Clear()
	assert.Nil(t, s.Bytes())
}

func TestGenerateMnemonic(t *testing.T) {
	for _, words := range []int{0, 12, 15, 18, 21, 24} {
		m, err := seed.GenerateMnemonic(words)
		require.NoError(t, err)

		want := words
		if want == 0 {
			want = seed.DefaultWords
		}
		assert.Len(t, strings.Fields(m), want)
		assert.NoError(t, seed.Validate(m))
	}

	_, err := seed.GenerateMnemonic(13)
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = seed.GenerateMnemonic(27)
	assert.ErrorIs(t, err, errs.ErrValidation)
}
