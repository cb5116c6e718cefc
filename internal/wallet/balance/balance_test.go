package balance_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/web3-hd/internal/wallet/balance"
	"github/chapool/web3-hd/internal/wallet/errs"
)

func tokens(amounts ...int64) []balance.TokenAmount {
	res := make([]balance.TokenAmount, 0, len(amounts))
	for i, a := range amounts {
		res = append(res, balance.TokenAmount{
			Symbol:   []string{"USDT", "USDC", "DAI"}[i],
			Token:    "0x0",
			Amount:   big.NewInt(a),
			Decimals: 6,
		})
	}
	return res
}

func TestNewStateClassification(t *testing.T) {
	tests := []struct {
		name   string
		main   *big.Int
		tokens []balance.TokenAmount
		want   balance.Kind
	}{
		{"nothing", big.NewInt(0), nil, balance.Empty},
		{"nil main", nil, tokens(0, 0), balance.Empty},
		{"zero tokens only", big.NewInt(0), tokens(0, 0, 0), balance.Empty},
		{"main only", big.NewInt(5), tokens(0, 0), balance.Main},
		{"tokens only", big.NewInt(0), tokens(0, 7), balance.Tokens},
		{"both", big.NewInt(1), tokens(3), balance.MainAndTokens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := balance.NewState(tt.main, tt.tokens)
			assert.Equal(t, tt.want, s.Kind())
			assert.Len(t, s.Tokens(), len(tt.tokens))
		})
	}
}

func TestStateKeepsZeroTokens(t *testing.T) {
	s := balance.NewState(big.NewInt(0), tokens(0, 2, 0))

	require.Len(t, s.Tokens(), 3)
	assert.Equal(t, "USDT", s.Tokens()[0].Symbol)
	assert.Zero(t, s.Tokens()[0].Amount.Sign())
	assert.Equal(t, "tokens 0.000002 USDC", s.Describe("ETH", 18))
}

func TestStateIsCopied(t *testing.T) {
	main := big.NewInt(10)
	s := balance.NewState(main, nil)
	main.SetInt64(0)

	assert.Equal(t, int64(10), s.Main().Int64())
	s.Main().SetInt64(99)
	assert.Equal(t, int64(10), s.Main().Int64())
}

func TestDescribe(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)

	assert.Equal(t, "empty", balance.NewState(nil, nil).Describe("ETH", 18))
	assert.Equal(t, "main 1.5 ETH", balance.NewState(wei, nil).Describe("ETH", 18))
	assert.Equal(t, "main+tokens 1.5 ETH 1 USDT", balance.NewState(wei, tokens(1_000_000)).Describe("ETH", 18))
}

func TestFormatUnits(t *testing.T) {
	wei, ok := new(big.Int).SetString("1234500000000000000", 10)
	require.True(t, ok)

	assert.Equal(t, "1.2345", balance.FormatUnits(wei, 18))
	assert.Equal(t, "0.000001", balance.FormatUnits(big.NewInt(1), 6))
	assert.Equal(t, "0", balance.FormatUnits(big.NewInt(0), 18))
	assert.Equal(t, "0", balance.FormatUnits(nil, 18))
	assert.Equal(t, "42", balance.FormatUnits(big.NewInt(42), 0))
}

func TestParseUnits(t *testing.T) {
	v, err := balance.ParseUnits("1.5", 18)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", v.String())

	v, err = balance.ParseUnits("0.000001", 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int64())

	v, err = balance.ParseUnits("12", 6)
	require.NoError(t, err)
	assert.Equal(t, int64(12_000_000), v.Int64())

	for _, bad := range []string{"", "abc", "-1", "0.0000001"} {
		_, err = balance.ParseUnits(bad, 6)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount, bad)
	}
}
