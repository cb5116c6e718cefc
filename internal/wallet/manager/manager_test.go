package manager_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/test"
	"github/chapool/web3-hd/internal/wallet/balance"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/manager"
)

const (
	usdt = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	dai  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	safe = "0x000000000000000000000000000000000000dEaD"
)

func walletConfig() config.Wallet {
	return config.Wallet{
		Mnemonic:    test.Mnemonic,
		Concurrency: 4,
		Chains: map[string]config.Chain{
			chain.Ethereum.Key(): {
				RPCURLs: []string{"https://eth.example"},
				Tokens: []config.Token{
					{Symbol: "USDT", Address: usdt, Decimals: 6},
					{Symbol: "DAI", Address: dai, Decimals: 18},
				},
				Safe: safe,
			},
			chain.Tron.Key(): {
				RPCURLs: []string{"https://tron.example/jsonrpc"},
			},
		},
	}
}

func newManager(t *testing.T, opts ...manager.Option) (*manager.Manager, *test.MockDialer) {
	t.Helper()

	dialer := test.NewMockDialer()
	return manager.New(walletConfig(), dialer, opts...), dialer
}

func accountAt(t *testing.T, m *manager.Manager, c chain.Chain, index int) common.Address {
	t.Helper()

	a, err := m.Address(c, index)
	require.NoError(t, err)

	return a.Account()
}

func TestMissingChainSelection(t *testing.T) {
	m, dialer := newManager(t)
	ctx := context.Background()

	_, err := m.Resolve(ctx, chain.None)
	assert.ErrorIs(t, err, errs.ErrMissingChainSelection)

	_, err = m.Balance(ctx, chain.None, 0)
	assert.ErrorIs(t, err, errs.ErrMissingChainSelection)

	_, err = m.Balances(ctx, chain.None, 0, 10)
	assert.ErrorIs(t, err, errs.ErrMissingChainSelection)

	_, err = m.Address(chain.None, 0)
	assert.ErrorIs(t, err, errs.ErrMissingChainSelection)

	_, err = m.PrivateKey(chain.None, 0)
	assert.ErrorIs(t, err, errs.ErrMissingChainSelection)

	assert.Zero(t, dialer.Dials())
}

func TestResolve(t *testing.T) {
	m, dialer := newManager(t)

	target, err := m.Resolve(context.Background(), chain.Ethereum)
	require.NoError(t, err)
	defer target.Close()

	assert.Equal(t, chain.Ethereum, target.Chain)
	assert.Equal(t, chain.Ethereum, target.Wallet.Chain())
	assert.Equal(t, safe, target.Safe)
	assert.Len(t, target.Tokens, 2)
	assert.Equal(t, []string{"https://eth.example"}, dialer.URLs(chain.Ethereum))

	_, err = m.Resolve(context.Background(), chain.BSC)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), "bsc_provider")
}

func TestResolveDialFailure(t *testing.T) {
	m, dialer := newManager(t)
	dialer.FailWith(assert.AnError)

	_, err := m.Resolve(context.Background(), chain.Ethereum)
	assert.ErrorIs(t, err, errs.ErrProvider)
}

func TestIndexBoundErrorsCarryIndex(t *testing.T) {
	m, dialer := newManager(t)
	ctx := context.Background()

	// bsc has no provider configured
	_, err := m.Balance(ctx, chain.BSC, 3)
	assert.ErrorIs(t, err, errs.ErrValidation)

	var werr *errs.Error
	require.ErrorAs(t, err, &werr)
	assert.True(t, werr.HasIndex())
	assert.Equal(t, 3, werr.Index)
	assert.Equal(t, "bsc", werr.Chain)

	dialer.FailWith(assert.AnError)

	_, _, err = m.Sweep(ctx, chain.Ethereum, 7, "")
	assert.ErrorIs(t, err, errs.ErrProvider)
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 7, werr.Index)

	_, err = m.Transfer(ctx, chain.Ethereum, 4, safe, big.NewInt(1))
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 4, werr.Index)
	assert.Contains(t, err.Error(), "transfer eth[4]")
}

func TestDialNeedsNoSeed(t *testing.T) {
	cfg := walletConfig()
	cfg.Mnemonic = ""

	dialer := test.NewMockDialer()
	m := manager.New(cfg, dialer)

	p, err := m.Dial(context.Background(), chain.Ethereum)
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 1, dialer.Dials())

	_, err = m.Dial(context.Background(), chain.None)
	assert.ErrorIs(t, err, errs.ErrMissingChainSelection)

	_, err = m.Dial(context.Background(), chain.BSC)
	assert.ErrorIs(t, err, errs.ErrValidation)

	// the seed is only needed once a wallet is involved
	_, err = m.Resolve(context.Background(), chain.Ethereum)
	assert.ErrorIs(t, err, errs.ErrInvalidMnemonic)
}

func TestKeyQueries(t *testing.T) {
	m, dialer := newManager(t)

	a, err := m.Address(chain.Polygon, 0)
	require.NoError(t, err)
	assert.Equal(t, test.EthAddress0, a.String())

	a, err = m.Address(chain.Tron, 0)
	require.NoError(t, err)
	assert.Equal(t, test.TronAddress0, a.String())

	priv, err := m.PrivateKey(chain.Tron, 0)
	require.NoError(t, err)
	assert.Equal(t, test.TronPrivateKey0, priv)

	pub, err := m.PublicKey(chain.BSC, 0)
	require.NoError(t, err)
	assert.Equal(t, test.EthXPub0, pub)

	priv, pub, err = m.Keypair(chain.Ethereum, 0)
	require.NoError(t, err)
	assert.Equal(t, test.EthPrivateKey0, priv)
	assert.Equal(t, test.EthXPub0, pub)

	// key material never needs a node
	assert.Zero(t, dialer.Dials())
}

func TestInvalidMnemonic(t *testing.T) {
	cfg := walletConfig()
	cfg.Mnemonic = "abandon abandon abandon"

	m := manager.New(cfg, test.NewMockDialer())
	_, err := m.Address(chain.Ethereum, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidMnemonic)
	assert.NotContains(t, err.Error(), "abandon")
}

func TestVerifyAddressMismatch(t *testing.T) {
	cfg := walletConfig()
	cfg.Passphrase = "typo"
	cfg.VerifyAddress = test.EthAddress0

	m := manager.New(cfg, test.NewMockDialer())
	_, err := m.Address(chain.Ethereum, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidMnemonic)
}

func TestVerifyAddressWithSuppliedSeed(t *testing.T) {
	cfg := walletConfig()
	cfg.Mnemonic = ""
	cfg.VerifyAddress = safe

	m := manager.New(cfg, test.NewMockDialer(), manager.WithSeed(test.NewSeed(t)))
	_, err := m.Address(chain.Ethereum, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidMnemonic)
}

func TestBalance(t *testing.T) {
	m, dialer := newManager(t)
	p := dialer.Provider(chain.Ethereum)
	p.SetBalance(accountAt(t, m, chain.Ethereum, 1), big.NewInt(42))

	b, err := m.Balance(context.Background(), chain.Ethereum, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, int64(42), b.Amount.Int64())
	assert.True(t, p.Closed())
}

func TestBalancesOrderedDespiteCompletionOrder(t *testing.T) {
	m, dialer := newManager(t, manager.WithConcurrency(11))
	p := dialer.Provider(chain.Ethereum)

	for index := 0; index <= 10; index++ {
		account := accountAt(t, m, chain.Ethereum, index)
		p.SetBalance(account, big.NewInt(int64(index*100)))
		// lower indices finish last
		p.SetDelay(account, time.Duration(10-index)*5*time.Millisecond)
	}

	balances, err := m.Balances(context.Background(), chain.Ethereum, 0, 10)
	require.NoError(t, err)
	require.Len(t, balances, 11)

	for i, b := range balances {
		assert.Equal(t, i, b.Index)
		assert.Equal(t, int64(i*100), b.Amount.Int64())

		a, err := m.Address(chain.Ethereum, i)
		require.NoError(t, err)
		assert.Equal(t, a.String(), b.Address)
	}
}

func TestRangeValidatedBeforeNetwork(t *testing.T) {
	m, dialer := newManager(t)
	ctx := context.Background()

	_, err := m.Balances(ctx, chain.Ethereum, 5, 4)
	assert.ErrorIs(t, err, errs.ErrInvalidRange)

	_, err = m.TokenBalancesRange(ctx, chain.Ethereum, -1, 4)
	assert.ErrorIs(t, err, errs.ErrInvalidIndex)

	_, err = m.TotalBalances(ctx, chain.Ethereum, 0, 1<<31)
	assert.ErrorIs(t, err, errs.ErrInvalidIndex)

	_, err = m.Balance(ctx, chain.Ethereum, -3)
	assert.ErrorIs(t, err, errs.ErrInvalidIndex)

	_, _, err = m.Sweep(ctx, chain.Ethereum, -3, "")
	assert.ErrorIs(t, err, errs.ErrInvalidIndex)

	// the widest valid indices still fail before anything is allocated or dialed
	_, err = m.Balances(ctx, chain.Ethereum, 0, 1<<31-1)
	assert.ErrorIs(t, err, errs.ErrInvalidRange)

	assert.Zero(t, dialer.Dials())
}

func TestRangeAbortsOnFirstError(t *testing.T) {
	m, dialer := newManager(t, manager.WithConcurrency(4))
	p := dialer.Provider(chain.Ethereum)

	for index := 0; index <= 10; index++ {
		p.SetDelay(accountAt(t, m, chain.Ethereum, index), 10*time.Second)
	}
	failing := accountAt(t, m, chain.Ethereum, 2)
	p.SetDelay(failing, 0)
	p.SetFailure(failing, assert.AnError)

	start := time.Now()
	_, err := m.Balances(context.Background(), chain.Ethereum, 0, 10)
	require.Error(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, err, errs.ErrProvider)
	assert.ErrorIs(t, err, assert.AnError)

	var werr *errs.Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 2, werr.Index)
}

func TestTokenBalances(t *testing.T) {
	m, dialer := newManager(t)
	p := dialer.Provider(chain.Ethereum)
	p.SetTokenBalance(common.HexToAddress(dai), accountAt(t, m, chain.Ethereum, 0), big.NewInt(9))

	held, err := m.TokenBalances(context.Background(), chain.Ethereum, 0)
	require.NoError(t, err)
	require.Len(t, held.Tokens, 2)
	assert.Equal(t, "USDT", held.Tokens[0].Symbol)
	assert.Zero(t, held.Tokens[0].Amount.Sign())
	assert.Equal(t, int32(6), held.Tokens[0].Decimals)
	assert.Equal(t, "DAI", held.Tokens[1].Symbol)
	assert.Equal(t, int64(9), held.Tokens[1].Amount.Int64())

	ranged, err := m.TokenBalancesRange(context.Background(), chain.Ethereum, 0, 3)
	require.NoError(t, err)
	require.Len(t, ranged, 4)
	for i, r := range ranged {
		assert.Equal(t, i, r.Index)
		assert.Len(t, r.Tokens, 2)
	}
}

func TestTotalBalances(t *testing.T) {
	m, dialer := newManager(t)
	p := dialer.Provider(chain.Ethereum)

	p.SetBalance(accountAt(t, m, chain.Ethereum, 1), big.NewInt(1))
	p.SetTokenBalance(common.HexToAddress(usdt), accountAt(t, m, chain.Ethereum, 2), big.NewInt(1))
	p.SetBalance(accountAt(t, m, chain.Ethereum, 3), big.NewInt(1))
	p.SetTokenBalance(common.HexToAddress(dai), accountAt(t, m, chain.Ethereum, 3), big.NewInt(1))

	states, err := m.TotalBalances(context.Background(), chain.Ethereum, 0, 3)
	require.NoError(t, err)
	require.Len(t, states, 4)

	want := []balance.Kind{balance.Empty, balance.Main, balance.Tokens, balance.MainAndTokens}
	for i, s := range states {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, want[i], s.State.Kind(), "index %d", i)
		assert.Len(t, s.State.Tokens(), 2)
	}

	single, err := m.TotalBalance(context.Background(), chain.Ethereum, 3)
	require.NoError(t, err)
	assert.Equal(t, balance.MainAndTokens, single.State.Kind())
}

func TestTronBalances(t *testing.T) {
	m, dialer := newManager(t)
	p := dialer.Provider(chain.Tron)
	p.SetBalance(accountAt(t, m, chain.Tron, 0), big.NewInt(5_000_000))

	states, err := m.TotalBalances(context.Background(), chain.Tron, 0, 1)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, test.TronAddress0, states[0].Address)
	assert.Equal(t, balance.Main, states[0].State.Kind())
	assert.Equal(t, balance.Empty, states[1].State.Kind())

	_, _, err = m.Sweep(context.Background(), chain.Tron, 0, test.TronAddress0)
	assert.ErrorIs(t, err, errs.ErrUnsupportedOperation)
}

func TestSweepToConfiguredSafe(t *testing.T) {
	m, dialer := newManager(t)
	p := dialer.Provider(chain.Ethereum)
	from := accountAt(t, m, chain.Ethereum, 4)
	p.SetBalance(from, big.NewInt(1_000_000_000_000_000))

	tx, amount, err := m.Sweep(context.Background(), chain.Ethereum, 4, "")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(safe), *tx.To())
	assert.Positive(t, amount.Sign())
	assert.LessOrEqual(t, amount.Cmp(big.NewInt(1_000_000_000_000_000)), 0)
}

func TestSweepWithoutSafe(t *testing.T) {
	cfg := walletConfig()
	eth := cfg.Chains[chain.Ethereum.Key()]
	eth.Safe = ""
	cfg.Chains[chain.Ethereum.Key()] = eth

	dialer := test.NewMockDialer()
	m := manager.New(cfg, dialer)

	_, _, err := m.Sweep(context.Background(), chain.Ethereum, 0, "")
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, dialer.Provider(chain.Ethereum).Sent())
}

func TestSweepTokens(t *testing.T) {
	m, dialer := newManager(t)
	p := dialer.Provider(chain.Ethereum)
	from := accountAt(t, m, chain.Ethereum, 0)
	p.SetBalance(from, big.NewInt(1_000_000_000_000_000_000))
	p.SetTokenBalance(common.HexToAddress(dai), from, big.NewInt(77))

	sweeps, err := m.SweepTokens(context.Background(), chain.Ethereum, 0, "")
	require.NoError(t, err)
	require.Len(t, sweeps, 1)
	assert.Equal(t, "DAI", sweeps[0].Token.Symbol)
	assert.Equal(t, int64(77), sweeps[0].Token.Amount.Int64())

	sent := p.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, common.HexToAddress(dai), *sent[0].To())
}

func TestTransfer(t *testing.T) {
	m, dialer := newManager(t)
	p := dialer.Provider(chain.Ethereum)
	p.SetBalance(accountAt(t, m, chain.Ethereum, 0), big.NewInt(1_000_000_000_000_000_000))

	receipt, err := m.Transfer(context.Background(), chain.Ethereum, 0, safe, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, p.Sent()[0].Hash(), receipt.TxHash)

	_, err = m.TransferToken(context.Background(), chain.Ethereum, 0, usdt, safe, big.NewInt(1))
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
}

func TestLookupToken(t *testing.T) {
	m, _ := newManager(t)

	token, ok := m.LookupToken(chain.Ethereum, "usdt")
	require.True(t, ok)
	assert.Equal(t, usdt, token.Address)

	token, ok = m.LookupToken(chain.Ethereum, "0x6b175474e89094c44da98b954eedeac495271d0f")
	require.True(t, ok)
	assert.Equal(t, "DAI", token.Symbol)

	_, ok = m.LookupToken(chain.Tron, "USDT")
	assert.False(t, ok)
}

func TestConcurrencyDefault(t *testing.T) {
	m := manager.New(config.Wallet{Mnemonic: test.Mnemonic}, test.NewMockDialer())
	assert.Equal(t, config.DefaultConcurrency, m.Concurrency())
}

func TestValidateRange(t *testing.T) {
	require.NoError(t, manager.ValidateRange(0, 0))
	require.NoError(t, manager.ValidateRange(0, manager.MaxRangeSize-1))
	require.NoError(t, manager.ValidateRange(1<<31-manager.MaxRangeSize, 1<<31-1))
	assert.ErrorIs(t, manager.ValidateRange(0, manager.MaxRangeSize), errs.ErrInvalidRange)
	assert.ErrorIs(t, manager.ValidateRange(3, 2), errs.ErrInvalidRange)
	assert.ErrorIs(t, manager.ValidateRange(-1, 2), errs.ErrInvalidIndex)
}
