package manager

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/util"
	"github/chapool/web3-hd/internal/wallet/balance"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
)

// NativeBalance is the native balance of one index.
type NativeBalance struct {
	Index   int
	Address string
	Amount  *big.Int
}

// TokenBalances holds the balance of every configured token of one index, in
// configuration order.
type TokenBalances struct {
	Index   int
	Address string
	Tokens  []balance.TokenAmount
}

// TokenSweep is the outcome of moving one token balance.
type TokenSweep struct {
	Token   balance.TokenAmount
	Receipt *types.Receipt
}

func validateIndex(op string, c chain.Chain, index int) error {
	if err := derivation.ValidateIndex(index); err != nil {
		return errs.At(op, c, index, err)
	}
	return nil
}

func validateRange(op string, c chain.Chain, from int, to int) error {
	if err := ValidateRange(from, to); err != nil {
		return errs.For(op, c, err)
	}
	return nil
}

func (m *Manager) Balance(ctx context.Context, c chain.Chain, index int) (NativeBalance, error) {
	if err := validateIndex("balance", c, index); err != nil {
		return NativeBalance{}, err
	}

	t, err := m.resolveAt(ctx, "balance", c, index)
	if err != nil {
		return NativeBalance{}, err
	}
	defer t.Close()

	return t.nativeBalance(ctx, index)
}

// Balances queries [from, to] concurrently; the result is ordered by index.
func (m *Manager) Balances(ctx context.Context, c chain.Chain, from int, to int) ([]NativeBalance, error) {
	if err := validateRange("balances", c, from, to); err != nil {
		return nil, err
	}

	t, err := m.Resolve(ctx, c)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	return forEachIndex(ctx, from, to, m.concurrency, t.nativeBalance)
}

func (m *Manager) TokenBalances(ctx context.Context, c chain.Chain, index int) (TokenBalances, error) {
	if err := validateIndex("token balances", c, index); err != nil {
		return TokenBalances{}, err
	}

	t, err := m.resolveAt(ctx, "token balances", c, index)
	if err != nil {
		return TokenBalances{}, err
	}
	defer t.Close()

	return t.tokenBalances(ctx, index)
}

func (m *Manager) TokenBalancesRange(ctx context.Context, c chain.Chain, from int, to int) ([]TokenBalances, error) {
	if err := validateRange("token balances", c, from, to); err != nil {
		return nil, err
	}

	t, err := m.Resolve(ctx, c)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	return forEachIndex(ctx, from, to, m.concurrency, t.tokenBalances)
}

// TotalBalance classifies the native and token holdings of index.
func (m *Manager) TotalBalance(ctx context.Context, c chain.Chain, index int) (balance.WalletState, error) {
	if err := validateIndex("total balance", c, index); err != nil {
		return balance.WalletState{}, err
	}

	t, err := m.resolveAt(ctx, "total balance", c, index)
	if err != nil {
		return balance.WalletState{}, err
	}
	defer t.Close()

	return t.walletState(ctx, index)
}

func (m *Manager) TotalBalances(ctx context.Context, c chain.Chain, from int, to int) ([]balance.WalletState, error) {
	if err := validateRange("total balances", c, from, to); err != nil {
		return nil, err
	}

	t, err := m.Resolve(ctx, c)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	return forEachIndex(ctx, from, to, m.concurrency, t.walletState)
}

// Sweep moves the native balance of index to to, or to the chain's configured
// safe address when to is empty.
func (m *Manager) Sweep(ctx context.Context, c chain.Chain, index int, to string) (*types.Transaction, *big.Int, error) {
	if err := validateIndex("sweep", c, index); err != nil {
		return nil, nil, err
	}

	t, err := m.resolveAt(ctx, "sweep", c, index)
	if err != nil {
		return nil, nil, err
	}
	defer t.Close()

	dest, err := t.destination(to)
	if err != nil {
		return nil, nil, errs.At("sweep", c, index, err)
	}

	return t.Wallet.Sweep(ctx, index, dest, t.Provider)
}

// SweepTokens moves the whole balance of every configured token held by index.
// Tokens with a zero balance are skipped. It stops at the first failure and
// returns the sweeps completed so far.
func (m *Manager) SweepTokens(ctx context.Context, c chain.Chain, index int, to string) ([]TokenSweep, error) {
	if err := validateIndex("sweep tokens", c, index); err != nil {
		return nil, err
	}

	t, err := m.resolveAt(ctx, "sweep tokens", c, index)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	dest, err := t.destination(to)
	if err != nil {
		return nil, errs.At("sweep tokens", c, index, err)
	}

	held, err := t.tokenBalances(ctx, index)
	if err != nil {
		return nil, err
	}

	sweeps := make([]TokenSweep, 0, len(held.Tokens))
	for _, token := range held.Tokens {
		if token.Amount.Sign() == 0 {
			continue
		}

		receipt, err := t.Wallet.TransferToken(ctx, index, token.Token, dest, token.Amount, t.Provider)
		if err != nil {
			return sweeps, err
		}

		sweeps = append(sweeps, TokenSweep{Token: token, Receipt: receipt})
	}

	return sweeps, nil
}

// LookupToken finds a configured token of c by symbol (case insensitive) or
// address.
func (m *Manager) LookupToken(c chain.Chain, symbolOrAddress string) (config.Token, bool) {
	for _, token := range m.cfg.Chain(c).Tokens {
		if strings.EqualFold(token.Symbol, symbolOrAddress) || strings.EqualFold(token.Address, symbolOrAddress) {
			return token, true
		}
	}
	return config.Token{}, false
}

func (t *Target) destination(to string) (string, error) {
	if to != "" {
		return to, nil
	}
	if t.Safe == "" {
		return "", errors.Wrapf(errs.ErrValidation, "no destination given and %s_safe is not configured", t.Chain.Key())
	}
	return t.Safe, nil
}

func (t *Target) nativeBalance(ctx context.Context, index int) (NativeBalance, error) {
	a, err := t.Wallet.Address(index)
	if err != nil {
		return NativeBalance{}, err
	}

	amount, err := t.Wallet.Balance(ctx, index, t.Provider)
	if err != nil {
		return NativeBalance{}, err
	}

	return NativeBalance{Index: index, Address: a.String(), Amount: amount}, nil
}

func (t *Target) tokenBalances(ctx context.Context, index int) (TokenBalances, error) {
	a, err := t.Wallet.Address(index)
	if err != nil {
		return TokenBalances{}, err
	}

	tokens := make([]balance.TokenAmount, 0, len(t.Tokens))
	for _, token := range t.Tokens {
		amount, err := t.Wallet.TokenBalance(ctx, index, token.Address, t.Provider)
		if err != nil {
			return TokenBalances{}, err
		}

		tokens = append(tokens, balance.TokenAmount{
			Symbol:   token.Symbol,
			Token:    token.Address,
			Amount:   amount,
			Decimals: token.Decimals,
		})
	}

	return TokenBalances{Index: index, Address: a.String(), Tokens: tokens}, nil
}

func (t *Target) walletState(ctx context.Context, index int) (balance.WalletState, error) {
	native, err := t.nativeBalance(ctx, index)
	if err != nil {
		return balance.WalletState{}, err
	}

	held, err := t.tokenBalances(ctx, index)
	if err != nil {
		return balance.WalletState{}, err
	}

	state := balance.NewState(native.Amount, held.Tokens)

	util.LogFromContext(ctx).Debug().
		Str("chain", t.Chain.String()).
		Int("index", index).
		Str("state", state.Kind().String()).
		Msg("Classified balance state")

	return balance.WalletState{Index: index, Address: native.Address, State: state}, nil
}
