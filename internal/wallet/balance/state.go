// Package balance models what an account holds and formats amounts for display.
package balance

import (
	"math/big"
	"strings"
)

// Kind classifies a State.
type Kind int

const (
	Empty Kind = iota
	Main
	Tokens
	MainAndTokens
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Main:
		return "main"
	case Tokens:
		return "tokens"
	case MainAndTokens:
		return "main+tokens"
	}
	return "unknown"
}

// TokenAmount is the balance of one configured token.
type TokenAmount struct {
	Symbol   string
	Token    string // contract address as configured
	Amount   *big.Int
	Decimals int32
}

// Formatted returns Amount in whole token units.
func (t TokenAmount) Formatted() string {
	return FormatUnits(t.Amount, t.Decimals)
}

// State is the balance state of one account. Build it with NewState.
type State struct {
	kind   Kind
	main   *big.Int
	tokens []TokenAmount
}

// NewState classifies the account from the main balance and the balance of every
// configured token. Tokens keeps the full list, zero amounts included; only non
// zero amounts count for the classification.
func NewState(main *big.Int, tokens []TokenAmount) State {
	if main == nil {
		main = new(big.Int)
	}

	hasMain := main.Sign() > 0
	hasTokens := false
	for _, t := range tokens {
		if t.Amount != nil && t.Amount.Sign() > 0 {
			hasTokens = true
			break
		}
	}

	kind := Empty
	switch {
	case hasMain && hasTokens:
		kind = MainAndTokens
	case hasMain:
		kind = Main
	case hasTokens:
		kind = Tokens
	}

	return State{
		kind:   kind,
		main:   new(big.Int).Set(main),
		tokens: append([]TokenAmount(nil), tokens...),
	}
}

func (s State) Kind() Kind { return s.kind }

// Main returns the native balance in the chain's smallest unit.
func (s State) Main() *big.Int {
	if s.main == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.main)
}

// Tokens returns every configured token balance in configuration order.
func (s State) Tokens() []TokenAmount {
	return append([]TokenAmount(nil), s.tokens...)
}

// IsEmpty reports whether nothing is held.
func (s State) IsEmpty() bool { return s.kind == Empty }

// Describe renders the state with the native amount in whole units.
func (s State) Describe(symbol string, decimals int32) string {
	var b strings.Builder
	b.WriteString(s.kind.String())

	if s.kind == Main || s.kind == MainAndTokens {
		b.WriteString(" ")
		b.WriteString(FormatUnits(s.main, decimals))
		b.WriteString(" ")
		b.WriteString(symbol)
	}

	if s.kind == Tokens || s.kind == MainAndTokens {
		for _, t := range s.tokens {
			if t.Amount == nil || t.Amount.Sign() == 0 {
				continue
			}
			b.WriteString(" ")
			b.WriteString(t.Formatted())
			b.WriteString(" ")
			b.WriteString(t.Symbol)
		}
	}

	return b.String()
}

// WalletState is the balance state of one derived account.
type WalletState struct {
	Index   int
	Address string
	State   State
}
