// Package manager resolves the selected chain to a wallet, its provider and its
// configured tokens, and runs single index and range queries on top of them.
package manager

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/config"
	"github/chapool/web3-hd/internal/util"
	"github/chapool/web3-hd/internal/wallet"
	"github/chapool/web3-hd/internal/wallet/address"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/provider"
	"github/chapool/web3-hd/internal/wallet/seed"
)

type Manager struct {
	cfg         config.Wallet
	dialer      provider.Dialer
	concurrency int

	mu       sync.Mutex
	seed     *seed.Seed
	verified bool
}

type Option func(*Manager)

// WithSeed uses s instead of the configured mnemonic.
func WithSeed(s *seed.Seed) Option {
	return func(m *Manager) { m.seed = s }
}

// WithConcurrency bounds the number of indices queried at once.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

func New(cfg config.Wallet, dialer provider.Dialer, opts ...Option) *Manager {
	m := &Manager{
		cfg:         cfg,
		dialer:      dialer,
		concurrency: cfg.Concurrency,
	}
	if m.concurrency <= 0 {
		m.concurrency = config.DefaultConcurrency
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Concurrency returns the fan-out limit of range queries.
func (m *Manager) Concurrency() int { return m.concurrency }

// Target is a chain resolved against the configuration.
type Target struct {
	Chain    chain.Chain
	Wallet   wallet.Wallet
	Provider provider.ChainProvider
	Tokens   []config.Token
	Safe     string
}

// Close releases the provider connections.
func (t *Target) Close() {
	if t.Provider != nil {
		t.Provider.Close()
	}
}

func (m *Manager) openSeed() (*seed.Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.verified {
		return m.seed, nil
	}

	s := m.seed
	if s == nil {
		var err error
		if s, err = seed.New(m.cfg.Mnemonic, m.cfg.Passphrase); err != nil {
			return nil, err
		}
	}

	if err := wallet.VerifyAddress(s, m.cfg.VerifyAddress); err != nil {
		if m.seed == nil {
			s.Clear()
		}
		return nil, err
	}

	m.seed = s
	m.verified = true
	return s, nil
}

// Wallet returns the wallet of c without connecting to any node.
//
//nolint:ireturn // callers only see the capability
func (m *Manager) Wallet(c chain.Chain) (wallet.Wallet, error) {
	if !c.Valid() {
		return nil, errs.For("resolve", c, errs.ErrMissingChainSelection)
	}

	s, err := m.openSeed()
	if err != nil {
		return nil, errs.For("resolve", c, err)
	}

	return wallet.New(c, s)
}

// Dial connects to the configured providers of c. It needs no seed.
//
//nolint:ireturn // the provider is chosen by the dialer
func (m *Manager) Dial(ctx context.Context, c chain.Chain) (provider.ChainProvider, error) {
	if !c.Valid() {
		return nil, errs.For("dial", c, errs.ErrMissingChainSelection)
	}

	urls := m.cfg.Chain(c).RPCURLs
	if len(urls) == 0 {
		return nil, errs.For("dial", c, errors.Wrapf(errs.ErrValidation, "no provider configured, set %s_provider", c.Key()))
	}

	p, err := m.dialer.Dial(ctx, c, urls)
	if err != nil {
		return nil, errs.For("dial", c, errs.Mark(errs.ErrProvider, err))
	}

	return p, nil
}

// resolveAt is Resolve for operations bound to one account index.
func (m *Manager) resolveAt(ctx context.Context, op string, c chain.Chain, index int) (*Target, error) {
	t, err := m.Resolve(ctx, c)
	if err != nil {
		return nil, errs.At(op, c, index, err)
	}
	return t, nil
}

// Resolve builds the wallet of c and dials its configured providers. There is no
// default chain: chain.None fails with errs.ErrMissingChainSelection.
func (m *Manager) Resolve(ctx context.Context, c chain.Chain) (*Target, error) {
	w, err := m.Wallet(c)
	if err != nil {
		return nil, err
	}

	p, err := m.Dial(ctx, c)
	if err != nil {
		return nil, err
	}

	settings := m.cfg.Chain(c)
	util.LogFromContext(ctx).Debug().
		Str("chain", c.String()).
		Int("endpoints", len(settings.RPCURLs)).
		Int("tokens", len(settings.Tokens)).
		Msg("Resolved chain")

	return &Target{
		Chain:    c,
		Wallet:   w,
		Provider: p,
		Tokens:   settings.Tokens,
		Safe:     settings.Safe,
	}, nil
}

func (m *Manager) Address(c chain.Chain, index int) (address.Address, error) {
	w, err := m.Wallet(c)
	if err != nil {
		return address.Address{}, err
	}
	return w.Address(index)
}

func (m *Manager) PublicKey(c chain.Chain, index int) (string, error) {
	w, err := m.Wallet(c)
	if err != nil {
		return "", err
	}
	return w.PublicKey(index)
}

func (m *Manager) PrivateKey(c chain.Chain, index int) (string, error) {
	w, err := m.Wallet(c)
	if err != nil {
		return "", err
	}
	return w.PrivateKey(index)
}

func (m *Manager) Keypair(c chain.Chain, index int) (string, string, error) {
	w, err := m.Wallet(c)
	if err != nil {
		return "", "", err
	}
	return w.Keypair(index)
}

// Transfer sends amount of the native currency from index to to.
func (m *Manager) Transfer(ctx context.Context, c chain.Chain, index int, to string, amount *big.Int) (*types.Receipt, error) {
	if err := validateIndex("transfer", c, index); err != nil {
		return nil, err
	}

	t, err := m.resolveAt(ctx, "transfer", c, index)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	return t.Wallet.Transfer(ctx, index, to, amount, t.Provider)
}

// TransferToken sends amount of token from index to to.
func (m *Manager) TransferToken(ctx context.Context, c chain.Chain, index int, token string, to string, amount *big.Int) (*types.Receipt, error) {
	if err := validateIndex("transfer token", c, index); err != nil {
		return nil, err
	}

	t, err := m.resolveAt(ctx, "transfer token", c, index)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	return t.Wallet.TransferToken(ctx, index, token, to, amount, t.Provider)
}
