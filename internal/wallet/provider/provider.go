// Package provider talks to blockchain nodes on behalf of the wallets.
package provider

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/web3-hd/internal/wallet/chain"
)

// ChainProvider is the node capability consumed by the wallets. Every failure is
// reported as errs.ErrProvider; implementations must not panic.
type ChainProvider interface {
	// NativeBalance returns the balance of account in the chain's smallest unit.
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)

	// TokenBalance returns the result of balanceOf(owner) on the token contract.
	TokenBalance(ctx context.Context, token common.Address, owner common.Address) (*big.Int, error)

	// SendTransaction broadcasts a signed transaction and waits for its receipt.
	SendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)

	// BaseFee returns the base fee of the latest block, zero before London.
	BaseFee(ctx context.Context) (*big.Int, error)

	Close()
}

// Dialer opens a ChainProvider for a chain's configured endpoints.
type Dialer interface {
	Dial(ctx context.Context, c chain.Chain, urls []string) (ChainProvider, error)
}

// RPCDialer dials go-ethereum JSON-RPC clients.
type RPCDialer struct {
	metrics *Metrics
	opts    []Option
}

// NewRPCDialer creates a Dialer producing RPCClients that report to metrics.
func NewRPCDialer(metrics *Metrics, opts ...Option) *RPCDialer {
	return &RPCDialer{metrics: metrics, opts: opts}
}

//nolint:ireturn // Dialer returns the capability, not the client type
func (d *RPCDialer) Dial(ctx context.Context, c chain.Chain, urls []string) (ChainProvider, error) {
	return NewRPCClient(ctx, c, urls, append([]Option{WithMetrics(d.metrics)}, d.opts...)...)
}
