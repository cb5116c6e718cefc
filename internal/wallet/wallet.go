// Package wallet exposes one capability surface over every supported chain.
// Chain specific byte formats stay behind the Wallet interface.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/web3-hd/internal/wallet/address"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/provider"
	"github/chapool/web3-hd/internal/wallet/seed"
)

// Wallet derives the accounts of one chain from a seed. Every method validates
// index before doing any work, an invalid index never reaches the provider.
type Wallet interface {
	Chain() chain.Chain

	// Address returns the encoded address at index.
	Address(index int) (address.Address, error)

	// PublicKey returns the extended public key (xpub) at index.
	PublicKey(index int) (string, error)

	// PrivateKey returns the private key at index as 64 hex characters.
	PrivateKey(index int) (string, error)

	// Keypair returns the private key and the extended public key at index.
	Keypair(index int) (private string, public string, err error)

	// Balance returns the native balance in the chain's smallest unit.
	Balance(ctx context.Context, index int, p provider.ChainProvider) (*big.Int, error)

	// TokenBalance returns the balance of token, given in the chain's address format.
	TokenBalance(ctx context.Context, index int, token string, p provider.ChainProvider) (*big.Int, error)

	// Transfer sends amount of the native currency to to and waits for the receipt.
	Transfer(ctx context.Context, index int, to string, amount *big.Int, p provider.ChainProvider) (*types.Receipt, error)

	// TransferToken sends amount of token to to and waits for the receipt.
	TransferToken(ctx context.Context, index int, token string, to string, amount *big.Int, p provider.ChainProvider) (*types.Receipt, error)

	// Sweep moves the whole native balance minus the fee to to. It returns the
	// transaction and the amount moved, which never exceeds the balance read
	// immediately before.
	Sweep(ctx context.Context, index int, to string, p provider.ChainProvider) (*types.Transaction, *big.Int, error)
}

// New returns the Wallet implementation of c.
//
//nolint:ireturn // callers only see the capability
func New(c chain.Chain, s *seed.Seed) (Wallet, error) {
	h, err := NewHandle(c, s)
	if err != nil {
		return nil, err
	}

	switch c.Family() {
	case chain.FamilyEVM:
		return newEVMWallet(h), nil
	case chain.FamilyTron:
		return newTronWallet(h), nil
	case chain.FamilyUnknown:
	}

	return nil, errs.For("wallet", c, errs.ErrMissingChainSelection)
}
