package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/provider"
)

// tronWallet derives Tron accounts (coin type 195). Outgoing transactions need
// Tron's own transaction format and are not supported.
type tronWallet struct {
	Handle
}

var _ Wallet = (*tronWallet)(nil)

func newTronWallet(h Handle) *tronWallet {
	return &tronWallet{Handle: h}
}

func (w *tronWallet) unsupported(op string, index int) error {
	if err := derivation.ValidateIndex(index); err != nil {
		return errs.At(op, w.chain, index, err)
	}
	return errs.At(op, w.chain, index, errs.ErrUnsupportedOperation)
}

func (w *tronWallet) Transfer(_ context.Context, index int, _ string, _ *big.Int, _ provider.ChainProvider) (*types.Receipt, error) {
	return nil, w.unsupported("transfer", index)
}

func (w *tronWallet) TransferToken(_ context.Context, index int, _ string, _ string, _ *big.Int, _ provider.ChainProvider) (*types.Receipt, error) {
	return nil, w.unsupported("transfer token", index)
}

func (w *tronWallet) Sweep(_ context.Context, index int, _ string, _ provider.ChainProvider) (*types.Transaction, *big.Int, error) {
	return nil, nil, w.unsupported("sweep", index)
}
