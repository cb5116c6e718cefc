package wallet

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/util"
	"github/chapool/web3-hd/internal/wallet/address"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/provider"
)

// Balance and TokenBalance are shared by both families: Tron nodes expose the
// same JSON-RPC calls when given the 20 byte account hash.

func (h Handle) Balance(ctx context.Context, index int, p provider.ChainProvider) (*big.Int, error) {
	const op = "balance"

	if err := derivation.ValidateIndex(index); err != nil {
		return nil, errs.At(op, h.chain, index, err)
	}
	if p == nil {
		return nil, errs.At(op, h.chain, index, errNoProvider)
	}

	account, err := h.Address(index)
	if err != nil {
		return nil, err
	}

	balance, err := p.NativeBalance(ctx, account.Account())
	if err != nil {
		return nil, errs.At(op, h.chain, index, errs.Mark(errs.ErrProvider, err))
	}

	util.LogFromContext(ctx).Debug().
		Str("chain", h.chain.String()).
		Int("index", index).
		Str("address", account.String()).
		Str("balance", balance.String()).
		Msg("Fetched native balance")

	return balance, nil
}

func (h Handle) TokenBalance(ctx context.Context, index int, token string, p provider.ChainProvider) (*big.Int, error) {
	const op = "token balance"

	if err := derivation.ValidateIndex(index); err != nil {
		return nil, errs.At(op, h.chain, index, err)
	}

	contract, err := address.Normalize(h.family, token)
	if err != nil {
		return nil, errs.At(op, h.chain, index, errors.Wrapf(err, "token %s", token))
	}

	if p == nil {
		return nil, errs.At(op, h.chain, index, errNoProvider)
	}

	account, err := h.Address(index)
	if err != nil {
		return nil, err
	}

	balance, err := p.TokenBalance(ctx, contract, account.Account())
	if err != nil {
		return nil, errs.At(op, h.chain, index, errs.Mark(errs.ErrProvider, err))
	}

	util.LogFromContext(ctx).Debug().
		Str("chain", h.chain.String()).
		Int("index", index).
		Str("token", token).
		Str("balance", balance.String()).
		Msg("Fetched token balance")

	return balance, nil
}

var errNoProvider = errors.Wrap(errs.ErrValidation, "no provider")

func validateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.Wrap(errs.ErrInvalidAmount, "amount must be positive")
	}
	return nil
}
