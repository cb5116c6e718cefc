package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/util"
	"github/chapool/web3-hd/internal/wallet/address"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/provider"
	"github/chapool/web3-hd/internal/wallet/signer"
)

// evmWallet serves Ethereum, Polygon and BSC. They share coin type 60, so the
// same index yields the same key and address on all three.
type evmWallet struct {
	Handle

	signer signer.Service
}

var _ Wallet = (*evmWallet)(nil)

func newEVMWallet(h Handle) *evmWallet {
	return &evmWallet{
		Handle: h,
		signer: signer.NewService(h.seed),
	}
}

// sender validates the common inputs of outgoing transactions and returns the
// derived source account and the parsed recipient.
func (w *evmWallet) sender(index int, to string, p provider.ChainProvider) (address.Address, address.Address, error) {
	if err := derivation.ValidateIndex(index); err != nil {
		return address.Address{}, address.Address{}, err
	}

	recipient, err := address.ParseEVM(to)
	if err != nil {
		return address.Address{}, address.Address{}, errors.Wrapf(err, "recipient %s", to)
	}

	if p == nil {
		return address.Address{}, address.Address{}, errNoProvider
	}

	from, err := w.Address(index)
	if err != nil {
		return address.Address{}, address.Address{}, err
	}

	return from, recipient, nil
}

func (w *evmWallet) Transfer(ctx context.Context, index int, to string, amount *big.Int, p provider.ChainProvider) (*types.Receipt, error) {
	const op = "transfer"

	from, recipient, err := w.sender(index, to, p)
	if err != nil {
		return nil, errs.At(op, w.chain, index, err)
	}
	if err := validateAmount(amount); err != nil {
		return nil, errs.At(op, w.chain, index, err)
	}

	quote, err := suggestFees(ctx, p, nativeTransferGasLimit)
	if err != nil {
		return nil, errs.At(op, w.chain, index, err)
	}

	balance, err := p.NativeBalance(ctx, from.Account())
	if err != nil {
		return nil, errs.At(op, w.chain, index, errs.Mark(errs.ErrProvider, err))
	}

	required := new(big.Int).Add(amount, quote.Total)
	if balance.Cmp(required) < 0 {
		return nil, errs.At(op, w.chain, index, errors.Wrapf(errs.ErrInsufficientFunds,
			"balance %s is below amount plus fee %s", balance, required))
	}

	_, receipt, err := w.send(ctx, index, from.Account(), recipient.Account(), amount, nil, quote, p)
	if err != nil {
		return receipt, errs.At(op, w.chain, index, err)
	}

	return receipt, nil
}

func (w *evmWallet) TransferToken(ctx context.Context, index int, token string, to string, amount *big.Int, p provider.ChainProvider) (*types.Receipt, error) {
	const op = "transfer token"

	from, recipient, err := w.sender(index, to, p)
	if err != nil {
		return nil, errs.At(op, w.chain, index, err)
	}
	if err := validateAmount(amount); err != nil {
		return nil, errs.At(op, w.chain, index, err)
	}

	contract, err := address.ParseEVM(token)
	if err != nil {
		return nil, errs.At(op, w.chain, index, errors.Wrapf(err, "token %s", token))
	}

	tokenBalance, err := p.TokenBalance(ctx, contract.Account(), from.Account())
	if err != nil {
		return nil, errs.At(op, w.chain, index, errs.Mark(errs.ErrProvider, err))
	}
	if tokenBalance.Cmp(amount) < 0 {
		return nil, errs.At(op, w.chain, index, errors.Wrapf(errs.ErrInsufficientFunds,
			"token balance %s is below amount %s", tokenBalance, amount))
	}

	quote, err := suggestFees(ctx, p, tokenTransferGasLimit)
	if err != nil {
		return nil, errs.At(op, w.chain, index, err)
	}

	balance, err := p.NativeBalance(ctx, from.Account())
	if err != nil {
		return nil, errs.At(op, w.chain, index, errs.Mark(errs.ErrProvider, err))
	}
	if balance.Cmp(quote.Total) < 0 {
		return nil, errs.At(op, w.chain, index, errors.Wrapf(errs.ErrInsufficientFunds,
			"balance %s does not cover fee %s", balance, quote.Total))
	}

	data := erc20TransferData(recipient.Account(), amount)

	_, receipt, err := w.send(ctx, index, from.Account(), contract.Account(), big.NewInt(0), data, quote, p)
	if err != nil {
		return receipt, errs.At(op, w.chain, index, err)
	}

	return receipt, nil
}

func (w *evmWallet) Sweep(ctx context.Context, index int, to string, p provider.ChainProvider) (*types.Transaction, *big.Int, error) {
	const op = "sweep"

	from, recipient, err := w.sender(index, to, p)
	if err != nil {
		return nil, nil, errs.At(op, w.chain, index, err)
	}

	quote, err := suggestFees(ctx, p, nativeTransferGasLimit)
	if err != nil {
		return nil, nil, errs.At(op, w.chain, index, err)
	}

	// read last so the amount reflects the balance right before signing
	balance, err := p.NativeBalance(ctx, from.Account())
	if err != nil {
		return nil, nil, errs.At(op, w.chain, index, errs.Mark(errs.ErrProvider, err))
	}

	if balance.Cmp(quote.Total) <= 0 {
		return nil, nil, errs.At(op, w.chain, index, errors.Wrapf(errs.ErrInsufficientFunds,
			"balance %s does not exceed fee %s", balance, quote.Total))
	}

	amount := new(big.Int).Sub(balance, quote.Total)

	tx, _, err := w.send(ctx, index, from.Account(), recipient.Account(), amount, nil, quote, p)
	if err != nil {
		return nil, nil, errs.At(op, w.chain, index, err)
	}

	return tx, amount, nil
}

// send signs an EIP-1559 transaction with the key at index, broadcasts it and
// checks the receipt status.
func (w *evmWallet) send(
	ctx context.Context,
	index int,
	from common.Address,
	to common.Address,
	value *big.Int,
	data []byte,
	quote fees,
	p provider.ChainProvider,
) (*types.Transaction, *types.Receipt, error) {
	log := util.LogFromContext(ctx).With().
		Str("chain", w.chain.String()).
		Int("index", index).
		Str("from", from.Hex()).
		Str("to", to.Hex()).
		Logger()

	path, err := derivation.BuildPath(w.chain, index)
	if err != nil {
		return nil, nil, err
	}

	chainID, err := p.ChainID(ctx)
	if err != nil {
		return nil, nil, errs.Mark(errs.ErrProvider, err)
	}

	nonce, err := p.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, nil, errs.Mark(errs.ErrProvider, err)
	}

	signed, err := w.signer.SignEVMTransaction(ctx, &signer.SignEVMRequest{
		ChainID:              chainID,
		To:                   to,
		Value:                value,
		GasLimit:             quote.GasLimit,
		MaxFeePerGas:         quote.MaxFee,
		MaxPriorityFeePerGas: quote.TipCap,
		Nonce:                nonce,
		Data:                 data,
		From:                 from,
		DerivationPath:       path,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to sign transaction")
	}

	log.Info().
		Str("tx_hash", signed.TxHash.Hex()).
		Str("value", value.String()).
		Uint64("nonce", nonce).
		Msg("Broadcasting transaction")

	receipt, err := p.SendTransaction(ctx, signed.Transaction)
	if err != nil {
		return nil, nil, errs.Mark(errs.ErrProvider, err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		log.Warn().Str("tx_hash", signed.TxHash.Hex()).Msg("Transaction failed on chain")
		return signed.Transaction, receipt, errs.Mark(errs.ErrProvider,
			errors.Errorf("transaction %s failed on chain", signed.TxHash.Hex()))
	}

	log.Info().
		Str("tx_hash", signed.TxHash.Hex()).
		Uint64("gas_used", receipt.GasUsed).
		Msg("Transaction confirmed")

	return signed.Transaction, receipt, nil
}
