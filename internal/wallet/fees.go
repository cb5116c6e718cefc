package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/provider"
)

const (
	nativeTransferGasLimit uint64 = 21000
	tokenTransferGasLimit  uint64 = 120000

	defaultEIP1559Multiplier = 2
	abiWordLength            = 32
)

var erc20TransferMethodID = common.FromHex("a9059cbb")

// fees is an EIP-1559 fee quote. Total is the most the transaction can cost in
// gas: GasLimit * MaxFee.
type fees struct {
	GasLimit uint64
	TipCap   *big.Int
	MaxFee   *big.Int
	Total    *big.Int
}

// suggestFees quotes maxFee = 2*baseFee + tip.
func suggestFees(ctx context.Context, p provider.ChainProvider, gasLimit uint64) (fees, error) {
	tipCap, err := p.SuggestGasTipCap(ctx)
	if err != nil {
		return fees{}, errs.Mark(errs.ErrProvider, err)
	}

	baseFee, err := p.BaseFee(ctx)
	if err != nil {
		return fees{}, errs.Mark(errs.ErrProvider, err)
	}
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}

	maxFee := new(big.Int).Add(
		new(big.Int).Mul(baseFee, big.NewInt(defaultEIP1559Multiplier)),
		tipCap,
	)

	return fees{
		GasLimit: gasLimit,
		TipCap:   tipCap,
		MaxFee:   maxFee,
		Total:    new(big.Int).Mul(maxFee, new(big.Int).SetUint64(gasLimit)),
	}, nil
}

// erc20TransferData encodes transfer(to, amount).
func erc20TransferData(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, len(erc20TransferMethodID)+2*abiWordLength)
	data = append(data, erc20TransferMethodID...)
	data = append(data, common.LeftPadBytes(to.Bytes(), abiWordLength)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), abiWordLength)...)
	return data
}
