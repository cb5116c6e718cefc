package balance

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github/chapool/web3-hd/internal/wallet/errs"
)

// FormatUnits renders amount, given in the smallest unit, in whole units with
// trailing zeros removed (wei -> ether for 18 decimals).
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ParseUnits converts a decimal amount in whole units to the smallest unit.
// Negative amounts and amounts with more fractional digits than decimals are
// rejected.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errs.Mark(errs.ErrInvalidAmount, errors.Wrapf(err, "failed to parse amount %q", amount))
	}

	if d.IsNegative() {
		return nil, errors.Wrapf(errs.ErrInvalidAmount, "amount %s is negative", amount)
	}

	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, errors.Wrapf(errs.ErrInvalidAmount, "amount %s has more than %d decimals", amount, decimals)
	}

	return scaled.BigInt(), nil
}
