package cash

import (
	"math/big"

	"github.com/iov-one/tipjar/errors"
	"github.com/shopspring/decimal"
)

// Fractional is the number of decimal places of a whole unit. One whole unit
// is 10^Fractional base units.
const Fractional = 9

// FormatAmount returns a human readable representation of an amount given in
// base units, for example 1500000000 is "1.500000000".
func FormatAmount(amount uint64) string {
	var b big.Int
	b.SetUint64(amount)
	return decimal.NewFromBigInt(&b, -Fractional).StringFixed(Fractional)
}

// ParseAmount converts a decimal representation of whole units into base
// units. More fractional digits than supported are rejected.
func ParseAmount(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	if d.Sign() < 0 {
		return 0, errors.Wrap(errors.ErrAmount, "negative amount")
	}
	base := d.Shift(Fractional)
	if !base.Equal(base.Truncate(0)) {
		return 0, errors.Wrap(errors.ErrAmount, "too many fractional digits")
	}
	n := base.BigInt()
	if !n.IsUint64() {
		return 0, errors.Wrap(errors.ErrOverflow, s)
	}
	return n.Uint64(), nil
}
