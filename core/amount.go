package core

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

// Decimals is the fixed-point scale of every on-chain monetary value.
const Decimals = 18

// MaxAmount is the largest amount whose base units still fit a uint256.
var MaxAmount = decimal.NewFromBigInt(math.MaxBig256, -Decimals)

// ParseAmount validates a human-facing decimal string. field names the input
// in the returned ValidationError.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, FieldError(field, "is required")
	}

	// exponent notation would let a short input expand to an arbitrarily large integer
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, FieldError(field, "is not a plain decimal number")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, FieldError(field, "is not a valid number")
	}

	if d.IsNegative() {
		return decimal.Zero, FieldError(field, "must not be negative")
	}

	if d.Exponent() < -Decimals {
		return decimal.Zero, FieldError(field, "has more than 18 decimal places")
	}

	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, FieldError(field, "is too large")
	}

	return d, nil
}

// ToBaseUnits scales d by 10^18. d must have passed ParseAmount; any digits
// beyond the scale are truncated.
func ToBaseUnits(d decimal.Decimal) *big.Int {
	return d.Shift(Decimals).BigInt()
}

func ParseBaseUnits(field, s string) (*big.Int, error) {
	d, err := ParseAmount(field, s)
	if err != nil {
		return nil, err
	}

	return ToBaseUnits(d), nil
}

func FromBaseUnits(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(v, -Decimals)
}

// FormatBaseUnits renders base units as a decimal string without trailing zeros.
func FormatBaseUnits(v *big.Int) string {
	return FromBaseUnits(v).String()
}
