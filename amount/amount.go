package amount

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/soulgarden/aori-client/dictionary"
)

// ToBaseUnits turns a human amount like "1.5" into the integer string of the token's smallest
// denomination, "1500000000000000000" for 18 decimals.
func ToBaseUnits(value string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s", dictionary.ErrParseAmount, value)
	}

	shifted := d.Shift(decimals)

	if !shifted.Equal(shifted.Truncate(0)) {
		return "", fmt.Errorf("%w: %s with %d decimals", dictionary.ErrFractionalBaseUnits, value, decimals)
	}

	return shifted.StringFixed(0), nil
}

func FromBaseUnits(base string, decimals int32) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(base)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", dictionary.ErrParseAmount, base)
	}

	return d.Shift(-decimals), nil
}
