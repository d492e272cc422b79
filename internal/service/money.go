package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/domain"
)

// Amounts are stored as numeric(12,2): two decimal places, below 10^10.
var maxAmount = decimal.New(1, 10)

const maxQuantity = math.MaxInt32

// checkAmount rejects values the database would round or refuse.
func checkAmount(field string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return fmt.Errorf("%w: %s must be >= 0", domain.ErrValidation, field)
	case !d.Equal(d.Round(2)):
		return fmt.Errorf("%w: %s must have at most 2 decimal places", domain.ErrValidation, field)
	case d.GreaterThanOrEqual(maxAmount):
		return fmt.Errorf("%w: %s must be below %s", domain.ErrValidation, field, maxAmount)
	}
	return nil
}
