package layout

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/wagebook/internal/domain/models"
)

// Money renders an amount with exactly two decimals behind symbol.
// Non-finite amounts print as zero.
func Money(symbol string, amount float64) string {
	return symbol + decimal.NewFromFloat(models.Coerce(amount)).StringFixed(2)
}
