package types

import (
	"math"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol prefixes every displayed price
const CurrencySymbol = "₦"

// FormattedPrice renders the price as whole naira with thousands separators, e.g. ₦85,000,000
func (p PropertyData) FormattedPrice() string {
	return CurrencySymbol + humanize.Comma(int64(math.Round(p.Price)))
}
