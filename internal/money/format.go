package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the two ledger currencies.
type Currency string

const (
	THB Currency = "THB"
	USD Currency = "USD"
)

var symbols = map[Currency]string{
	THB: "฿",
	USD: "$",
}

func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := symbols[c]; !ok {
		return "", fmt.Errorf("unsupported currency %q: expected THB or USD", code)
	}
	return c, nil
}

// FormatCurrency renders amount with the currency symbol, thousands
// separators and exactly two decimals, rounding half away from zero.
// Unknown currencies fall back to a code prefix.
func FormatCurrency(amount float64, c Currency) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	prefix, ok := symbols[c]
	if !ok {
		prefix = string(c) + " "
	}
	return sign + prefix + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
