package core

import "fmt"

// FormatPrice renders a price as a currency string with exactly two
// fractional digits. An absent or zero price renders as "$0.00".
func FormatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return "$0.00"
	}
	return fmt.Sprintf("$%.2f", *price)
}
