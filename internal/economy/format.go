package economy

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders an amount as "$1,234.50" or "-$80.00".
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	cents := math.Round(math.Abs(amount) * 100)
	whole := int64(cents) / 100
	frac := int64(cents) % 100
	return sign + "$" + humanize.Comma(whole) + "." + twoDigits(frac)
}

func twoDigits(n int64) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
