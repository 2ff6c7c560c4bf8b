package utils

import (
	"fmt"
	"math"
)

// DollarsToCents converts a user-facing decimal amount to integer minor
// currency units, rounding to the nearest cent. This is the only place
// floating point touches money; everything downstream stores and compares
// integer cents.
func DollarsToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatCents renders integer cents as a dollar string, e.g. 49900 -> "$499.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
