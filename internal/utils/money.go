package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatAmount appends the currency symbol when one is configured.
func FormatAmount(amount float64, symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return FormatMoney(amount)
	}
	return FormatMoney(amount) + " " + symbol
}

// ParseCount reads a raw count field. Empty resolves to zero; a failed parse
// or a negative value clamps to zero. Never returns an error.
func ParseCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseAmount reads a raw price field with the same empty/invalid/negative
// degradation as ParseCount.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
