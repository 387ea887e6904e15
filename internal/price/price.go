// Package price normalizes scraped fare amounts: it strips currency markers,
// parses them as integers, and renders them with Indian digit grouping.
package price

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// amountCleaner removes the rupee symbol (both the raw rune and the literal
// backslash-u20b9 escape text that Windows-hosted scrapers emit), thousands
// separators and whitespace.
var amountCleaner = strings.NewReplacer(
	"₹", "",
	`\u20b9`, "",
	",", "",
	" ", "",
	"\t", "",
)

// ParseAmount converts a scraped amount string such as "₹1,23,456" into its
// integer value. It returns an error if nothing numeric remains after
// stripping currency markers.
func ParseAmount(raw string) (int64, error) {
	cleaned := amountCleaner.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in amount %q", raw)
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return n, nil
}

// FormatIndian renders a non-negative integer with Indian digit grouping:
// the rightmost group has 3 digits, every group above it has 2.
// 8338 -> "8,338", 123456 -> "1,23,456", 12345678 -> "1,23,45,678".
func FormatIndian(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 || len(s) <= 3 {
		return s
	}

	head := s[:len(s)-3]
	out := s[len(s)-3:]
	for len(head) > 2 {
		out = head[len(head)-2:] + "," + out
		head = head[:len(head)-2]
	}
	return head + "," + out
}

// Convert applies a fixed exchange rate to a foreign-currency amount and
// rounds to the nearest whole rupee.
func Convert(amount, rate float64) int64 {
	return int64(math.Round(amount * rate))
}
