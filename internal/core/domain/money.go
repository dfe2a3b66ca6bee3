package domain

import (
	"errors"
	"strconv"
	"strings"
)

// ParseMoney converts a currency-ish string ("$12,500.00") into a float.
// Currency symbols, thousands separators and surrounding whitespace are
// stripped. An empty value parses as zero; anything else non-numeric is
// an error.
func ParseMoney(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	value = strings.ReplaceAll(value, "$", "")
	value = strings.ReplaceAll(value, ",", "")
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("no digits in money value")
	}
	return strconv.ParseFloat(value, 64)
}
