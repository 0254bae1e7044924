package models

import (
	"strconv"
	"strings"
)

// ParseAmount parses a currency amount that may carry a dollar sign, spaces,
// thousands separators or accounting-style parentheses for negatives.
// Malformed input yields 0 rather than an error; a single bad record must
// degrade to a zero contribution, never abort a whole aggregation pass.
func ParseAmount(v string) float64 {
	clean := strings.TrimSpace(v)
	if clean == "" {
		return 0
	}

	replacer := strings.NewReplacer("$", "", ",", "", " ", "", " ", "")
	clean = replacer.Replace(clean)

	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = "-" + strings.Trim(clean, "()")
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return f
}
