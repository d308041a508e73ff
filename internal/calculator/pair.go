package calculator

import "strings"

// ParsePair splits a "BASE/QUOTE" symbol into its two units.
func ParsePair(symbol string) (base, quote string, err error) {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 {
		return "", "", configErrorf("pair %q is not of the form BASE/QUOTE", symbol)
	}
	base, quote = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if base == "" || quote == "" {
		return "", "", configErrorf("pair %q has an empty unit", symbol)
	}
	if base == quote {
		return "", "", configErrorf("pair %q quotes a unit against itself", symbol)
	}
	return base, quote, nil
}
