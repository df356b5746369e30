package domain

import (
	"regexp"
	"strings"
)

// Symbols follow the BASE/QUOTE convention used by the exchange tickers,
// e.g. "BTC/USDT".
var symbolRe = regexp.MustCompile(`^[A-Z0-9]{2,10}/[A-Z0-9]{2,10}$`)

func ValidateSymbol(s string) bool {
	if !symbolRe.MatchString(s) {
		return false
	}
	base, quote, _ := strings.Cut(s, "/")
	return base != quote
}

// SplitSymbol returns the base and quote currencies of a valid symbol.
func SplitSymbol(s string) (base, quote string, ok bool) {
	if !ValidateSymbol(s) {
		return "", "", false
	}
	base, quote, _ = strings.Cut(s, "/")
	return base, quote, true
}
