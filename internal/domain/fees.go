package domain

import "strings"

// FeeTable maps an uppercase exchange name to its taker fee rate in [0,1).
type FeeTable map[string]float64

// Rate returns the fee for an exchange; unknown exchanges trade free.
func (t FeeTable) Rate(exchange string) float64 {
	return t[strings.ToUpper(exchange)]
}

// DefaultFees carries the rates of the four exchanges polled by default.
func DefaultFees() FeeTable {
	return FeeTable{
		"BINANCE": 0.001,
		"KRAKEN":  0.0026,
		"MEXC":    0.001,
		"GATE":    0.002,
	}
}
