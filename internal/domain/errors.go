package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedSymbol = errors.New("unsupported symbol")
)
