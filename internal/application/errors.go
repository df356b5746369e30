package application

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidQuote = errors.New("invalid quote")
)
