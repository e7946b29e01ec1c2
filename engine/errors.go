package engine

import "errors"

var (
	ErrInvalidSymbol       = errors.New("invalid symbol")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOrderNotFound       = errors.New("order not found")
)
