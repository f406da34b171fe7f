package order

import "errors"

// ErrNoDishes is returned when the dish text holds nothing but separators.
var ErrNoDishes = errors.New("order must contain at least one dish")
