package source

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrFetch      = errors.New("result fetch failed")
	ErrInvalidRow = errors.New("invalid result row")
)
