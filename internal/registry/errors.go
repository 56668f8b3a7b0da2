package registry

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDuplicateKey      = errors.New("duplicate registry key")
	ErrUnknownKey        = errors.New("unknown registry key")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)
