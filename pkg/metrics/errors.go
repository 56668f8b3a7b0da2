package metrics

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrWriteMetrics = errors.New("metrics write failed")
)
