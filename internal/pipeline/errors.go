package pipeline

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrRebuild = errors.New("rebuild failed")
)

// errDryRunRollback aborts the rebuild transaction after a dry run counted
// everything it needed.
var errDryRunRollback = errors.New("dry run rollback")
