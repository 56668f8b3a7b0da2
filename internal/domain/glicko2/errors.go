package glicko2

import "errors"

// ErrVolatilityNoBracket is returned when the volatility solver cannot
// bracket a root. It signals a parameter or data pathology and aborts the
// rebuild that hit it.
var ErrVolatilityNoBracket = errors.New("volatility solve failed to bracket root")
