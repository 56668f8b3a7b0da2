package rating

import "errors"

var (
	// ErrIdenticalSides is returned when both sides of a result are the same entity.
	ErrIdenticalSides = errors.New("identical sides")
	// ErrForeignWinner is returned when the winner is neither side of the result.
	ErrForeignWinner = errors.New("winner not a participant")
	// ErrMissingPlayers is returned when a player-level result has an empty roster.
	ErrMissingPlayers = errors.New("missing players")
)
