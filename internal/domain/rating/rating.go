// Package rating holds the axes, validation rules, and blending helpers
// shared by every rating algorithm.
package rating

import (
	"fmt"

	"github.com/veldt/rerate/internal/domain/result"
)

// Algorithm identifies one rating model.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmElo       Algorithm = "elo"
	AlgorithmGlicko2   Algorithm = "glicko2"
	AlgorithmOpenSkill Algorithm = "openskill"
)

// Granularity is the unit of replay.
type Granularity string

// Supported granularities.
const (
	GranularityMap         Granularity = "map"
	GranularityMatch       Granularity = "match"
	GranularityMapSpecific Granularity = "map_specific"
)

// Subject is the rated entity kind.
type Subject string

// Supported subjects.
const (
	SubjectTeam   Subject = "team"
	SubjectPlayer Subject = "player"
)

// ValidateTeamMap rejects malformed team map results.
func ValidateTeamMap(r result.TeamMapResult) error {
	if r.Team1ID == r.Team2ID {
		return fmt.Errorf("%w: map_id=%d has identical teams (%d)", ErrIdenticalSides, r.MapID, r.Team1ID)
	}
	if r.WinnerID != r.Team1ID && r.WinnerID != r.Team2ID {
		return fmt.Errorf("%w: winner_id=%d does not belong to map teams %d/%d for map_id=%d",
			ErrForeignWinner, r.WinnerID, r.Team1ID, r.Team2ID, r.MapID)
	}
	return nil
}

// ValidateTeamMatch rejects malformed team match results.
func ValidateTeamMatch(r result.TeamMatchResult) error {
	if r.Team1ID == r.Team2ID {
		return fmt.Errorf("%w: match_id=%d has identical teams (%d)", ErrIdenticalSides, r.MatchID, r.Team1ID)
	}
	if r.WinnerID != r.Team1ID && r.WinnerID != r.Team2ID {
		return fmt.Errorf("%w: winner_id=%d does not belong to match teams %d/%d for match_id=%d",
			ErrForeignWinner, r.WinnerID, r.Team1ID, r.Team2ID, r.MatchID)
	}
	return nil
}

// ValidatePlayerMap rejects malformed player map results.
func ValidatePlayerMap(r result.PlayerMapResult) error {
	if err := ValidateTeamMap(r.TeamProxy()); err != nil {
		return err
	}
	if len(r.Team1Players) == 0 || len(r.Team2Players) == 0 {
		return fmt.Errorf("%w: map_id=%d is missing players for one or both teams", ErrMissingPlayers, r.MapID)
	}
	return nil
}

// ValidatePlayerMatch rejects malformed player match results.
func ValidatePlayerMatch(r result.PlayerMatchResult) error {
	if err := ValidateTeamMatch(r.TeamProxy()); err != nil {
		return err
	}
	if len(r.Team1Players) == 0 || len(r.Team2Players) == 0 {
		return fmt.Errorf("%w: match_id=%d is missing players for one or both teams", ErrMissingPlayers, r.MatchID)
	}
	return nil
}

// Actual maps a win/loss flag to the 1/0 score convention.
func Actual(won bool) float64 {
	if won {
		return 1.0
	}
	return 0.0
}
