// Package result contains the immutable outcome payloads fed into rating
// calculators. Fields mirror the canonical rows produced by the result source.
package result

import "time"

// TeamMapResult describes one finished map between two teams.
type TeamMapResult struct {
	MatchID   int64
	MapID     int64
	MapNumber int
	EventTime time.Time
	Team1ID   int64
	Team2ID   int64
	WinnerID  int64
	MapName   string // empty when unknown
	// Optional context. Nil means the source had no value.
	Team1Score   *int
	Team2Score   *int
	Team1KDRatio *float64
	Team2KDRatio *float64
	IsLAN        bool
	MatchFormat  string // "BO1", "BO3", "BO5" or empty
}

// TeamMatchResult describes one decisive finished match between two teams.
type TeamMatchResult struct {
	MatchID      int64
	EventTime    time.Time
	Team1ID      int64
	Team2ID      int64
	WinnerID     int64
	Team1MapsWon int
	Team2MapsWon int
	IsLAN        bool
	MatchFormat  string
}

// PlayerMapParticipant carries one player's stat line for one map.
type PlayerMapParticipant struct {
	PlayerID int64
	TeamID   int64
	Kills    *int
	Deaths   *int
	ADR      *float64
	KAST     *float64
	Rating   *float64
	Swing    *float64
}

// PlayerMapResult is the player-level analogue of TeamMapResult.
type PlayerMapResult struct {
	MatchID      int64
	MapID        int64
	MapNumber    int
	EventTime    time.Time
	Team1ID      int64
	Team2ID      int64
	WinnerID     int64
	Team1Players []PlayerMapParticipant
	Team2Players []PlayerMapParticipant
	MapName      string
	Team1Score   *int
	Team2Score   *int
	Team1KDRatio *float64
	Team2KDRatio *float64
	IsLAN        bool
	MatchFormat  string
}

// PlayerMatchParticipant carries one player's aggregated stat line for one match.
type PlayerMatchParticipant struct {
	PlayerID   int64
	TeamID     int64
	MapsPlayed int
	Kills      *int
	Deaths     *int
	ADR        *float64
	KAST       *float64
	Rating     *float64
	Swing      *float64
}

// PlayerMatchResult is the player-level analogue of TeamMatchResult.
type PlayerMatchResult struct {
	MatchID      int64
	EventTime    time.Time
	Team1ID      int64
	Team2ID      int64
	WinnerID     int64
	Team1MapsWon int
	Team2MapsWon int
	Team1Players []PlayerMatchParticipant
	Team2Players []PlayerMatchParticipant
	IsLAN        bool
	MatchFormat  string
}

// TeamProxy converts a player map result to its team shape so that
// team-level multiplier logic can be reused unchanged.
func (r PlayerMapResult) TeamProxy() TeamMapResult {
	return TeamMapResult{
		MatchID:      r.MatchID,
		MapID:        r.MapID,
		MapNumber:    r.MapNumber,
		EventTime:    r.EventTime,
		Team1ID:      r.Team1ID,
		Team2ID:      r.Team2ID,
		WinnerID:     r.WinnerID,
		MapName:      r.MapName,
		Team1Score:   r.Team1Score,
		Team2Score:   r.Team2Score,
		Team1KDRatio: r.Team1KDRatio,
		Team2KDRatio: r.Team2KDRatio,
		IsLAN:        r.IsLAN,
		MatchFormat:  r.MatchFormat,
	}
}

// TeamProxy converts a player match result to its team shape.
func (r PlayerMatchResult) TeamProxy() TeamMatchResult {
	return TeamMatchResult{
		MatchID:      r.MatchID,
		EventTime:    r.EventTime,
		Team1ID:      r.Team1ID,
		Team2ID:      r.Team2ID,
		WinnerID:     r.WinnerID,
		Team1MapsWon: r.Team1MapsWon,
		Team2MapsWon: r.Team2MapsWon,
		IsLAN:        r.IsLAN,
		MatchFormat:  r.MatchFormat,
	}
}
