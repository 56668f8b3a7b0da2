// Package source reads finished matches out of the canonical HLTV-shaped
// tables (matches, maps, events, map_player_stats) and shapes them into the
// ordered result slices the calculators replay. All queries resolve the event
// time as COALESCE(date, updated_at, created_at) and order deterministically
// by (event_time, match_id, map_number, map_id) so a rebuild is repeatable.
package source

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/domain/result"
)

// eventTimeExpr resolves one match's event time from the first populated
// timestamp column.
const eventTimeExpr = "COALESCE(m.date, m.updated_at, m.created_at)"

// filteredMapsCTE selects finished maps with a winner belonging to one of
// the two match teams. The %s slot takes the optional lookback condition.
const filteredMapsCTE = `
WITH filtered_maps AS (
	SELECT
		m.id AS match_id,
		mp.id AS map_id,
		mp.map_name AS map_name,
		mp.map_number AS map_number,
		` + eventTimeExpr + ` AS event_time,
		m.team1_id AS team1_id,
		m.team2_id AS team2_id,
		mp.winner_id AS winner_id,
		mp.score_team1 AS team1_score,
		mp.score_team2 AS team2_score,
		COALESCE(e.lan, FALSE) AS is_lan,
		m.format AS match_format
	FROM maps mp
	JOIN matches m ON mp.match_id = m.id
	LEFT JOIN events e ON m.event_id = e.id
	WHERE m.status = 'FINISHED'
		AND mp.winner_id IS NOT NULL
		AND (mp.winner_id = m.team1_id OR mp.winner_id = m.team2_id)
		%s
)`

// decisiveMatchesCTE aggregates finished maps into matches and keeps only
// matches with unequal map wins. The %s slot takes the optional lookback
// condition.
const decisiveMatchesCTE = `
WITH decisive_matches AS (
	SELECT
		m.id AS match_id,
		` + eventTimeExpr + ` AS event_time,
		m.team1_id AS team1_id,
		m.team2_id AS team2_id,
		SUM(CASE WHEN mp.winner_id = m.team1_id THEN 1 ELSE 0 END) AS team1_maps_won,
		SUM(CASE WHEN mp.winner_id = m.team2_id THEN 1 ELSE 0 END) AS team2_maps_won,
		COALESCE(e.lan, FALSE) AS is_lan,
		m.format AS match_format
	FROM matches m
	JOIN maps mp ON mp.match_id = m.id
	LEFT JOIN events e ON m.event_id = e.id
	WHERE m.status = 'FINISHED'
		AND mp.winner_id IS NOT NULL
		AND (mp.winner_id = m.team1_id OR mp.winner_id = m.team2_id)
		%s
	GROUP BY m.id, ` + eventTimeExpr + `, m.team1_id, m.team2_id, e.lan, m.format
	HAVING SUM(CASE WHEN mp.winner_id = m.team1_id THEN 1 ELSE 0 END)
		<> SUM(CASE WHEN mp.winner_id = m.team2_id THEN 1 ELSE 0 END)
)`

// lookbackCondition returns the cutoff SQL fragment and its arguments.
// Non-positive lookback means no cutoff.
func lookbackCondition(lookbackDays int) (string, []any) {
	if lookbackDays <= 0 {
		return "", nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -lookbackDays)
	return "AND " + eventTimeExpr + " >= ?", []any{cutoff}
}

type teamMapRow struct {
	MatchID      int64
	MapID        int64
	MapName      string
	MapNumber    int
	EventTime    time.Time
	Team1ID      int64
	Team2ID      int64
	WinnerID     int64
	Team1Score   *int
	Team2Score   *int
	Team1KDRatio *float64
	Team2KDRatio *float64
	IsLAN        bool `gorm:"column:is_lan"`
	MatchFormat  string
}

// FetchTeamMapResults returns finished map outcomes in chronological order.
// The side KD ratios aggregate the map_player_stats kill and death sums.
func FetchTeamMapResults(db *gorm.DB, lookbackDays int) ([]result.TeamMapResult, error) {
	condition, args := lookbackCondition(lookbackDays)
	query := fmt.Sprintf(filteredMapsCTE, condition) + `
SELECT
	fm.match_id,
	fm.map_id,
	fm.map_name,
	fm.map_number,
	fm.event_time,
	fm.team1_id,
	fm.team2_id,
	fm.winner_id,
	fm.team1_score,
	fm.team2_score,
	CAST(SUM(CASE WHEN s.team_id = fm.team1_id THEN s.kills ELSE 0 END) AS FLOAT)
		/ NULLIF(CAST(SUM(CASE WHEN s.team_id = fm.team1_id THEN s.deaths ELSE 0 END) AS FLOAT), 0.0) AS team1_kd_ratio,
	CAST(SUM(CASE WHEN s.team_id = fm.team2_id THEN s.kills ELSE 0 END) AS FLOAT)
		/ NULLIF(CAST(SUM(CASE WHEN s.team_id = fm.team2_id THEN s.deaths ELSE 0 END) AS FLOAT), 0.0) AS team2_kd_ratio,
	fm.is_lan,
	fm.match_format
FROM filtered_maps fm
LEFT JOIN map_player_stats s ON s.map_id = fm.map_id
GROUP BY
	fm.match_id, fm.map_id, fm.map_name, fm.map_number, fm.event_time,
	fm.team1_id, fm.team2_id, fm.winner_id, fm.team1_score, fm.team2_score,
	fm.is_lan, fm.match_format
ORDER BY fm.event_time, fm.match_id, fm.map_number, fm.map_id`

	var rows []teamMapRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: team map results: %v", ErrFetch, err)
	}

	results := make([]result.TeamMapResult, 0, len(rows))
	for _, row := range rows {
		if row.EventTime.IsZero() {
			return nil, fmt.Errorf("%w: map %d has no event time", ErrInvalidRow, row.MapID)
		}
		results = append(results, result.TeamMapResult{
			MatchID:      row.MatchID,
			MapID:        row.MapID,
			MapNumber:    row.MapNumber,
			EventTime:    row.EventTime,
			Team1ID:      row.Team1ID,
			Team2ID:      row.Team2ID,
			WinnerID:     row.WinnerID,
			MapName:      row.MapName,
			Team1Score:   row.Team1Score,
			Team2Score:   row.Team2Score,
			Team1KDRatio: row.Team1KDRatio,
			Team2KDRatio: row.Team2KDRatio,
			IsLAN:        row.IsLAN,
			MatchFormat:  row.MatchFormat,
		})
	}
	return results, nil
}

type teamMatchRow struct {
	MatchID      int64
	EventTime    time.Time
	Team1ID      int64
	Team2ID      int64
	Team1MapsWon int
	Team2MapsWon int
	IsLAN        bool `gorm:"column:is_lan"`
	MatchFormat  string
}

// FetchTeamMatchResults returns decisive match outcomes in chronological
// order. Matches with equal map wins are dropped.
func FetchTeamMatchResults(db *gorm.DB, lookbackDays int) ([]result.TeamMatchResult, error) {
	condition, args := lookbackCondition(lookbackDays)
	query := fmt.Sprintf(decisiveMatchesCTE, condition) + `
SELECT * FROM decisive_matches ORDER BY event_time, match_id`

	var rows []teamMatchRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: team match results: %v", ErrFetch, err)
	}

	results := make([]result.TeamMatchResult, 0, len(rows))
	for _, row := range rows {
		if row.EventTime.IsZero() {
			return nil, fmt.Errorf("%w: match %d has no event time", ErrInvalidRow, row.MatchID)
		}
		winnerID := row.Team1ID
		if row.Team2MapsWon > row.Team1MapsWon {
			winnerID = row.Team2ID
		}
		results = append(results, result.TeamMatchResult{
			MatchID:      row.MatchID,
			EventTime:    row.EventTime,
			Team1ID:      row.Team1ID,
			Team2ID:      row.Team2ID,
			WinnerID:     winnerID,
			Team1MapsWon: row.Team1MapsWon,
			Team2MapsWon: row.Team2MapsWon,
			IsLAN:        row.IsLAN,
			MatchFormat:  row.MatchFormat,
		})
	}
	return results, nil
}

type playerMapRow struct {
	MatchID     int64
	MapID       int64
	MapName     string
	MapNumber   int
	EventTime   time.Time
	Team1ID     int64
	Team2ID     int64
	WinnerID    int64
	Team1Score  *int
	Team2Score  *int
	IsLAN       bool `gorm:"column:is_lan"`
	MatchFormat string
	PlayerID    int64
	TeamID      int64
	Kills       *int
	Deaths      *int
	ADR         *float64
	KAST        *float64
	Rating      *float64
	Swing       *float64
}

// FetchPlayerMapResults returns finished map outcomes with both rosters in
// chronological order. Maps missing either roster are dropped. Only the
// side-combined ("BOTH") stat lines count.
func FetchPlayerMapResults(db *gorm.DB, lookbackDays int) ([]result.PlayerMapResult, error) {
	condition, args := lookbackCondition(lookbackDays)
	query := fmt.Sprintf(filteredMapsCTE, condition) + `
SELECT
	fm.match_id,
	fm.map_id,
	fm.map_name,
	fm.map_number,
	fm.event_time,
	fm.team1_id,
	fm.team2_id,
	fm.winner_id,
	fm.team1_score,
	fm.team2_score,
	fm.is_lan,
	fm.match_format,
	s.player_id,
	s.team_id,
	s.kills,
	s.deaths,
	s.adr,
	s.kast,
	s.rating,
	s.swing
FROM filtered_maps fm
JOIN map_player_stats s ON s.map_id = fm.map_id
WHERE s.player_id IS NOT NULL
	AND s.side = 'BOTH'
	AND (s.team_id = fm.team1_id OR s.team_id = fm.team2_id)
ORDER BY fm.event_time, fm.match_id, fm.map_number, fm.map_id, s.team_id, s.player_id`

	var rows []playerMapRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: player map results: %v", ErrFetch, err)
	}

	var results []result.PlayerMapResult
	var current *result.PlayerMapResult
	flush := func() {
		if current != nil && len(current.Team1Players) > 0 && len(current.Team2Players) > 0 {
			current.Team1KDRatio = rosterKDRatio(current.Team1Players)
			current.Team2KDRatio = rosterKDRatio(current.Team2Players)
			results = append(results, *current)
		}
	}
	for _, row := range rows {
		if row.EventTime.IsZero() {
			return nil, fmt.Errorf("%w: map %d has no event time", ErrInvalidRow, row.MapID)
		}
		if current == nil || current.MapID != row.MapID {
			flush()
			current = &result.PlayerMapResult{
				MatchID:     row.MatchID,
				MapID:       row.MapID,
				MapNumber:   row.MapNumber,
				EventTime:   row.EventTime,
				Team1ID:     row.Team1ID,
				Team2ID:     row.Team2ID,
				WinnerID:    row.WinnerID,
				MapName:     row.MapName,
				Team1Score:  row.Team1Score,
				Team2Score:  row.Team2Score,
				IsLAN:       row.IsLAN,
				MatchFormat: row.MatchFormat,
			}
		}
		participant := result.PlayerMapParticipant{
			PlayerID: row.PlayerID,
			TeamID:   row.TeamID,
			Kills:    row.Kills,
			Deaths:   row.Deaths,
			ADR:      row.ADR,
			KAST:     row.KAST,
			Rating:   row.Rating,
			Swing:    row.Swing,
		}
		if row.TeamID == current.Team1ID {
			current.Team1Players = append(current.Team1Players, participant)
		} else {
			current.Team2Players = append(current.Team2Players, participant)
		}
	}
	flush()
	return results, nil
}

// rosterKDRatio sums one roster's kills and deaths. Nil when no participant
// has both counts or the deaths sum to zero.
func rosterKDRatio(players []result.PlayerMapParticipant) *float64 {
	kills, deaths := 0, 0
	for _, p := range players {
		if p.Kills == nil || p.Deaths == nil {
			continue
		}
		kills += *p.Kills
		deaths += *p.Deaths
	}
	if deaths <= 0 {
		return nil
	}
	ratio := float64(kills) / float64(deaths)
	return &ratio
}

type playerMatchRow struct {
	MatchID      int64
	EventTime    time.Time
	Team1ID      int64
	Team2ID      int64
	Team1MapsWon int
	Team2MapsWon int
	IsLAN        bool `gorm:"column:is_lan"`
	MatchFormat  string
	PlayerID     int64
	TeamID       int64
	MapsPlayed   int
	Kills        *int
	Deaths       *int
	ADR          *float64
	KAST         *float64
	Rating       *float64
	Swing        *float64
}

// FetchPlayerMatchResults returns decisive match outcomes with both rosters
// in chronological order. Per-player stat lines aggregate across the maps of
// one match; matches missing either roster are dropped.
func FetchPlayerMatchResults(db *gorm.DB, lookbackDays int) ([]result.PlayerMatchResult, error) {
	condition, args := lookbackCondition(lookbackDays)
	query := fmt.Sprintf(decisiveMatchesCTE, condition) + `
SELECT
	dm.match_id,
	dm.event_time,
	dm.team1_id,
	dm.team2_id,
	dm.team1_maps_won,
	dm.team2_maps_won,
	dm.is_lan,
	dm.match_format,
	s.player_id,
	s.team_id,
	COUNT(DISTINCT mp.id) AS maps_played,
	SUM(s.kills) AS kills,
	SUM(s.deaths) AS deaths,
	AVG(CAST(s.adr AS FLOAT)) AS adr,
	AVG(CAST(s.kast AS FLOAT)) AS kast,
	AVG(CAST(s.rating AS FLOAT)) AS rating,
	SUM(CAST(s.swing AS FLOAT)) AS swing
FROM decisive_matches dm
JOIN maps mp ON mp.match_id = dm.match_id
JOIN map_player_stats s ON s.map_id = mp.id
WHERE s.player_id IS NOT NULL
	AND s.side = 'BOTH'
	AND (s.team_id = dm.team1_id OR s.team_id = dm.team2_id)
GROUP BY
	dm.match_id, dm.event_time, dm.team1_id, dm.team2_id,
	dm.team1_maps_won, dm.team2_maps_won, dm.is_lan, dm.match_format,
	s.player_id, s.team_id
ORDER BY dm.event_time, dm.match_id, s.team_id, s.player_id`

	var rows []playerMatchRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: player match results: %v", ErrFetch, err)
	}

	var results []result.PlayerMatchResult
	var current *result.PlayerMatchResult
	flush := func() {
		if current != nil && len(current.Team1Players) > 0 && len(current.Team2Players) > 0 {
			results = append(results, *current)
		}
	}
	for _, row := range rows {
		if row.EventTime.IsZero() {
			return nil, fmt.Errorf("%w: match %d has no event time", ErrInvalidRow, row.MatchID)
		}
		if current == nil || current.MatchID != row.MatchID {
			flush()
			winnerID := row.Team1ID
			if row.Team2MapsWon > row.Team1MapsWon {
				winnerID = row.Team2ID
			}
			current = &result.PlayerMatchResult{
				MatchID:      row.MatchID,
				EventTime:    row.EventTime,
				Team1ID:      row.Team1ID,
				Team2ID:      row.Team2ID,
				WinnerID:     winnerID,
				Team1MapsWon: row.Team1MapsWon,
				Team2MapsWon: row.Team2MapsWon,
				IsLAN:        row.IsLAN,
				MatchFormat:  row.MatchFormat,
			}
		}
		participant := result.PlayerMatchParticipant{
			PlayerID:   row.PlayerID,
			TeamID:     row.TeamID,
			MapsPlayed: row.MapsPlayed,
			Kills:      row.Kills,
			Deaths:     row.Deaths,
			ADR:        row.ADR,
			KAST:       row.KAST,
			Rating:     row.Rating,
			Swing:      row.Swing,
		}
		if row.TeamID == current.Team1ID {
			current.Team1Players = append(current.Team1Players, participant)
		} else {
			current.Team2Players = append(current.Team2Players, participant)
		}
	}
	flush()
	return results, nil
}
