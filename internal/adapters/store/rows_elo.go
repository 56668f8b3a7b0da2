package store

import (
	"time"

	"github.com/veldt/rerate/internal/domain/elo"
)

// EloSystemsTable holds the metadata rows for every Elo combination.
const EloSystemsTable = "elo_systems"

// EloSystemIDColumn is the events-table foreign key into EloSystemsTable.
const EloSystemIDColumn = "elo_system_id"

// TeamEloRow is one persisted team Elo map event.
type TeamEloRow struct {
	ID             uint      `gorm:"primaryKey"`
	EloSystemID    uint      `gorm:"not null;uniqueIndex:uq_team_elo_system_team_map,priority:1;index:idx_team_elo_system_team_event,priority:1"`
	TeamID         int64     `gorm:"not null;uniqueIndex:uq_team_elo_system_team_map,priority:2;index:idx_team_elo_system_team_event,priority:2"`
	OpponentTeamID int64     `gorm:"not null"`
	MatchID        int64     `gorm:"not null;index:idx_team_elo_match"`
	MapID          int64     `gorm:"not null;uniqueIndex:uq_team_elo_system_team_map,priority:3;index:idx_team_elo_system_team_event,priority:4"`
	MapNumber      int       `gorm:"not null"`
	EventTime      time.Time `gorm:"not null;index:idx_team_elo_system_team_event,priority:3"`
	Won            bool      `gorm:"not null"`
	ActualScore    float64   `gorm:"not null;check:ck_team_elo_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore  float64   `gorm:"not null;check:ck_team_elo_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreElo         float64   `gorm:"not null"`
	EloDelta       float64   `gorm:"not null"`
	PostElo        float64   `gorm:"not null"`
	KFactor        float64   `gorm:"not null"`
	ScaleFactor    float64   `gorm:"not null"`
	InitialElo     float64   `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName implements the gorm naming override.
func (TeamEloRow) TableName() string { return "team_elo" }

// TeamEloRows converts calculator events to persistable rows.
func TeamEloRows(systemID uint, events []elo.TeamEvent) []TeamEloRow {
	rows := make([]TeamEloRow, len(events))
	for i, e := range events {
		rows[i] = TeamEloRow{
			EloSystemID:    systemID,
			TeamID:         e.TeamID,
			OpponentTeamID: e.OpponentTeamID,
			MatchID:        e.MatchID,
			MapID:          e.MapID,
			MapNumber:      e.MapNumber,
			EventTime:      e.EventTime,
			Won:            e.Won,
			ActualScore:    e.ActualScore,
			ExpectedScore:  e.ExpectedScore,
			PreElo:         e.PreRating,
			EloDelta:       e.Delta,
			PostElo:        e.PostRating,
			KFactor:        e.KFactor,
			ScaleFactor:    e.ScaleFactor,
			InitialElo:     e.InitialRating,
		}
	}
	return rows
}

// TeamMatchEloRow is one persisted team Elo match event.
type TeamMatchEloRow struct {
	ID              uint      `gorm:"primaryKey"`
	EloSystemID     uint      `gorm:"not null;uniqueIndex:uq_team_match_elo_system_team_match,priority:1;index:idx_team_match_elo_system_team_event,priority:1"`
	TeamID          int64     `gorm:"not null;uniqueIndex:uq_team_match_elo_system_team_match,priority:2;index:idx_team_match_elo_system_team_event,priority:2"`
	OpponentTeamID  int64     `gorm:"not null"`
	MatchID         int64     `gorm:"not null;uniqueIndex:uq_team_match_elo_system_team_match,priority:3"`
	EventTime       time.Time `gorm:"not null;index:idx_team_match_elo_system_team_event,priority:3"`
	Won             bool      `gorm:"not null"`
	ActualScore     float64   `gorm:"not null;check:ck_team_match_elo_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore   float64   `gorm:"not null;check:ck_team_match_elo_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreElo          float64   `gorm:"not null"`
	EloDelta        float64   `gorm:"not null"`
	PostElo         float64   `gorm:"not null"`
	TeamMapsWon     int       `gorm:"not null"`
	OpponentMapsWon int       `gorm:"not null"`
	KFactor         float64   `gorm:"not null"`
	ScaleFactor     float64   `gorm:"not null"`
	InitialElo      float64   `gorm:"not null"`
	CreatedAt       time.Time
}

// TableName implements the gorm naming override.
func (TeamMatchEloRow) TableName() string { return "team_match_elo" }

// TeamMatchEloRows converts calculator events to persistable rows.
func TeamMatchEloRows(systemID uint, events []elo.TeamMatchEvent) []TeamMatchEloRow {
	rows := make([]TeamMatchEloRow, len(events))
	for i, e := range events {
		rows[i] = TeamMatchEloRow{
			EloSystemID:     systemID,
			TeamID:          e.TeamID,
			OpponentTeamID:  e.OpponentTeamID,
			MatchID:         e.MatchID,
			EventTime:       e.EventTime,
			Won:             e.Won,
			ActualScore:     e.ActualScore,
			ExpectedScore:   e.ExpectedScore,
			PreElo:          e.PreRating,
			EloDelta:        e.Delta,
			PostElo:         e.PostRating,
			TeamMapsWon:     e.TeamMapsWon,
			OpponentMapsWon: e.OpponentMapsWon,
			KFactor:         e.KFactor,
			ScaleFactor:     e.ScaleFactor,
			InitialElo:      e.InitialRating,
		}
	}
	return rows
}

// TeamMapEloRow is one persisted map-specific team Elo event.
type TeamMapEloRow struct {
	ID                uint      `gorm:"primaryKey"`
	EloSystemID       uint      `gorm:"not null;uniqueIndex:uq_team_map_elo_system_team_map,priority:1;index:idx_team_map_elo_system_team_event,priority:1;index:idx_team_map_elo_map_name,priority:1"`
	TeamID            int64     `gorm:"not null;uniqueIndex:uq_team_map_elo_system_team_map,priority:2;index:idx_team_map_elo_system_team_event,priority:2"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_team_map_elo_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_team_map_elo_system_team_map,priority:3;index:idx_team_map_elo_system_team_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	MapName           string    `gorm:"size:64;not null;index:idx_team_map_elo_map_name,priority:2"`
	EventTime         time.Time `gorm:"not null;index:idx_team_map_elo_system_team_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_team_map_elo_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_team_map_elo_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreGlobalElo      float64   `gorm:"not null"`
	PreMapElo         float64   `gorm:"not null"`
	PreEffectiveElo   float64   `gorm:"not null"`
	EloDelta          float64   `gorm:"not null"`
	PostGlobalElo     float64   `gorm:"not null"`
	PostMapElo        float64   `gorm:"not null"`
	PostEffectiveElo  float64   `gorm:"not null;index:idx_team_map_elo_map_name,priority:3"`
	MapGamesPlayedPre int       `gorm:"not null;check:ck_team_map_elo_games_pre,map_games_played_pre >= 0"`
	MapBlendWeight    float64   `gorm:"not null;check:ck_team_map_elo_blend_weight,map_blend_weight >= 0.0 AND map_blend_weight <= 1.0"`
	KFactor           float64   `gorm:"not null"`
	ScaleFactor       float64   `gorm:"not null"`
	InitialElo        float64   `gorm:"not null"`
	MapPriorGames     float64   `gorm:"not null;check:ck_team_map_elo_map_prior_games,map_prior_games > 0.0"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (TeamMapEloRow) TableName() string { return "team_map_elo" }

// TeamMapEloRows converts calculator events to persistable rows.
func TeamMapEloRows(systemID uint, events []elo.TeamMapEvent) []TeamMapEloRow {
	rows := make([]TeamMapEloRow, len(events))
	for i, e := range events {
		rows[i] = TeamMapEloRow{
			EloSystemID:       systemID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			MapID:             e.MapID,
			MapNumber:         e.MapNumber,
			MapName:           e.MapName,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreGlobalElo:      e.PreGlobalRating,
			PreMapElo:         e.PreMapRating,
			PreEffectiveElo:   e.PreEffectiveRating,
			EloDelta:          e.Delta,
			PostGlobalElo:     e.PostGlobalRating,
			PostMapElo:        e.PostMapRating,
			PostEffectiveElo:  e.PostEffective,
			MapGamesPlayedPre: e.MapGamesPlayedPre,
			MapBlendWeight:    e.MapBlendWeight,
			KFactor:           e.KFactor,
			ScaleFactor:       e.ScaleFactor,
			InitialElo:        e.InitialRating,
			MapPriorGames:     e.MapPriorGames,
		}
	}
	return rows
}

// PlayerEloRow is one persisted player Elo map event.
type PlayerEloRow struct {
	ID             uint      `gorm:"primaryKey"`
	EloSystemID    uint      `gorm:"not null;uniqueIndex:uq_player_elo_system_player_map,priority:1;index:idx_player_elo_system_player_event,priority:1"`
	PlayerID       int64     `gorm:"not null;uniqueIndex:uq_player_elo_system_player_map,priority:2;index:idx_player_elo_system_player_event,priority:2"`
	TeamID         int64     `gorm:"not null"`
	OpponentTeamID int64     `gorm:"not null"`
	MatchID        int64     `gorm:"not null;index:idx_player_elo_match"`
	MapID          int64     `gorm:"not null;uniqueIndex:uq_player_elo_system_player_map,priority:3;index:idx_player_elo_system_player_event,priority:4"`
	MapNumber      int       `gorm:"not null"`
	EventTime      time.Time `gorm:"not null;index:idx_player_elo_system_player_event,priority:3"`
	Won            bool      `gorm:"not null"`
	ActualScore    float64   `gorm:"not null;check:ck_player_elo_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore  float64   `gorm:"not null;check:ck_player_elo_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreElo         float64   `gorm:"not null"`
	EloDelta       float64   `gorm:"not null"`
	PostElo        float64   `gorm:"not null"`
	KFactor        float64   `gorm:"not null"`
	ScaleFactor    float64   `gorm:"not null"`
	InitialElo     float64   `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName implements the gorm naming override.
func (PlayerEloRow) TableName() string { return "player_elo" }

// PlayerEloRows converts calculator events to persistable rows.
func PlayerEloRows(systemID uint, events []elo.PlayerEvent) []PlayerEloRow {
	rows := make([]PlayerEloRow, len(events))
	for i, e := range events {
		rows[i] = PlayerEloRow{
			EloSystemID:    systemID,
			PlayerID:       e.PlayerID,
			TeamID:         e.TeamID,
			OpponentTeamID: e.OpponentTeamID,
			MatchID:        e.MatchID,
			MapID:          e.MapID,
			MapNumber:      e.MapNumber,
			EventTime:      e.EventTime,
			Won:            e.Won,
			ActualScore:    e.ActualScore,
			ExpectedScore:  e.ExpectedScore,
			PreElo:         e.PreRating,
			EloDelta:       e.Delta,
			PostElo:        e.PostRating,
			KFactor:        e.KFactor,
			ScaleFactor:    e.ScaleFactor,
			InitialElo:     e.InitialRating,
		}
	}
	return rows
}

// PlayerMapEloRow is one persisted map-specific player Elo event.
type PlayerMapEloRow struct {
	ID                uint      `gorm:"primaryKey"`
	EloSystemID       uint      `gorm:"not null;uniqueIndex:uq_player_map_elo_system_player_map,priority:1;index:idx_player_map_elo_system_player_event,priority:1"`
	PlayerID          int64     `gorm:"not null;uniqueIndex:uq_player_map_elo_system_player_map,priority:2;index:idx_player_map_elo_system_player_event,priority:2"`
	TeamID            int64     `gorm:"not null"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_player_map_elo_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_player_map_elo_system_player_map,priority:3;index:idx_player_map_elo_system_player_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	MapName           string    `gorm:"size:64;not null"`
	EventTime         time.Time `gorm:"not null;index:idx_player_map_elo_system_player_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_player_map_elo_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_player_map_elo_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreGlobalElo      float64   `gorm:"not null"`
	PreMapElo         float64   `gorm:"not null"`
	PreEffectiveElo   float64   `gorm:"not null"`
	EloDelta          float64   `gorm:"not null"`
	PostGlobalElo     float64   `gorm:"not null"`
	PostMapElo        float64   `gorm:"not null"`
	PostEffectiveElo  float64   `gorm:"not null"`
	MapGamesPlayedPre int       `gorm:"not null;check:ck_player_map_elo_games_pre,map_games_played_pre >= 0"`
	MapBlendWeight    float64   `gorm:"not null;check:ck_player_map_elo_blend_weight,map_blend_weight >= 0.0 AND map_blend_weight <= 1.0"`
	KFactor           float64   `gorm:"not null"`
	ScaleFactor       float64   `gorm:"not null"`
	InitialElo        float64   `gorm:"not null"`
	MapPriorGames     float64   `gorm:"not null;check:ck_player_map_elo_map_prior_games,map_prior_games > 0.0"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (PlayerMapEloRow) TableName() string { return "player_map_elo" }

// PlayerMapEloRows converts calculator events to persistable rows.
func PlayerMapEloRows(systemID uint, events []elo.PlayerMapEvent) []PlayerMapEloRow {
	rows := make([]PlayerMapEloRow, len(events))
	for i, e := range events {
		rows[i] = PlayerMapEloRow{
			EloSystemID:       systemID,
			PlayerID:          e.PlayerID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			MapID:             e.MapID,
			MapNumber:         e.MapNumber,
			MapName:           e.MapName,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreGlobalElo:      e.PreGlobalRating,
			PreMapElo:         e.PreMapRating,
			PreEffectiveElo:   e.PreEffectiveRating,
			EloDelta:          e.Delta,
			PostGlobalElo:     e.PostGlobalRating,
			PostMapElo:        e.PostMapRating,
			PostEffectiveElo:  e.PostEffective,
			MapGamesPlayedPre: e.MapGamesPlayedPre,
			MapBlendWeight:    e.MapBlendWeight,
			KFactor:           e.KFactor,
			ScaleFactor:       e.ScaleFactor,
			InitialElo:        e.InitialRating,
			MapPriorGames:     e.MapPriorGames,
		}
	}
	return rows
}
