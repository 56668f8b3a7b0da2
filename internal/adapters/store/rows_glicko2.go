package store

import (
	"time"

	"github.com/veldt/rerate/internal/domain/glicko2"
)

// Glicko2SystemsTable holds the metadata rows for every Glicko-2 combination.
const Glicko2SystemsTable = "glicko2_systems"

// Glicko2SystemIDColumn is the events-table foreign key into Glicko2SystemsTable.
const Glicko2SystemIDColumn = "glicko2_system_id"

// TeamGlicko2Row is one persisted team Glicko-2 map event.
type TeamGlicko2Row struct {
	ID                uint      `gorm:"primaryKey"`
	Glicko2SystemID   uint      `gorm:"not null;uniqueIndex:uq_team_glicko2_system_team_map,priority:1;index:idx_team_glicko2_system_team_event,priority:1"`
	TeamID            int64     `gorm:"not null;uniqueIndex:uq_team_glicko2_system_team_map,priority:2;index:idx_team_glicko2_system_team_event,priority:2"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_team_glicko2_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_team_glicko2_system_team_map,priority:3;index:idx_team_glicko2_system_team_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	EventTime         time.Time `gorm:"not null;index:idx_team_glicko2_system_team_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_team_glicko2_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_team_glicko2_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreRating         float64   `gorm:"not null"`
	PreRD             float64   `gorm:"not null;check:ck_team_glicko2_pre_rd,pre_rd > 0.0"`
	PreVolatility     float64   `gorm:"not null;check:ck_team_glicko2_pre_volatility,pre_volatility > 0.0"`
	RatingDelta       float64   `gorm:"not null"`
	RDDelta           float64   `gorm:"not null"`
	VolatilityDelta   float64   `gorm:"not null"`
	PostRating        float64   `gorm:"not null"`
	PostRD            float64   `gorm:"not null;check:ck_team_glicko2_post_rd,post_rd > 0.0"`
	PostVolatility    float64   `gorm:"not null;check:ck_team_glicko2_post_volatility,post_volatility > 0.0"`
	Tau               float64   `gorm:"not null"`
	RatingPeriodDays  float64   `gorm:"not null"`
	InitialRating     float64   `gorm:"not null"`
	InitialRD         float64   `gorm:"not null"`
	InitialVolatility float64   `gorm:"not null"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (TeamGlicko2Row) TableName() string { return "team_glicko2" }

// TeamGlicko2Rows converts calculator events to persistable rows.
func TeamGlicko2Rows(systemID uint, events []glicko2.TeamEvent) []TeamGlicko2Row {
	rows := make([]TeamGlicko2Row, len(events))
	for i, e := range events {
		rows[i] = TeamGlicko2Row{
			Glicko2SystemID:   systemID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			MapID:             e.MapID,
			MapNumber:         e.MapNumber,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreRating:         e.PreRating,
			PreRD:             e.PreRD,
			PreVolatility:     e.PreVolatility,
			RatingDelta:       e.RatingDelta,
			RDDelta:           e.RDDelta,
			VolatilityDelta:   e.VolatilityDelta,
			PostRating:        e.PostRating,
			PostRD:            e.PostRD,
			PostVolatility:    e.PostVolatility,
			Tau:               e.Tau,
			RatingPeriodDays:  e.RatingPeriodDays,
			InitialRating:     e.InitialRating,
			InitialRD:         e.InitialRD,
			InitialVolatility: e.InitialVolatility,
		}
	}
	return rows
}

// TeamMatchGlicko2Row is one persisted team Glicko-2 match event.
type TeamMatchGlicko2Row struct {
	ID                uint      `gorm:"primaryKey"`
	Glicko2SystemID   uint      `gorm:"not null;uniqueIndex:uq_team_match_glicko2_system_team_match,priority:1;index:idx_team_match_glicko2_system_team_event,priority:1"`
	TeamID            int64     `gorm:"not null;uniqueIndex:uq_team_match_glicko2_system_team_match,priority:2;index:idx_team_match_glicko2_system_team_event,priority:2"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;uniqueIndex:uq_team_match_glicko2_system_team_match,priority:3"`
	EventTime         time.Time `gorm:"not null;index:idx_team_match_glicko2_system_team_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_team_match_glicko2_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_team_match_glicko2_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreRating         float64   `gorm:"not null"`
	PreRD             float64   `gorm:"not null;check:ck_team_match_glicko2_pre_rd,pre_rd > 0.0"`
	PreVolatility     float64   `gorm:"not null;check:ck_team_match_glicko2_pre_volatility,pre_volatility > 0.0"`
	RatingDelta       float64   `gorm:"not null"`
	RDDelta           float64   `gorm:"not null"`
	VolatilityDelta   float64   `gorm:"not null"`
	PostRating        float64   `gorm:"not null"`
	PostRD            float64   `gorm:"not null;check:ck_team_match_glicko2_post_rd,post_rd > 0.0"`
	PostVolatility    float64   `gorm:"not null;check:ck_team_match_glicko2_post_volatility,post_volatility > 0.0"`
	Tau               float64   `gorm:"not null"`
	RatingPeriodDays  float64   `gorm:"not null"`
	InitialRating     float64   `gorm:"not null"`
	InitialRD         float64   `gorm:"not null"`
	InitialVolatility float64   `gorm:"not null"`
	TeamMapsWon       int       `gorm:"not null"`
	OpponentMapsWon   int       `gorm:"not null"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (TeamMatchGlicko2Row) TableName() string { return "team_match_glicko2" }

// TeamMatchGlicko2Rows converts calculator events to persistable rows.
func TeamMatchGlicko2Rows(systemID uint, events []glicko2.TeamMatchEvent) []TeamMatchGlicko2Row {
	rows := make([]TeamMatchGlicko2Row, len(events))
	for i, e := range events {
		rows[i] = TeamMatchGlicko2Row{
			Glicko2SystemID:   systemID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreRating:         e.PreRating,
			PreRD:             e.PreRD,
			PreVolatility:     e.PreVolatility,
			RatingDelta:       e.RatingDelta,
			RDDelta:           e.RDDelta,
			VolatilityDelta:   e.VolatilityDelta,
			PostRating:        e.PostRating,
			PostRD:            e.PostRD,
			PostVolatility:    e.PostVolatility,
			Tau:               e.Tau,
			RatingPeriodDays:  e.RatingPeriodDays,
			InitialRating:     e.InitialRating,
			InitialRD:         e.InitialRD,
			InitialVolatility: e.InitialVolatility,
			TeamMapsWon:       e.TeamMapsWon,
			OpponentMapsWon:   e.OpponentMapsWon,
		}
	}
	return rows
}

// TeamMapGlicko2Row is one persisted map-specific team Glicko-2 event.
type TeamMapGlicko2Row struct {
	ID                     uint      `gorm:"primaryKey"`
	Glicko2SystemID        uint      `gorm:"not null;uniqueIndex:uq_team_map_glicko2_system_team_map,priority:1;index:idx_team_map_glicko2_system_team_event,priority:1"`
	TeamID                 int64     `gorm:"not null;uniqueIndex:uq_team_map_glicko2_system_team_map,priority:2;index:idx_team_map_glicko2_system_team_event,priority:2"`
	OpponentTeamID         int64     `gorm:"not null"`
	MatchID                int64     `gorm:"not null;index:idx_team_map_glicko2_match"`
	MapID                  int64     `gorm:"not null;uniqueIndex:uq_team_map_glicko2_system_team_map,priority:3;index:idx_team_map_glicko2_system_team_event,priority:4"`
	MapNumber              int       `gorm:"not null"`
	MapName                string    `gorm:"size:64;not null;index:idx_team_map_glicko2_map_name"`
	EventTime              time.Time `gorm:"not null;index:idx_team_map_glicko2_system_team_event,priority:3"`
	Won                    bool      `gorm:"not null"`
	ActualScore            float64   `gorm:"not null;check:ck_team_map_glicko2_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore          float64   `gorm:"not null;check:ck_team_map_glicko2_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreGlobalRating        float64   `gorm:"not null"`
	PreMapRating           float64   `gorm:"not null"`
	PreEffectiveRating     float64   `gorm:"not null"`
	PreGlobalRD            float64   `gorm:"not null"`
	PreMapRD               float64   `gorm:"not null"`
	PreEffectiveRD         float64   `gorm:"not null;check:ck_team_map_glicko2_pre_effective_rd,pre_effective_rd > 0.0"`
	PreGlobalVolatility    float64   `gorm:"not null"`
	PreMapVolatility       float64   `gorm:"not null"`
	PreEffectiveVolatility float64   `gorm:"not null"`
	RatingDelta            float64   `gorm:"not null"`
	RDDelta                float64   `gorm:"not null"`
	VolatilityDelta        float64   `gorm:"not null"`
	PostGlobalRating       float64   `gorm:"not null"`
	PostMapRating          float64   `gorm:"not null"`
	PostEffectiveRating    float64   `gorm:"not null"`
	PostGlobalRD           float64   `gorm:"not null"`
	PostMapRD              float64   `gorm:"not null"`
	PostEffectiveRD        float64   `gorm:"not null;check:ck_team_map_glicko2_post_effective_rd,post_effective_rd > 0.0"`
	PostGlobalVolatility   float64   `gorm:"not null"`
	PostMapVolatility      float64   `gorm:"not null"`
	PostEffectiveVol       float64   `gorm:"not null"`
	MapGamesPlayedPre      int       `gorm:"not null;check:ck_team_map_glicko2_games_pre,map_games_played_pre >= 0"`
	MapBlendWeight         float64   `gorm:"not null;check:ck_team_map_glicko2_blend_weight,map_blend_weight >= 0.0 AND map_blend_weight <= 1.0"`
	Tau                    float64   `gorm:"not null"`
	RatingPeriodDays       float64   `gorm:"not null"`
	InitialRating          float64   `gorm:"not null"`
	InitialRD              float64   `gorm:"not null"`
	InitialVolatility      float64   `gorm:"not null"`
	MapPriorGames          float64   `gorm:"not null;check:ck_team_map_glicko2_map_prior_games,map_prior_games > 0.0"`
	CreatedAt              time.Time
}

// TableName implements the gorm naming override.
func (TeamMapGlicko2Row) TableName() string { return "team_map_glicko2" }

// TeamMapGlicko2Rows converts calculator events to persistable rows.
func TeamMapGlicko2Rows(systemID uint, events []glicko2.TeamMapEvent) []TeamMapGlicko2Row {
	rows := make([]TeamMapGlicko2Row, len(events))
	for i, e := range events {
		rows[i] = TeamMapGlicko2Row{
			Glicko2SystemID:        systemID,
			TeamID:                 e.TeamID,
			OpponentTeamID:         e.OpponentTeamID,
			MatchID:                e.MatchID,
			MapID:                  e.MapID,
			MapNumber:              e.MapNumber,
			MapName:                e.MapName,
			EventTime:              e.EventTime,
			Won:                    e.Won,
			ActualScore:            e.ActualScore,
			ExpectedScore:          e.ExpectedScore,
			PreGlobalRating:        e.PreGlobalRating,
			PreMapRating:           e.PreMapRating,
			PreEffectiveRating:     e.PreEffectiveRating,
			PreGlobalRD:            e.PreGlobalRD,
			PreMapRD:               e.PreMapRD,
			PreEffectiveRD:         e.PreEffectiveRD,
			PreGlobalVolatility:    e.PreGlobalVolatility,
			PreMapVolatility:       e.PreMapVolatility,
			PreEffectiveVolatility: e.PreEffectiveVolatility,
			RatingDelta:            e.RatingDelta,
			RDDelta:                e.RDDelta,
			VolatilityDelta:        e.VolatilityDelta,
			PostGlobalRating:       e.PostGlobalRating,
			PostMapRating:          e.PostMapRating,
			PostEffectiveRating:    e.PostEffectiveRating,
			PostGlobalRD:           e.PostGlobalRD,
			PostMapRD:              e.PostMapRD,
			PostEffectiveRD:        e.PostEffectiveRD,
			PostGlobalVolatility:   e.PostGlobalVolatility,
			PostMapVolatility:      e.PostMapVolatility,
			PostEffectiveVol:       e.PostEffectiveVol,
			MapGamesPlayedPre:      e.MapGamesPlayedPre,
			MapBlendWeight:         e.MapBlendWeight,
			Tau:                    e.Tau,
			RatingPeriodDays:       e.RatingPeriodDays,
			InitialRating:          e.InitialRating,
			InitialRD:              e.InitialRD,
			InitialVolatility:      e.InitialVolatility,
			MapPriorGames:          e.MapPriorGames,
		}
	}
	return rows
}

// PlayerGlicko2Row is one persisted player Glicko-2 map event.
type PlayerGlicko2Row struct {
	ID                uint      `gorm:"primaryKey"`
	Glicko2SystemID   uint      `gorm:"not null;uniqueIndex:uq_player_glicko2_system_player_map,priority:1;index:idx_player_glicko2_system_player_event,priority:1"`
	PlayerID          int64     `gorm:"not null;uniqueIndex:uq_player_glicko2_system_player_map,priority:2;index:idx_player_glicko2_system_player_event,priority:2"`
	TeamID            int64     `gorm:"not null"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_player_glicko2_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_player_glicko2_system_player_map,priority:3;index:idx_player_glicko2_system_player_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	EventTime         time.Time `gorm:"not null;index:idx_player_glicko2_system_player_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_player_glicko2_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_player_glicko2_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreRating         float64   `gorm:"not null"`
	PreRD             float64   `gorm:"not null;check:ck_player_glicko2_pre_rd,pre_rd > 0.0"`
	PreVolatility     float64   `gorm:"not null;check:ck_player_glicko2_pre_volatility,pre_volatility > 0.0"`
	RatingDelta       float64   `gorm:"not null"`
	RDDelta           float64   `gorm:"not null"`
	VolatilityDelta   float64   `gorm:"not null"`
	PostRating        float64   `gorm:"not null"`
	PostRD            float64   `gorm:"not null;check:ck_player_glicko2_post_rd,post_rd > 0.0"`
	PostVolatility    float64   `gorm:"not null;check:ck_player_glicko2_post_volatility,post_volatility > 0.0"`
	Tau               float64   `gorm:"not null"`
	RatingPeriodDays  float64   `gorm:"not null"`
	InitialRating     float64   `gorm:"not null"`
	InitialRD         float64   `gorm:"not null"`
	InitialVolatility float64   `gorm:"not null"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (PlayerGlicko2Row) TableName() string { return "player_glicko2" }

// PlayerGlicko2Rows converts calculator events to persistable rows.
func PlayerGlicko2Rows(systemID uint, events []glicko2.PlayerEvent) []PlayerGlicko2Row {
	rows := make([]PlayerGlicko2Row, len(events))
	for i, e := range events {
		rows[i] = PlayerGlicko2Row{
			Glicko2SystemID:   systemID,
			PlayerID:          e.PlayerID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			MapID:             e.MapID,
			MapNumber:         e.MapNumber,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreRating:         e.PreRating,
			PreRD:             e.PreRD,
			PreVolatility:     e.PreVolatility,
			RatingDelta:       e.RatingDelta,
			RDDelta:           e.RDDelta,
			VolatilityDelta:   e.VolatilityDelta,
			PostRating:        e.PostRating,
			PostRD:            e.PostRD,
			PostVolatility:    e.PostVolatility,
			Tau:               e.Tau,
			RatingPeriodDays:  e.RatingPeriodDays,
			InitialRating:     e.InitialRating,
			InitialRD:         e.InitialRD,
			InitialVolatility: e.InitialVolatility,
		}
	}
	return rows
}

// PlayerMatchGlicko2Row is one persisted player Glicko-2 match event.
type PlayerMatchGlicko2Row struct {
	ID                uint      `gorm:"primaryKey"`
	Glicko2SystemID   uint      `gorm:"not null;uniqueIndex:uq_player_match_glicko2_system_player_match,priority:1;index:idx_player_match_glicko2_system_player_event,priority:1"`
	PlayerID          int64     `gorm:"not null;uniqueIndex:uq_player_match_glicko2_system_player_match,priority:2;index:idx_player_match_glicko2_system_player_event,priority:2"`
	TeamID            int64     `gorm:"not null"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;uniqueIndex:uq_player_match_glicko2_system_player_match,priority:3"`
	EventTime         time.Time `gorm:"not null;index:idx_player_match_glicko2_system_player_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_player_match_glicko2_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_player_match_glicko2_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreRating         float64   `gorm:"not null"`
	PreRD             float64   `gorm:"not null;check:ck_player_match_glicko2_pre_rd,pre_rd > 0.0"`
	PreVolatility     float64   `gorm:"not null;check:ck_player_match_glicko2_pre_volatility,pre_volatility > 0.0"`
	RatingDelta       float64   `gorm:"not null"`
	RDDelta           float64   `gorm:"not null"`
	VolatilityDelta   float64   `gorm:"not null"`
	PostRating        float64   `gorm:"not null"`
	PostRD            float64   `gorm:"not null;check:ck_player_match_glicko2_post_rd,post_rd > 0.0"`
	PostVolatility    float64   `gorm:"not null;check:ck_player_match_glicko2_post_volatility,post_volatility > 0.0"`
	Tau               float64   `gorm:"not null"`
	RatingPeriodDays  float64   `gorm:"not null"`
	InitialRating     float64   `gorm:"not null"`
	InitialRD         float64   `gorm:"not null"`
	InitialVolatility float64   `gorm:"not null"`
	TeamMapsWon       int       `gorm:"not null"`
	OpponentMapsWon   int       `gorm:"not null"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (PlayerMatchGlicko2Row) TableName() string { return "player_match_glicko2" }

// PlayerMatchGlicko2Rows converts calculator events to persistable rows.
func PlayerMatchGlicko2Rows(systemID uint, events []glicko2.PlayerMatchEvent) []PlayerMatchGlicko2Row {
	rows := make([]PlayerMatchGlicko2Row, len(events))
	for i, e := range events {
		rows[i] = PlayerMatchGlicko2Row{
			Glicko2SystemID:   systemID,
			PlayerID:          e.PlayerID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreRating:         e.PreRating,
			PreRD:             e.PreRD,
			PreVolatility:     e.PreVolatility,
			RatingDelta:       e.RatingDelta,
			RDDelta:           e.RDDelta,
			VolatilityDelta:   e.VolatilityDelta,
			PostRating:        e.PostRating,
			PostRD:            e.PostRD,
			PostVolatility:    e.PostVolatility,
			Tau:               e.Tau,
			RatingPeriodDays:  e.RatingPeriodDays,
			InitialRating:     e.InitialRating,
			InitialRD:         e.InitialRD,
			InitialVolatility: e.InitialVolatility,
			TeamMapsWon:       e.TeamMapsWon,
			OpponentMapsWon:   e.OpponentMapsWon,
		}
	}
	return rows
}

// PlayerMapGlicko2Row is one persisted map-specific player Glicko-2 event.
type PlayerMapGlicko2Row struct {
	ID                     uint      `gorm:"primaryKey"`
	Glicko2SystemID        uint      `gorm:"not null;uniqueIndex:uq_player_map_glicko2_system_player_map,priority:1;index:idx_player_map_glicko2_system_player_event,priority:1"`
	PlayerID               int64     `gorm:"not null;uniqueIndex:uq_player_map_glicko2_system_player_map,priority:2;index:idx_player_map_glicko2_system_player_event,priority:2"`
	TeamID                 int64     `gorm:"not null"`
	OpponentTeamID         int64     `gorm:"not null"`
	MatchID                int64     `gorm:"not null;index:idx_player_map_glicko2_match"`
	MapID                  int64     `gorm:"not null;uniqueIndex:uq_player_map_glicko2_system_player_map,priority:3;index:idx_player_map_glicko2_system_player_event,priority:4"`
	MapNumber              int       `gorm:"not null"`
	MapName                string    `gorm:"size:64;not null"`
	EventTime              time.Time `gorm:"not null;index:idx_player_map_glicko2_system_player_event,priority:3"`
	Won                    bool      `gorm:"not null"`
	ActualScore            float64   `gorm:"not null;check:ck_player_map_glicko2_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore          float64   `gorm:"not null;check:ck_player_map_glicko2_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreGlobalRating        float64   `gorm:"not null"`
	PreMapRating           float64   `gorm:"not null"`
	PreEffectiveRating     float64   `gorm:"not null"`
	PreGlobalRD            float64   `gorm:"not null"`
	PreMapRD               float64   `gorm:"not null"`
	PreEffectiveRD         float64   `gorm:"not null;check:ck_player_map_glicko2_pre_effective_rd,pre_effective_rd > 0.0"`
	PreGlobalVolatility    float64   `gorm:"not null"`
	PreMapVolatility       float64   `gorm:"not null"`
	PreEffectiveVolatility float64   `gorm:"not null"`
	RatingDelta            float64   `gorm:"not null"`
	RDDelta                float64   `gorm:"not null"`
	VolatilityDelta        float64   `gorm:"not null"`
	PostGlobalRating       float64   `gorm:"not null"`
	PostMapRating          float64   `gorm:"not null"`
	PostEffectiveRating    float64   `gorm:"not null"`
	PostGlobalRD           float64   `gorm:"not null"`
	PostMapRD              float64   `gorm:"not null"`
	PostEffectiveRD        float64   `gorm:"not null;check:ck_player_map_glicko2_post_effective_rd,post_effective_rd > 0.0"`
	PostGlobalVolatility   float64   `gorm:"not null"`
	PostMapVolatility      float64   `gorm:"not null"`
	PostEffectiveVol       float64   `gorm:"not null"`
	MapGamesPlayedPre      int       `gorm:"not null;check:ck_player_map_glicko2_games_pre,map_games_played_pre >= 0"`
	MapBlendWeight         float64   `gorm:"not null;check:ck_player_map_glicko2_blend_weight,map_blend_weight >= 0.0 AND map_blend_weight <= 1.0"`
	Tau                    float64   `gorm:"not null"`
	RatingPeriodDays       float64   `gorm:"not null"`
	InitialRating          float64   `gorm:"not null"`
	InitialRD              float64   `gorm:"not null"`
	InitialVolatility      float64   `gorm:"not null"`
	MapPriorGames          float64   `gorm:"not null;check:ck_player_map_glicko2_map_prior_games,map_prior_games > 0.0"`
	CreatedAt              time.Time
}

// TableName implements the gorm naming override.
func (PlayerMapGlicko2Row) TableName() string { return "player_map_glicko2" }

// PlayerMapGlicko2Rows converts calculator events to persistable rows.
func PlayerMapGlicko2Rows(systemID uint, events []glicko2.PlayerMapEvent) []PlayerMapGlicko2Row {
	rows := make([]PlayerMapGlicko2Row, len(events))
	for i, e := range events {
		rows[i] = PlayerMapGlicko2Row{
			Glicko2SystemID:        systemID,
			PlayerID:               e.PlayerID,
			TeamID:                 e.TeamID,
			OpponentTeamID:         e.OpponentTeamID,
			MatchID:                e.MatchID,
			MapID:                  e.MapID,
			MapNumber:              e.MapNumber,
			MapName:                e.MapName,
			EventTime:              e.EventTime,
			Won:                    e.Won,
			ActualScore:            e.ActualScore,
			ExpectedScore:          e.ExpectedScore,
			PreGlobalRating:        e.PreGlobalRating,
			PreMapRating:           e.PreMapRating,
			PreEffectiveRating:     e.PreEffectiveRating,
			PreGlobalRD:            e.PreGlobalRD,
			PreMapRD:               e.PreMapRD,
			PreEffectiveRD:         e.PreEffectiveRD,
			PreGlobalVolatility:    e.PreGlobalVolatility,
			PreMapVolatility:       e.PreMapVolatility,
			PreEffectiveVolatility: e.PreEffectiveVolatility,
			RatingDelta:            e.RatingDelta,
			RDDelta:                e.RDDelta,
			VolatilityDelta:        e.VolatilityDelta,
			PostGlobalRating:       e.PostGlobalRating,
			PostMapRating:          e.PostMapRating,
			PostEffectiveRating:    e.PostEffectiveRating,
			PostGlobalRD:           e.PostGlobalRD,
			PostMapRD:              e.PostMapRD,
			PostEffectiveRD:        e.PostEffectiveRD,
			PostGlobalVolatility:   e.PostGlobalVolatility,
			PostMapVolatility:      e.PostMapVolatility,
			PostEffectiveVol:       e.PostEffectiveVol,
			MapGamesPlayedPre:      e.MapGamesPlayedPre,
			MapBlendWeight:         e.MapBlendWeight,
			Tau:                    e.Tau,
			RatingPeriodDays:       e.RatingPeriodDays,
			InitialRating:          e.InitialRating,
			InitialRD:              e.InitialRD,
			InitialVolatility:      e.InitialVolatility,
			MapPriorGames:          e.MapPriorGames,
		}
	}
	return rows
}
