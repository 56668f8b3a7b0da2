package store

import (
	"time"

	"github.com/veldt/rerate/internal/domain/openskill"
)

// OpenSkillSystemsTable holds the metadata rows for every OpenSkill combination.
const OpenSkillSystemsTable = "openskill_systems"

// OpenSkillSystemIDColumn is the events-table foreign key into OpenSkillSystemsTable.
const OpenSkillSystemIDColumn = "openskill_system_id"

// TeamOpenSkillRow is one persisted team OpenSkill map event.
type TeamOpenSkillRow struct {
	ID                uint      `gorm:"primaryKey"`
	OpenskillSystemID uint      `gorm:"not null;uniqueIndex:uq_team_openskill_system_team_map,priority:1;index:idx_team_openskill_system_team_event,priority:1"`
	TeamID            int64     `gorm:"not null;uniqueIndex:uq_team_openskill_system_team_map,priority:2;index:idx_team_openskill_system_team_event,priority:2"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_team_openskill_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_team_openskill_system_team_map,priority:3;index:idx_team_openskill_system_team_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	EventTime         time.Time `gorm:"not null;index:idx_team_openskill_system_team_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_team_openskill_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_team_openskill_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreMu             float64   `gorm:"not null"`
	PreSigma          float64   `gorm:"not null;check:ck_team_openskill_pre_sigma,pre_sigma > 0.0"`
	PreOrdinal        float64   `gorm:"not null"`
	MuDelta           float64   `gorm:"not null"`
	SigmaDelta        float64   `gorm:"not null"`
	PostMu            float64   `gorm:"not null"`
	PostSigma         float64   `gorm:"not null;check:ck_team_openskill_post_sigma,post_sigma > 0.0"`
	PostOrdinal       float64   `gorm:"not null"`
	Beta              float64   `gorm:"not null"`
	Kappa             float64   `gorm:"not null"`
	Tau               float64   `gorm:"not null"`
	LimitSigma        bool      `gorm:"not null"`
	Balance           bool      `gorm:"not null"`
	OrdinalZ          float64   `gorm:"not null"`
	InitialMu         float64   `gorm:"not null"`
	InitialSigma      float64   `gorm:"not null"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (TeamOpenSkillRow) TableName() string { return "team_openskill" }

// TeamOpenSkillRows converts calculator events to persistable rows.
func TeamOpenSkillRows(systemID uint, events []openskill.TeamEvent) []TeamOpenSkillRow {
	rows := make([]TeamOpenSkillRow, len(events))
	for i, e := range events {
		rows[i] = TeamOpenSkillRow{
			OpenskillSystemID: systemID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			MapID:             e.MapID,
			MapNumber:         e.MapNumber,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreMu:             e.PreMu,
			PreSigma:          e.PreSigma,
			PreOrdinal:        e.PreOrdinal,
			MuDelta:           e.MuDelta,
			SigmaDelta:        e.SigmaDelta,
			PostMu:            e.PostMu,
			PostSigma:         e.PostSigma,
			PostOrdinal:       e.PostOrdinal,
			Beta:              e.Beta,
			Kappa:             e.Kappa,
			Tau:               e.Tau,
			LimitSigma:        e.LimitSigma,
			Balance:           e.Balance,
			OrdinalZ:          e.OrdinalZ,
			InitialMu:         e.InitialMu,
			InitialSigma:      e.InitialSigma,
		}
	}
	return rows
}

// TeamMatchOpenSkillRow is one persisted team OpenSkill match event.
type TeamMatchOpenSkillRow struct {
	ID                uint      `gorm:"primaryKey"`
	OpenskillSystemID uint      `gorm:"not null;uniqueIndex:uq_team_match_openskill_system_team_match,priority:1;index:idx_team_match_openskill_system_team_event,priority:1"`
	TeamID            int64     `gorm:"not null;uniqueIndex:uq_team_match_openskill_system_team_match,priority:2;index:idx_team_match_openskill_system_team_event,priority:2"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;uniqueIndex:uq_team_match_openskill_system_team_match,priority:3"`
	EventTime         time.Time `gorm:"not null;index:idx_team_match_openskill_system_team_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_team_match_openskill_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_team_match_openskill_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreMu             float64   `gorm:"not null"`
	PreSigma          float64   `gorm:"not null;check:ck_team_match_openskill_pre_sigma,pre_sigma > 0.0"`
	PreOrdinal        float64   `gorm:"not null"`
	MuDelta           float64   `gorm:"not null"`
	SigmaDelta        float64   `gorm:"not null"`
	PostMu            float64   `gorm:"not null"`
	PostSigma         float64   `gorm:"not null;check:ck_team_match_openskill_post_sigma,post_sigma > 0.0"`
	PostOrdinal       float64   `gorm:"not null"`
	Beta              float64   `gorm:"not null"`
	Kappa             float64   `gorm:"not null"`
	Tau               float64   `gorm:"not null"`
	LimitSigma        bool      `gorm:"not null"`
	Balance           bool      `gorm:"not null"`
	OrdinalZ          float64   `gorm:"not null"`
	InitialMu         float64   `gorm:"not null"`
	InitialSigma      float64   `gorm:"not null"`
	TeamMapsWon       int       `gorm:"not null"`
	OpponentMapsWon   int       `gorm:"not null"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (TeamMatchOpenSkillRow) TableName() string { return "team_match_openskill" }

// TeamMatchOpenSkillRows converts calculator events to persistable rows.
func TeamMatchOpenSkillRows(systemID uint, events []openskill.TeamMatchEvent) []TeamMatchOpenSkillRow {
	rows := make([]TeamMatchOpenSkillRow, len(events))
	for i, e := range events {
		rows[i] = TeamMatchOpenSkillRow{
			OpenskillSystemID: systemID,
			TeamID:            e.TeamID,
			OpponentTeamID:    e.OpponentTeamID,
			MatchID:           e.MatchID,
			EventTime:         e.EventTime,
			Won:               e.Won,
			ActualScore:       e.ActualScore,
			ExpectedScore:     e.ExpectedScore,
			PreMu:             e.PreMu,
			PreSigma:          e.PreSigma,
			PreOrdinal:        e.PreOrdinal,
			MuDelta:           e.MuDelta,
			SigmaDelta:        e.SigmaDelta,
			PostMu:            e.PostMu,
			PostSigma:         e.PostSigma,
			PostOrdinal:       e.PostOrdinal,
			Beta:              e.Beta,
			Kappa:             e.Kappa,
			Tau:               e.Tau,
			LimitSigma:        e.LimitSigma,
			Balance:           e.Balance,
			OrdinalZ:          e.OrdinalZ,
			InitialMu:         e.InitialMu,
			InitialSigma:      e.InitialSigma,
			TeamMapsWon:       e.TeamMapsWon,
			OpponentMapsWon:   e.OpponentMapsWon,
		}
	}
	return rows
}

// TeamMapOpenSkillRow is one persisted map-specific team OpenSkill event.
type TeamMapOpenSkillRow struct {
	ID                uint      `gorm:"primaryKey"`
	OpenskillSystemID uint      `gorm:"not null;uniqueIndex:uq_team_map_openskill_system_team_map,priority:1;index:idx_team_map_openskill_system_team_event,priority:1"`
	TeamID            int64     `gorm:"not null;uniqueIndex:uq_team_map_openskill_system_team_map,priority:2;index:idx_team_map_openskill_system_team_event,priority:2"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_team_map_openskill_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_team_map_openskill_system_team_map,priority:3;index:idx_team_map_openskill_system_team_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	MapName           string    `gorm:"size:64;not null;index:idx_team_map_openskill_map_name"`
	EventTime         time.Time `gorm:"not null;index:idx_team_map_openskill_system_team_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_team_map_openskill_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_team_map_openskill_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreGlobalMu       float64   `gorm:"not null"`
	PreMapMu          float64   `gorm:"not null"`
	PreEffectiveMu    float64   `gorm:"not null"`
	PreGlobalSigma    float64   `gorm:"not null"`
	PreMapSigma       float64   `gorm:"not null"`
	PreEffectiveSigma float64   `gorm:"not null;check:ck_team_map_openskill_pre_effective_sigma,pre_effective_sigma > 0.0"`
	PreEffectiveOrd   float64   `gorm:"not null"`
	MuDelta           float64   `gorm:"not null"`
	SigmaDelta        float64   `gorm:"not null"`
	PostGlobalMu      float64   `gorm:"not null"`
	PostMapMu         float64   `gorm:"not null"`
	PostEffectiveMu   float64   `gorm:"not null"`
	PostGlobalSigma   float64   `gorm:"not null"`
	PostMapSigma      float64   `gorm:"not null"`
	PostEffSigma      float64   `gorm:"not null;check:ck_team_map_openskill_post_eff_sigma,post_eff_sigma > 0.0"`
	PostEffectiveOrd  float64   `gorm:"not null"`
	MapGamesPlayedPre int       `gorm:"not null;check:ck_team_map_openskill_games_pre,map_games_played_pre >= 0"`
	MapBlendWeight    float64   `gorm:"not null;check:ck_team_map_openskill_blend_weight,map_blend_weight >= 0.0 AND map_blend_weight <= 1.0"`
	Beta              float64   `gorm:"not null"`
	Kappa             float64   `gorm:"not null"`
	Tau               float64   `gorm:"not null"`
	LimitSigma        bool      `gorm:"not null"`
	Balance           bool      `gorm:"not null"`
	OrdinalZ          float64   `gorm:"not null"`
	InitialMu         float64   `gorm:"not null"`
	InitialSigma      float64   `gorm:"not null"`
	MapPriorGames     float64   `gorm:"not null;check:ck_team_map_openskill_map_prior_games,map_prior_games > 0.0"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (TeamMapOpenSkillRow) TableName() string { return "team_map_openskill" }

// TeamMapOpenSkillRows converts calculator events to persistable rows.
func TeamMapOpenSkillRows(systemID uint, events []openskill.TeamMapEvent) []TeamMapOpenSkillRow {
	rows := make([]TeamMapOpenSkillRow, len(events))
	for i, e := range events {
		rows[i] = TeamMapOpenSkillRow{
			OpenskillSystemID: systemID,
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
			PreGlobalMu:       e.PreGlobalMu,
			PreMapMu:          e.PreMapMu,
			PreEffectiveMu:    e.PreEffectiveMu,
			PreGlobalSigma:    e.PreGlobalSigma,
			PreMapSigma:       e.PreMapSigma,
			PreEffectiveSigma: e.PreEffectiveSigma,
			PreEffectiveOrd:   e.PreEffectiveOrd,
			MuDelta:           e.MuDelta,
			SigmaDelta:        e.SigmaDelta,
			PostGlobalMu:      e.PostGlobalMu,
			PostMapMu:         e.PostMapMu,
			PostEffectiveMu:   e.PostEffectiveMu,
			PostGlobalSigma:   e.PostGlobalSigma,
			PostMapSigma:      e.PostMapSigma,
			PostEffSigma:      e.PostEffSigma,
			PostEffectiveOrd:  e.PostEffectiveOrd,
			MapGamesPlayedPre: e.MapGamesPlayedPre,
			MapBlendWeight:    e.MapBlendWeight,
			Beta:              e.Beta,
			Kappa:             e.Kappa,
			Tau:               e.Tau,
			LimitSigma:        e.LimitSigma,
			Balance:           e.Balance,
			OrdinalZ:          e.OrdinalZ,
			InitialMu:         e.InitialMu,
			InitialSigma:      e.InitialSigma,
			MapPriorGames:     e.MapPriorGames,
		}
	}
	return rows
}

// PlayerOpenSkillRow is one persisted player OpenSkill map event.
type PlayerOpenSkillRow struct {
	ID                uint      `gorm:"primaryKey"`
	OpenskillSystemID uint      `gorm:"not null;uniqueIndex:uq_player_openskill_system_player_map,priority:1;index:idx_player_openskill_system_player_event,priority:1"`
	PlayerID          int64     `gorm:"not null;uniqueIndex:uq_player_openskill_system_player_map,priority:2;index:idx_player_openskill_system_player_event,priority:2"`
	TeamID            int64     `gorm:"not null"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_player_openskill_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_player_openskill_system_player_map,priority:3;index:idx_player_openskill_system_player_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	EventTime         time.Time `gorm:"not null;index:idx_player_openskill_system_player_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_player_openskill_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_player_openskill_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreMu             float64   `gorm:"not null"`
	PreSigma          float64   `gorm:"not null;check:ck_player_openskill_pre_sigma,pre_sigma > 0.0"`
	PreOrdinal        float64   `gorm:"not null"`
	MuDelta           float64   `gorm:"not null"`
	SigmaDelta        float64   `gorm:"not null"`
	PostMu            float64   `gorm:"not null"`
	PostSigma         float64   `gorm:"not null;check:ck_player_openskill_post_sigma,post_sigma > 0.0"`
	PostOrdinal       float64   `gorm:"not null"`
	Beta              float64   `gorm:"not null"`
	Kappa             float64   `gorm:"not null"`
	Tau               float64   `gorm:"not null"`
	LimitSigma        bool      `gorm:"not null"`
	Balance           bool      `gorm:"not null"`
	OrdinalZ          float64   `gorm:"not null"`
	InitialMu         float64   `gorm:"not null"`
	InitialSigma      float64   `gorm:"not null"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (PlayerOpenSkillRow) TableName() string { return "player_openskill" }

// PlayerOpenSkillRows converts calculator events to persistable rows.
func PlayerOpenSkillRows(systemID uint, events []openskill.PlayerEvent) []PlayerOpenSkillRow {
	rows := make([]PlayerOpenSkillRow, len(events))
	for i, e := range events {
		rows[i] = PlayerOpenSkillRow{
			OpenskillSystemID: systemID,
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
			PreMu:             e.PreMu,
			PreSigma:          e.PreSigma,
			PreOrdinal:        e.PreOrdinal,
			MuDelta:           e.MuDelta,
			SigmaDelta:        e.SigmaDelta,
			PostMu:            e.PostMu,
			PostSigma:         e.PostSigma,
			PostOrdinal:       e.PostOrdinal,
			Beta:              e.Beta,
			Kappa:             e.Kappa,
			Tau:               e.Tau,
			LimitSigma:        e.LimitSigma,
			Balance:           e.Balance,
			OrdinalZ:          e.OrdinalZ,
			InitialMu:         e.InitialMu,
			InitialSigma:      e.InitialSigma,
		}
	}
	return rows
}

// PlayerMapOpenSkillRow is one persisted map-specific player OpenSkill event.
type PlayerMapOpenSkillRow struct {
	ID                uint      `gorm:"primaryKey"`
	OpenskillSystemID uint      `gorm:"not null;uniqueIndex:uq_player_map_openskill_system_player_map,priority:1;index:idx_player_map_openskill_system_player_event,priority:1"`
	PlayerID          int64     `gorm:"not null;uniqueIndex:uq_player_map_openskill_system_player_map,priority:2;index:idx_player_map_openskill_system_player_event,priority:2"`
	TeamID            int64     `gorm:"not null"`
	OpponentTeamID    int64     `gorm:"not null"`
	MatchID           int64     `gorm:"not null;index:idx_player_map_openskill_match"`
	MapID             int64     `gorm:"not null;uniqueIndex:uq_player_map_openskill_system_player_map,priority:3;index:idx_player_map_openskill_system_player_event,priority:4"`
	MapNumber         int       `gorm:"not null"`
	MapName           string    `gorm:"size:64;not null"`
	EventTime         time.Time `gorm:"not null;index:idx_player_map_openskill_system_player_event,priority:3"`
	Won               bool      `gorm:"not null"`
	ActualScore       float64   `gorm:"not null;check:ck_player_map_openskill_actual_score,actual_score IN (0.0, 1.0)"`
	ExpectedScore     float64   `gorm:"not null;check:ck_player_map_openskill_expected_score,expected_score >= 0.0 AND expected_score <= 1.0"`
	PreGlobalMu       float64   `gorm:"not null"`
	PreMapMu          float64   `gorm:"not null"`
	PreEffectiveMu    float64   `gorm:"not null"`
	PreGlobalSigma    float64   `gorm:"not null"`
	PreMapSigma       float64   `gorm:"not null"`
	PreEffectiveSigma float64   `gorm:"not null;check:ck_player_map_openskill_pre_effective_sigma,pre_effective_sigma > 0.0"`
	PreEffectiveOrd   float64   `gorm:"not null"`
	MuDelta           float64   `gorm:"not null"`
	SigmaDelta        float64   `gorm:"not null"`
	PostGlobalMu      float64   `gorm:"not null"`
	PostMapMu         float64   `gorm:"not null"`
	PostEffectiveMu   float64   `gorm:"not null"`
	PostGlobalSigma   float64   `gorm:"not null"`
	PostMapSigma      float64   `gorm:"not null"`
	PostEffSigma      float64   `gorm:"not null;check:ck_player_map_openskill_post_eff_sigma,post_eff_sigma > 0.0"`
	PostEffectiveOrd  float64   `gorm:"not null"`
	MapGamesPlayedPre int       `gorm:"not null;check:ck_player_map_openskill_games_pre,map_games_played_pre >= 0"`
	MapBlendWeight    float64   `gorm:"not null;check:ck_player_map_openskill_blend_weight,map_blend_weight >= 0.0 AND map_blend_weight <= 1.0"`
	Beta              float64   `gorm:"not null"`
	Kappa             float64   `gorm:"not null"`
	Tau               float64   `gorm:"not null"`
	LimitSigma        bool      `gorm:"not null"`
	Balance           bool      `gorm:"not null"`
	OrdinalZ          float64   `gorm:"not null"`
	InitialMu         float64   `gorm:"not null"`
	InitialSigma      float64   `gorm:"not null"`
	MapPriorGames     float64   `gorm:"not null;check:ck_player_map_openskill_map_prior_games,map_prior_games > 0.0"`
	CreatedAt         time.Time
}

// TableName implements the gorm naming override.
func (PlayerMapOpenSkillRow) TableName() string { return "player_map_openskill" }

// PlayerMapOpenSkillRows converts calculator events to persistable rows.
func PlayerMapOpenSkillRows(systemID uint, events []openskill.PlayerMapEvent) []PlayerMapOpenSkillRow {
	rows := make([]PlayerMapOpenSkillRow, len(events))
	for i, e := range events {
		rows[i] = PlayerMapOpenSkillRow{
			OpenskillSystemID: systemID,
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
			PreGlobalMu:       e.PreGlobalMu,
			PreMapMu:          e.PreMapMu,
			PreEffectiveMu:    e.PreEffectiveMu,
			PreGlobalSigma:    e.PreGlobalSigma,
			PreMapSigma:       e.PreMapSigma,
			PreEffectiveSigma: e.PreEffectiveSigma,
			PreEffectiveOrd:   e.PreEffectiveOrd,
			MuDelta:           e.MuDelta,
			SigmaDelta:        e.SigmaDelta,
			PostGlobalMu:      e.PostGlobalMu,
			PostMapMu:         e.PostMapMu,
			PostEffectiveMu:   e.PostEffectiveMu,
			PostGlobalSigma:   e.PostGlobalSigma,
			PostMapSigma:      e.PostMapSigma,
			PostEffSigma:      e.PostEffSigma,
			PostEffectiveOrd:  e.PostEffectiveOrd,
			MapGamesPlayedPre: e.MapGamesPlayedPre,
			MapBlendWeight:    e.MapBlendWeight,
			Beta:              e.Beta,
			Kappa:             e.Kappa,
			Tau:               e.Tau,
			LimitSigma:        e.LimitSigma,
			Balance:           e.Balance,
			OrdinalZ:          e.OrdinalZ,
			InitialMu:         e.InitialMu,
			InitialSigma:      e.InitialSigma,
			MapPriorGames:     e.MapPriorGames,
		}
	}
	return rows
}
