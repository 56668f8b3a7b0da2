package elo

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamMapEvent is one team's rating change from one map in the map-specific
// variant. It records the global, per-map, and blended views of the rating.
type TeamMapEvent struct {
	TeamID             int64
	OpponentTeamID     int64
	MatchID            int64
	MapID              int64
	MapNumber          int
	MapName            string
	EventTime          time.Time
	Won                bool
	ActualScore        float64
	ExpectedScore      float64
	PreGlobalRating    float64
	PreMapRating       float64
	PreEffectiveRating float64
	Delta              float64
	PostGlobalRating   float64
	PostMapRating      float64
	PostEffective      float64
	MapGamesPlayedPre  int
	MapBlendWeight     float64
	KFactor            float64
	ScaleFactor        float64
	InitialRating      float64
	MapPriorGames      float64
}

// MapSpecificTeamCalculator blends per-map and global team Elo. One delta
// per result feeds both trackers; they diverge only through blend history.
type MapSpecificTeamCalculator struct {
	*core
	msParams   MapSpecificParameters
	mapRatings map[rating.MapKey]float64
	tracker    *rating.MapTracker
}

// NewMapSpecificTeamCalculator builds a calculator with empty state.
func NewMapSpecificTeamCalculator(params MapSpecificParameters, opts ...Option) *MapSpecificTeamCalculator {
	return &MapSpecificTeamCalculator{
		core:       newCore(params.Parameters, opts...),
		msParams:   params,
		mapRatings: make(map[rating.MapKey]float64),
		tracker:    rating.NewMapTracker(params.MapPriorGames),
	}
}

func (c *MapSpecificTeamCalculator) mapRating(teamID int64, mapName string) float64 {
	if r, ok := c.mapRatings[rating.MapKey{EntityID: teamID, MapName: mapName}]; ok {
		return r
	}
	return c.params.InitialRating
}

// decayedMapRating mirrors decayedRating using the map tracker's own
// last-event times, so idle map ratings decay independently.
func (c *MapSpecificTeamCalculator) decayedMapRating(teamID int64, mapName string, at time.Time) float64 {
	r := c.mapRating(teamID, mapName)
	if c.decayLambda <= 0 {
		return r
	}
	last, ok := c.tracker.LastEvent(teamID, mapName)
	if !ok {
		return r
	}
	inactiveDays := at.Sub(last).Seconds() / 86400.0
	if inactiveDays <= 0 {
		return r
	}
	factor := decayFactor(c.decayLambda, inactiveDays)
	return c.params.InitialRating + (r-c.params.InitialRating)*factor
}

// Process applies one map result and returns both team events, side 1 first.
func (c *MapSpecificTeamCalculator) Process(r result.TeamMapResult) ([]TeamMapEvent, error) {
	if err := rating.ValidateTeamMap(r); err != nil {
		return nil, err
	}

	mapName := rating.NormalizeMapName(r.MapName)

	team1GlobalPre := c.decayedRating(r.Team1ID, r.EventTime)
	team2GlobalPre := c.decayedRating(r.Team2ID, r.EventTime)
	team1MapPre := c.decayedMapRating(r.Team1ID, mapName, r.EventTime)
	team2MapPre := c.decayedMapRating(r.Team2ID, mapName, r.EventTime)

	team1GamesPre := c.tracker.GamesPlayed(r.Team1ID, mapName)
	team2GamesPre := c.tracker.GamesPlayed(r.Team2ID, mapName)
	team1Weight := c.tracker.BlendWeight(r.Team1ID, mapName)
	team2Weight := c.tracker.BlendWeight(r.Team2ID, mapName)

	team1EffectivePre := rating.Blend(team1Weight, team1MapPre, team1GlobalPre)
	team2EffectivePre := rating.Blend(team2Weight, team2MapPre, team2GlobalPre)

	team1Expected := ExpectedScore(team1EffectivePre, team2EffectivePre, c.params.ScaleFactor)
	team2Expected := 1.0 - team1Expected

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	winnerPre, loserPre, winnerExpected := team1EffectivePre, team2EffectivePre, team1Expected
	if team1Actual == 0 {
		winnerPre, loserPre, winnerExpected = team2EffectivePre, team1EffectivePre, team2Expected
	}
	effectiveK := c.mapEffectiveK(r, winnerPre, loserPre, winnerExpected)

	team1Delta := effectiveK * (team1Actual - team1Expected)
	team2Delta := -team1Delta

	team1GlobalPost := team1GlobalPre + team1Delta
	team2GlobalPost := team2GlobalPre + team2Delta
	team1MapPost := team1MapPre + team1Delta
	team2MapPost := team2MapPre + team2Delta

	c.store(r.Team1ID, team1GlobalPost, r.EventTime)
	c.store(r.Team2ID, team2GlobalPost, r.EventTime)
	c.mapRatings[rating.MapKey{EntityID: r.Team1ID, MapName: mapName}] = team1MapPost
	c.mapRatings[rating.MapKey{EntityID: r.Team2ID, MapName: mapName}] = team2MapPost
	c.tracker.Record(r.Team1ID, mapName, r.EventTime)
	c.tracker.Record(r.Team2ID, mapName, r.EventTime)

	return []TeamMapEvent{
		{
			TeamID:             r.Team1ID,
			OpponentTeamID:     r.Team2ID,
			MatchID:            r.MatchID,
			MapID:              r.MapID,
			MapNumber:          r.MapNumber,
			MapName:            mapName,
			EventTime:          r.EventTime,
			Won:                team1Actual == 1.0,
			ActualScore:        team1Actual,
			ExpectedScore:      team1Expected,
			PreGlobalRating:    team1GlobalPre,
			PreMapRating:       team1MapPre,
			PreEffectiveRating: team1EffectivePre,
			Delta:              team1Delta,
			PostGlobalRating:   team1GlobalPost,
			PostMapRating:      team1MapPost,
			PostEffective:      rating.Blend(team1Weight, team1MapPost, team1GlobalPost),
			MapGamesPlayedPre:  team1GamesPre,
			MapBlendWeight:     team1Weight,
			KFactor:            effectiveK,
			ScaleFactor:        c.params.ScaleFactor,
			InitialRating:      c.params.InitialRating,
			MapPriorGames:      c.msParams.MapPriorGames,
		},
		{
			TeamID:             r.Team2ID,
			OpponentTeamID:     r.Team1ID,
			MatchID:            r.MatchID,
			MapID:              r.MapID,
			MapNumber:          r.MapNumber,
			MapName:            mapName,
			EventTime:          r.EventTime,
			Won:                team2Actual == 1.0,
			ActualScore:        team2Actual,
			ExpectedScore:      team2Expected,
			PreGlobalRating:    team2GlobalPre,
			PreMapRating:       team2MapPre,
			PreEffectiveRating: team2EffectivePre,
			Delta:              team2Delta,
			PostGlobalRating:   team2GlobalPost,
			PostMapRating:      team2MapPost,
			PostEffective:      rating.Blend(team2Weight, team2MapPost, team2GlobalPost),
			MapGamesPlayedPre:  team2GamesPre,
			MapBlendWeight:     team2Weight,
			KFactor:            effectiveK,
			ScaleFactor:        c.params.ScaleFactor,
			InitialRating:      c.params.InitialRating,
			MapPriorGames:      c.msParams.MapPriorGames,
		},
	}, nil
}
