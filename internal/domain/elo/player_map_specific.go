package elo

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// PlayerMapEvent is one player's rating change from one map in the
// map-specific variant.
type PlayerMapEvent struct {
	PlayerID           int64
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

// playerMapState is one player's pre-update view for one map.
type playerMapState struct {
	globalPre    float64
	mapPre       float64
	gamesPre     int
	blendWeight  float64
	effectivePre float64
}

// MapSpecificPlayerCalculator blends per-map and global player Elo.
type MapSpecificPlayerCalculator struct {
	*core
	msParams   MapSpecificParameters
	mapRatings map[rating.MapKey]float64
	tracker    *rating.MapTracker
}

// NewMapSpecificPlayerCalculator builds a calculator with empty state.
func NewMapSpecificPlayerCalculator(params MapSpecificParameters, opts ...Option) *MapSpecificPlayerCalculator {
	return &MapSpecificPlayerCalculator{
		core:       newCore(params.Parameters, opts...),
		msParams:   params,
		mapRatings: make(map[rating.MapKey]float64),
		tracker:    rating.NewMapTracker(params.MapPriorGames),
	}
}

func (c *MapSpecificPlayerCalculator) mapRating(playerID int64, mapName string) float64 {
	if r, ok := c.mapRatings[rating.MapKey{EntityID: playerID, MapName: mapName}]; ok {
		return r
	}
	return c.params.InitialRating
}

func (c *MapSpecificPlayerCalculator) decayedMapRating(playerID int64, mapName string, at time.Time) float64 {
	r := c.mapRating(playerID, mapName)
	if c.decayLambda <= 0 {
		return r
	}
	last, ok := c.tracker.LastEvent(playerID, mapName)
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

func (c *MapSpecificPlayerCalculator) sidePreState(participants []result.PlayerMapParticipant, mapName string, at time.Time) map[int64]playerMapState {
	state := make(map[int64]playerMapState, len(participants))
	for _, p := range participants {
		globalPre := c.decayedRating(p.PlayerID, at)
		mapPre := c.decayedMapRating(p.PlayerID, mapName, at)
		weight := c.tracker.BlendWeight(p.PlayerID, mapName)
		state[p.PlayerID] = playerMapState{
			globalPre:    globalPre,
			mapPre:       mapPre,
			gamesPre:     c.tracker.GamesPlayed(p.PlayerID, mapName),
			blendWeight:  weight,
			effectivePre: rating.Blend(weight, mapPre, globalPre),
		}
	}
	return state
}

func averageEffectivePre(state map[int64]playerMapState) float64 {
	var total float64
	for _, s := range state {
		total += s.effectivePre
	}
	return total / float64(len(state))
}

// Process applies one map result and returns one event per listed player,
// side 1 players first.
func (c *MapSpecificPlayerCalculator) Process(r result.PlayerMapResult) ([]PlayerMapEvent, error) {
	if err := rating.ValidatePlayerMap(r); err != nil {
		return nil, err
	}

	mapName := rating.NormalizeMapName(r.MapName)
	team1State := c.sidePreState(r.Team1Players, mapName, r.EventTime)
	team2State := c.sidePreState(r.Team2Players, mapName, r.EventTime)

	team1AvgPre := averageEffectivePre(team1State)
	team2AvgPre := averageEffectivePre(team2State)

	team1Expected := ExpectedScore(team1AvgPre, team2AvgPre, c.params.ScaleFactor)
	team2Expected := 1.0 - team1Expected

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	winnerPre, loserPre, winnerExpected := team1AvgPre, team2AvgPre, team1Expected
	if team1Actual == 0 {
		winnerPre, loserPre, winnerExpected = team2AvgPre, team1AvgPre, team2Expected
	}
	effectiveK := c.mapEffectiveK(r.TeamProxy(), winnerPre, loserPre, winnerExpected)

	events := make([]PlayerMapEvent, 0, len(r.Team1Players)+len(r.Team2Players))

	side := func(participants []result.PlayerMapParticipant, state map[int64]playerMapState,
		teamID, opponentTeamID int64, actual, opponentAvgPre float64) {
		for _, p := range participants {
			s := state[p.PlayerID]
			expected := ExpectedScore(s.effectivePre, opponentAvgPre, c.params.ScaleFactor)
			delta := effectiveK * (actual - expected)

			globalPost := s.globalPre + delta
			mapPost := s.mapPre + delta

			c.store(p.PlayerID, globalPost, r.EventTime)
			c.mapRatings[rating.MapKey{EntityID: p.PlayerID, MapName: mapName}] = mapPost
			c.tracker.Record(p.PlayerID, mapName, r.EventTime)

			events = append(events, PlayerMapEvent{
				PlayerID:           p.PlayerID,
				TeamID:             teamID,
				OpponentTeamID:     opponentTeamID,
				MatchID:            r.MatchID,
				MapID:              r.MapID,
				MapNumber:          r.MapNumber,
				MapName:            mapName,
				EventTime:          r.EventTime,
				Won:                actual == 1.0,
				ActualScore:        actual,
				ExpectedScore:      expected,
				PreGlobalRating:    s.globalPre,
				PreMapRating:       s.mapPre,
				PreEffectiveRating: s.effectivePre,
				Delta:              delta,
				PostGlobalRating:   globalPost,
				PostMapRating:      mapPost,
				PostEffective:      rating.Blend(s.blendWeight, mapPost, globalPost),
				MapGamesPlayedPre:  s.gamesPre,
				MapBlendWeight:     s.blendWeight,
				KFactor:            effectiveK,
				ScaleFactor:        c.params.ScaleFactor,
				InitialRating:      c.params.InitialRating,
				MapPriorGames:      c.msParams.MapPriorGames,
			})
		}
	}

	side(r.Team1Players, team1State, r.Team1ID, r.Team2ID, team1Actual, team2AvgPre)
	side(r.Team2Players, team2State, r.Team2ID, r.Team1ID, team2Actual, team1AvgPre)
	return events, nil
}
