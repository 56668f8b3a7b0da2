package elo

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// PlayerEvent is one player's rating change from one map.
type PlayerEvent struct {
	PlayerID       int64
	TeamID         int64
	OpponentTeamID int64
	MatchID        int64
	MapID          int64
	MapNumber      int
	EventTime      time.Time
	Won            bool
	ActualScore    float64
	ExpectedScore  float64
	PreRating      float64
	Delta          float64
	PostRating     float64
	KFactor        float64
	ScaleFactor    float64
	InitialRating  float64
}

// PlayerCalculator replays map results into per-player Elo events. The side
// average of the players' pre-ratings stands in for team strength when
// selecting multipliers; each player's own pre-rating drives their expected
// score against the opposing average.
type PlayerCalculator struct {
	*core
}

// NewPlayerCalculator builds a calculator with empty state.
func NewPlayerCalculator(params Parameters, opts ...Option) *PlayerCalculator {
	return &PlayerCalculator{core: newCore(params, opts...)}
}

func (c *PlayerCalculator) sidePreRatings(participants []result.PlayerMapParticipant, at time.Time) map[int64]float64 {
	pre := make(map[int64]float64, len(participants))
	for _, p := range participants {
		pre[p.PlayerID] = c.decayedRating(p.PlayerID, at)
	}
	return pre
}

func averageRating(pre map[int64]float64) float64 {
	var total float64
	for _, r := range pre {
		total += r
	}
	return total / float64(len(pre))
}

// Process applies one map result and returns one event per listed player,
// side 1 players first.
func (c *PlayerCalculator) Process(r result.PlayerMapResult) ([]PlayerEvent, error) {
	if err := rating.ValidatePlayerMap(r); err != nil {
		return nil, err
	}

	team1Pre := c.sidePreRatings(r.Team1Players, r.EventTime)
	team2Pre := c.sidePreRatings(r.Team2Players, r.EventTime)
	team1AvgPre := averageRating(team1Pre)
	team2AvgPre := averageRating(team2Pre)

	team1Expected := ExpectedScore(team1AvgPre, team2AvgPre, c.params.ScaleFactor)
	team2Expected := 1.0 - team1Expected

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	winnerPre, loserPre, winnerExpected := team1AvgPre, team2AvgPre, team1Expected
	if team1Actual == 0 {
		winnerPre, loserPre, winnerExpected = team2AvgPre, team1AvgPre, team2Expected
	}
	effectiveK := c.mapEffectiveK(r.TeamProxy(), winnerPre, loserPre, winnerExpected)

	events := make([]PlayerEvent, 0, len(r.Team1Players)+len(r.Team2Players))

	side := func(participants []result.PlayerMapParticipant, pre map[int64]float64,
		teamID, opponentTeamID int64, actual, opponentAvgPre float64) {
		for _, p := range participants {
			preRating := pre[p.PlayerID]
			expected := ExpectedScore(preRating, opponentAvgPre, c.params.ScaleFactor)
			delta := effectiveK * (actual - expected)
			post := preRating + delta
			c.store(p.PlayerID, post, r.EventTime)

			events = append(events, PlayerEvent{
				PlayerID:       p.PlayerID,
				TeamID:         teamID,
				OpponentTeamID: opponentTeamID,
				MatchID:        r.MatchID,
				MapID:          r.MapID,
				MapNumber:      r.MapNumber,
				EventTime:      r.EventTime,
				Won:            actual == 1.0,
				ActualScore:    actual,
				ExpectedScore:  expected,
				PreRating:      preRating,
				Delta:          delta,
				PostRating:     post,
				KFactor:        effectiveK,
				ScaleFactor:    c.params.ScaleFactor,
				InitialRating:  c.params.InitialRating,
			})
		}
	}

	side(r.Team1Players, team1Pre, r.Team1ID, r.Team2ID, team1Actual, team2AvgPre)
	side(r.Team2Players, team2Pre, r.Team2ID, r.Team1ID, team2Actual, team1AvgPre)
	return events, nil
}
