package elo

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamEvent is one team's rating change from one map.
type TeamEvent struct {
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

// TeamCalculator replays map results into team Elo events.
type TeamCalculator struct {
	*core
}

// NewTeamCalculator builds a calculator with empty state.
func NewTeamCalculator(params Parameters, opts ...Option) *TeamCalculator {
	return &TeamCalculator{core: newCore(params, opts...)}
}

// Process applies one map result and returns both team events, side 1 first.
func (c *TeamCalculator) Process(r result.TeamMapResult) ([]TeamEvent, error) {
	if err := rating.ValidateTeamMap(r); err != nil {
		return nil, err
	}

	team1Pre := c.decayedRating(r.Team1ID, r.EventTime)
	team2Pre := c.decayedRating(r.Team2ID, r.EventTime)

	team1Expected := ExpectedScore(team1Pre, team2Pre, c.params.ScaleFactor)
	team2Expected := 1.0 - team1Expected

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	winnerPre, loserPre, winnerExpected := team1Pre, team2Pre, team1Expected
	if team1Actual == 0 {
		winnerPre, loserPre, winnerExpected = team2Pre, team1Pre, team2Expected
	}
	effectiveK := c.mapEffectiveK(r, winnerPre, loserPre, winnerExpected)

	team1Delta := effectiveK * (team1Actual - team1Expected)
	team2Delta := -team1Delta
	team1Post := team1Pre + team1Delta
	team2Post := team2Pre + team2Delta

	c.store(r.Team1ID, team1Post, r.EventTime)
	c.store(r.Team2ID, team2Post, r.EventTime)

	return []TeamEvent{
		{
			TeamID:         r.Team1ID,
			OpponentTeamID: r.Team2ID,
			MatchID:        r.MatchID,
			MapID:          r.MapID,
			MapNumber:      r.MapNumber,
			EventTime:      r.EventTime,
			Won:            team1Actual == 1.0,
			ActualScore:    team1Actual,
			ExpectedScore:  team1Expected,
			PreRating:      team1Pre,
			Delta:          team1Delta,
			PostRating:     team1Post,
			KFactor:        effectiveK,
			ScaleFactor:    c.params.ScaleFactor,
			InitialRating:  c.params.InitialRating,
		},
		{
			TeamID:         r.Team2ID,
			OpponentTeamID: r.Team1ID,
			MatchID:        r.MatchID,
			MapID:          r.MapID,
			MapNumber:      r.MapNumber,
			EventTime:      r.EventTime,
			Won:            team2Actual == 1.0,
			ActualScore:    team2Actual,
			ExpectedScore:  team2Expected,
			PreRating:      team2Pre,
			Delta:          team2Delta,
			PostRating:     team2Post,
			KFactor:        effectiveK,
			ScaleFactor:    c.params.ScaleFactor,
			InitialRating:  c.params.InitialRating,
		},
	}, nil
}
