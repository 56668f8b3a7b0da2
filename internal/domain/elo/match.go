package elo

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamMatchEvent is one team's rating change from one decisive match.
type TeamMatchEvent struct {
	TeamID          int64
	OpponentTeamID  int64
	MatchID         int64
	EventTime       time.Time
	Won             bool
	ActualScore     float64
	ExpectedScore   float64
	PreRating       float64
	Delta           float64
	PostRating      float64
	KFactor         float64
	ScaleFactor     float64
	InitialRating   float64
	TeamMapsWon     int
	OpponentMapsWon int
}

// TeamMatchCalculator replays match results into team Elo events.
type TeamMatchCalculator struct {
	*core
}

// NewTeamMatchCalculator builds a calculator with empty state.
func NewTeamMatchCalculator(params Parameters, opts ...Option) *TeamMatchCalculator {
	return &TeamMatchCalculator{core: newCore(params, opts...)}
}

// Process applies one match result and returns both team events, side 1 first.
func (c *TeamMatchCalculator) Process(r result.TeamMatchResult) ([]TeamMatchEvent, error) {
	if err := rating.ValidateTeamMatch(r); err != nil {
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
	effectiveK := c.matchEffectiveK(r, winnerPre, loserPre, winnerExpected)

	team1Delta := effectiveK * (team1Actual - team1Expected)
	team2Delta := -team1Delta
	team1Post := team1Pre + team1Delta
	team2Post := team2Pre + team2Delta

	c.store(r.Team1ID, team1Post, r.EventTime)
	c.store(r.Team2ID, team2Post, r.EventTime)

	return []TeamMatchEvent{
		{
			TeamID:          r.Team1ID,
			OpponentTeamID:  r.Team2ID,
			MatchID:         r.MatchID,
			EventTime:       r.EventTime,
			Won:             team1Actual == 1.0,
			ActualScore:     team1Actual,
			ExpectedScore:   team1Expected,
			PreRating:       team1Pre,
			Delta:           team1Delta,
			PostRating:      team1Post,
			KFactor:         effectiveK,
			ScaleFactor:     c.params.ScaleFactor,
			InitialRating:   c.params.InitialRating,
			TeamMapsWon:     r.Team1MapsWon,
			OpponentMapsWon: r.Team2MapsWon,
		},
		{
			TeamID:          r.Team2ID,
			OpponentTeamID:  r.Team1ID,
			MatchID:         r.MatchID,
			EventTime:       r.EventTime,
			Won:             team2Actual == 1.0,
			ActualScore:     team2Actual,
			ExpectedScore:   team2Expected,
			PreRating:       team2Pre,
			Delta:           team2Delta,
			PostRating:      team2Post,
			KFactor:         effectiveK,
			ScaleFactor:     c.params.ScaleFactor,
			InitialRating:   c.params.InitialRating,
			TeamMapsWon:     r.Team2MapsWon,
			OpponentMapsWon: r.Team1MapsWon,
		},
	}, nil
}
