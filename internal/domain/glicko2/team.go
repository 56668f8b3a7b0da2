package glicko2

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamEvent is one team's rating change from one map.
type TeamEvent struct {
	TeamID            int64
	OpponentTeamID    int64
	MatchID           int64
	MapID             int64
	MapNumber         int
	EventTime         time.Time
	Won               bool
	ActualScore       float64
	ExpectedScore     float64
	PreRating         float64
	PreRD             float64
	PreVolatility     float64
	RatingDelta       float64
	RDDelta           float64
	VolatilityDelta   float64
	PostRating        float64
	PostRD            float64
	PostVolatility    float64
	Tau               float64
	RatingPeriodDays  float64
	InitialRating     float64
	InitialRD         float64
	InitialVolatility float64
}

// TeamCalculator replays map results into team Glicko-2 events.
type TeamCalculator struct {
	*core
}

// NewTeamCalculator builds a calculator with empty state.
func NewTeamCalculator(params Parameters) *TeamCalculator {
	return &TeamCalculator{core: newCore(params)}
}

// Process applies one map result and returns both team events, side 1 first.
func (c *TeamCalculator) Process(r result.TeamMapResult) ([]TeamEvent, error) {
	if err := rating.ValidateTeamMap(r); err != nil {
		return nil, err
	}

	team1State := c.state(r.Team1ID)
	team2State := c.state(r.Team2ID)

	team1Pre := State{
		Rating:     team1State.Rating,
		RD:         c.inflatedRD(r.Team1ID, team1State.RD, team1State.Volatility, r.EventTime),
		Volatility: team1State.Volatility,
	}
	team2Pre := State{
		Rating:     team2State.Rating,
		RD:         c.inflatedRD(r.Team2ID, team2State.RD, team2State.Volatility, r.EventTime),
		Volatility: team2State.Volatility,
	}

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	team1Expected := ExpectedScore(team1Pre.Rating, team1Pre.RD, team2Pre.Rating, team2Pre.RD)
	team2Expected := ExpectedScore(team2Pre.Rating, team2Pre.RD, team1Pre.Rating, team1Pre.RD)

	team1Post, err := c.update(team1Pre, team2Pre, team1Actual)
	if err != nil {
		return nil, err
	}
	team2Post, err := c.update(team2Pre, team1Pre, team2Actual)
	if err != nil {
		return nil, err
	}

	c.store(r.Team1ID, team1Post, r.EventTime)
	c.store(r.Team2ID, team2Post, r.EventTime)

	return []TeamEvent{
		c.teamEvent(r, r.Team1ID, r.Team2ID, team1Actual, team1Expected, team1Pre, team1Post),
		c.teamEvent(r, r.Team2ID, r.Team1ID, team2Actual, team2Expected, team2Pre, team2Post),
	}, nil
}

func (c *TeamCalculator) teamEvent(r result.TeamMapResult, teamID, opponentID int64,
	actual, expectedScore float64, pre, post State) TeamEvent {
	return TeamEvent{
		TeamID:            teamID,
		OpponentTeamID:    opponentID,
		MatchID:           r.MatchID,
		MapID:             r.MapID,
		MapNumber:         r.MapNumber,
		EventTime:         r.EventTime,
		Won:               actual == 1.0,
		ActualScore:       actual,
		ExpectedScore:     expectedScore,
		PreRating:         pre.Rating,
		PreRD:             pre.RD,
		PreVolatility:     pre.Volatility,
		RatingDelta:       post.Rating - pre.Rating,
		RDDelta:           post.RD - pre.RD,
		VolatilityDelta:   post.Volatility - pre.Volatility,
		PostRating:        post.Rating,
		PostRD:            post.RD,
		PostVolatility:    post.Volatility,
		Tau:               c.params.Tau,
		RatingPeriodDays:  c.params.RatingPeriodDays,
		InitialRating:     c.params.InitialRating,
		InitialRD:         c.params.InitialRD,
		InitialVolatility: c.params.InitialVolatility,
	}
}
