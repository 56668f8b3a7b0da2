package openskill

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamEvent is one side's skill change from one map.
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
	PreMu          float64
	PreSigma       float64
	PreOrdinal     float64
	MuDelta        float64
	SigmaDelta     float64
	PostMu         float64
	PostSigma      float64
	PostOrdinal    float64
	Beta           float64
	Kappa          float64
	Tau            float64
	LimitSigma     bool
	Balance        bool
	OrdinalZ       float64
	InitialMu      float64
	InitialSigma   float64
}

// TeamCalculator replays map results into per-team OpenSkill events.
type TeamCalculator struct {
	*core
}

// NewTeamCalculator builds a calculator with empty state.
func NewTeamCalculator(params Parameters) *TeamCalculator {
	return &TeamCalculator{core: newCore(params)}
}

func (c *core) teamEvent(r result.TeamMapResult, teamID, opponentTeamID int64,
	actual, expected float64, pre, post State) TeamEvent {
	return TeamEvent{
		TeamID:         teamID,
		OpponentTeamID: opponentTeamID,
		MatchID:        r.MatchID,
		MapID:          r.MapID,
		MapNumber:      r.MapNumber,
		EventTime:      r.EventTime,
		Won:            actual == 1.0,
		ActualScore:    actual,
		ExpectedScore:  expected,
		PreMu:          pre.Mu,
		PreSigma:       pre.Sigma,
		PreOrdinal:     c.params.Ordinal(pre),
		MuDelta:        post.Mu - pre.Mu,
		SigmaDelta:     post.Sigma - pre.Sigma,
		PostMu:         post.Mu,
		PostSigma:      post.Sigma,
		PostOrdinal:    c.params.Ordinal(post),
		Beta:           c.params.Beta,
		Kappa:          c.params.Kappa,
		Tau:            c.params.Tau,
		LimitSigma:     c.params.LimitSigma,
		Balance:        c.params.Balance,
		OrdinalZ:       c.params.OrdinalZ,
		InitialMu:      c.params.InitialMu,
		InitialSigma:   c.params.InitialSigma,
	}
}

// Process applies one map result and returns the two team events, side 1
// first.
func (c *TeamCalculator) Process(r result.TeamMapResult) ([]TeamEvent, error) {
	if err := rating.ValidateTeamMap(r); err != nil {
		return nil, err
	}

	team1Pre := c.state(r.Team1ID)
	team2Pre := c.state(r.Team2ID)

	team1Expected, team2Expected := c.model.predictWin([]State{team1Pre}, []State{team2Pre})

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	side1, side2 := c.model.rate([]State{team1Pre}, []State{team2Pre}, team1Actual == 1.0)
	team1Post, team2Post := side1[0], side2[0]

	c.store(r.Team1ID, team1Post)
	c.store(r.Team2ID, team2Post)

	return []TeamEvent{
		c.teamEvent(r, r.Team1ID, r.Team2ID, team1Actual, team1Expected, team1Pre, team1Post),
		c.teamEvent(r, r.Team2ID, r.Team1ID, team2Actual, team2Expected, team2Pre, team2Post),
	}, nil
}
