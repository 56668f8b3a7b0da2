package openskill

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamMatchEvent is one side's skill change from one decisive match.
type TeamMatchEvent struct {
	TeamID          int64
	OpponentTeamID  int64
	MatchID         int64
	EventTime       time.Time
	Won             bool
	ActualScore     float64
	ExpectedScore   float64
	PreMu           float64
	PreSigma        float64
	PreOrdinal      float64
	MuDelta         float64
	SigmaDelta      float64
	PostMu          float64
	PostSigma       float64
	PostOrdinal     float64
	Beta            float64
	Kappa           float64
	Tau             float64
	LimitSigma      bool
	Balance         bool
	OrdinalZ        float64
	InitialMu       float64
	InitialSigma    float64
	TeamMapsWon     int
	OpponentMapsWon int
}

// TeamMatchCalculator replays match results into per-team OpenSkill events.
type TeamMatchCalculator struct {
	*core
}

// NewTeamMatchCalculator builds a calculator with empty state.
func NewTeamMatchCalculator(params Parameters) *TeamMatchCalculator {
	return &TeamMatchCalculator{core: newCore(params)}
}

func (c *core) matchEvent(r result.TeamMatchResult, teamID, opponentTeamID int64,
	actual, expected float64, pre, post State, mapsWon, opponentMapsWon int) TeamMatchEvent {
	return TeamMatchEvent{
		TeamID:          teamID,
		OpponentTeamID:  opponentTeamID,
		MatchID:         r.MatchID,
		EventTime:       r.EventTime,
		Won:             actual == 1.0,
		ActualScore:     actual,
		ExpectedScore:   expected,
		PreMu:           pre.Mu,
		PreSigma:        pre.Sigma,
		PreOrdinal:      c.params.Ordinal(pre),
		MuDelta:         post.Mu - pre.Mu,
		SigmaDelta:      post.Sigma - pre.Sigma,
		PostMu:          post.Mu,
		PostSigma:       post.Sigma,
		PostOrdinal:     c.params.Ordinal(post),
		Beta:            c.params.Beta,
		Kappa:           c.params.Kappa,
		Tau:             c.params.Tau,
		LimitSigma:      c.params.LimitSigma,
		Balance:         c.params.Balance,
		OrdinalZ:        c.params.OrdinalZ,
		InitialMu:       c.params.InitialMu,
		InitialSigma:    c.params.InitialSigma,
		TeamMapsWon:     mapsWon,
		OpponentMapsWon: opponentMapsWon,
	}
}

// Process applies one decisive match result and returns the two team
// events, side 1 first.
func (c *TeamMatchCalculator) Process(r result.TeamMatchResult) ([]TeamMatchEvent, error) {
	if err := rating.ValidateTeamMatch(r); err != nil {
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

	return []TeamMatchEvent{
		c.matchEvent(r, r.Team1ID, r.Team2ID, team1Actual, team1Expected, team1Pre, team1Post, r.Team1MapsWon, r.Team2MapsWon),
		c.matchEvent(r, r.Team2ID, r.Team1ID, team2Actual, team2Expected, team2Pre, team2Post, r.Team2MapsWon, r.Team1MapsWon),
	}, nil
}
