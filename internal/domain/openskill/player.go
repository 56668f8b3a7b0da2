package openskill

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// PlayerEvent is one player's skill change from one map.
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

// PlayerCalculator replays map results into per-player OpenSkill events.
// Unlike the side-average algorithms, the full rosters enter the model as
// multi-player teams, so each player's posterior reflects their own sigma.
type PlayerCalculator struct {
	*core
}

// NewPlayerCalculator builds a calculator with empty state.
func NewPlayerCalculator(params Parameters) *PlayerCalculator {
	return &PlayerCalculator{core: newCore(params)}
}

func (c *core) sideStates(participants []result.PlayerMapParticipant) []State {
	states := make([]State, len(participants))
	for i, p := range participants {
		states[i] = c.state(p.PlayerID)
	}
	return states
}

// Process applies one map result and returns one event per listed player,
// side 1 players first.
func (c *PlayerCalculator) Process(r result.PlayerMapResult) ([]PlayerEvent, error) {
	if err := rating.ValidatePlayerMap(r); err != nil {
		return nil, err
	}

	team1Pre := c.sideStates(r.Team1Players)
	team2Pre := c.sideStates(r.Team2Players)

	team1Expected, team2Expected := c.model.predictWin(team1Pre, team2Pre)

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	team1Post, team2Post := c.model.rate(team1Pre, team2Pre, team1Actual == 1.0)

	events := make([]PlayerEvent, 0, len(r.Team1Players)+len(r.Team2Players))

	side := func(participants []result.PlayerMapParticipant, pre, post []State,
		teamID, opponentTeamID int64, actual, expected float64) {
		for i, p := range participants {
			c.store(p.PlayerID, post[i])
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
				PreMu:          pre[i].Mu,
				PreSigma:       pre[i].Sigma,
				PreOrdinal:     c.params.Ordinal(pre[i]),
				MuDelta:        post[i].Mu - pre[i].Mu,
				SigmaDelta:     post[i].Sigma - pre[i].Sigma,
				PostMu:         post[i].Mu,
				PostSigma:      post[i].Sigma,
				PostOrdinal:    c.params.Ordinal(post[i]),
				Beta:           c.params.Beta,
				Kappa:          c.params.Kappa,
				Tau:            c.params.Tau,
				LimitSigma:     c.params.LimitSigma,
				Balance:        c.params.Balance,
				OrdinalZ:       c.params.OrdinalZ,
				InitialMu:      c.params.InitialMu,
				InitialSigma:   c.params.InitialSigma,
			})
		}
	}

	side(r.Team1Players, team1Pre, team1Post, r.Team1ID, r.Team2ID, team1Actual, team1Expected)
	side(r.Team2Players, team2Pre, team2Post, r.Team2ID, r.Team1ID, team2Actual, team2Expected)
	return events, nil
}
