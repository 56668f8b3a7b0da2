package openskill

import (
	"github.com/intinig/go-openskill/rating"
	"github.com/intinig/go-openskill/types"
)

// model wraps the go-openskill Plackett-Luce implementation. All contact
// with the library happens here; the calculators only see State slices.
type model struct {
	opts *types.OpenSkillOptions
}

func newModel(p Parameters) *model {
	mu := p.InitialMu
	sigma := p.InitialSigma
	beta := p.Beta
	kappa := p.Kappa
	tau := p.Tau
	return &model{
		opts: &types.OpenSkillOptions{
			Mu:                   &mu,
			Sigma:                &sigma,
			Beta:                 &beta,
			Epsilon:              &kappa,
			Tau:                  &tau,
			PreventSigmaIncrease: p.LimitSigma,
		},
	}
}

func toTeam(side []State) types.Team {
	team := make(types.Team, len(side))
	for i, s := range side {
		team[i] = types.Rating{Mu: s.Mu, Sigma: s.Sigma}
	}
	return team
}

func fromTeam(team types.Team) []State {
	side := make([]State, len(team))
	for i, r := range team {
		side[i] = State{Mu: r.Mu, Sigma: r.Sigma}
	}
	return side
}

// predictWin returns the win probabilities for the two sides in input
// order. The pair sums to one.
func (m *model) predictWin(side1, side2 []State) (float64, float64) {
	probs := rating.PredictWin([]types.Team{toTeam(side1), toTeam(side2)}, m.opts)
	return probs[0], probs[1]
}

// rate runs one update. The model expects teams in finishing order, so the
// sides are swapped in and back out when side 2 won.
func (m *model) rate(side1, side2 []State, side1Won bool) ([]State, []State) {
	var teams []types.Team
	if side1Won {
		teams = []types.Team{toTeam(side1), toTeam(side2)}
	} else {
		teams = []types.Team{toTeam(side2), toTeam(side1)}
	}
	updated := rating.Rate(teams, m.opts)
	if side1Won {
		return fromTeam(updated[0]), fromTeam(updated[1])
	}
	return fromTeam(updated[1]), fromTeam(updated[0])
}
