// Package openskill implements map-by-map and match-by-match Weng-Lin
// Plackett-Luce skill updates for teams and players. The Bayesian update
// itself is delegated to the go-openskill model; this package owns entity
// bookkeeping, blending, and ordinal computation.
package openskill

// Default Weng-Lin parameter values.
const (
	DefaultMu            = 25.0
	DefaultSigma         = 25.0 / 3.0
	DefaultBeta          = 25.0 / 6.0
	DefaultKappa         = 0.0001
	DefaultTau           = 25.0 / 300.0
	DefaultOrdinalZ      = 3.0
	DefaultMapPriorGames = 20.0

	// sigmaFloor keeps blended sigmas strictly positive.
	sigmaFloor = 1e-9
)

// Parameters holds the numeric configuration of one OpenSkill system.
type Parameters struct {
	InitialMu    float64
	InitialSigma float64
	Beta         float64
	Kappa        float64
	Tau          float64
	LimitSigma   bool
	// Balance is carried in every event row for schema compatibility, but
	// the model wrapper does not implement balanced gamma weighting.
	// System config loading rejects true.
	Balance  bool
	OrdinalZ float64
}

// DefaultParameters returns the standard Weng-Lin constants.
func DefaultParameters() Parameters {
	return Parameters{
		InitialMu:    DefaultMu,
		InitialSigma: DefaultSigma,
		Beta:         DefaultBeta,
		Kappa:        DefaultKappa,
		Tau:          DefaultTau,
		OrdinalZ:     DefaultOrdinalZ,
	}
}

// MapSpecificParameters extends Parameters with the shrinkage prior used by
// the map-specific variants.
type MapSpecificParameters struct {
	Parameters

	MapPriorGames float64
}

// DefaultMapSpecificParameters returns the standard map-specific set.
func DefaultMapSpecificParameters() MapSpecificParameters {
	return MapSpecificParameters{
		Parameters:    DefaultParameters(),
		MapPriorGames: DefaultMapPriorGames,
	}
}

// State is one entity's skill estimate.
type State struct {
	Mu    float64
	Sigma float64
}

// Ordinal is the conservative scalar ranking value mu - z*sigma.
func (p Parameters) Ordinal(s State) float64 {
	return s.Mu - p.OrdinalZ*s.Sigma
}
