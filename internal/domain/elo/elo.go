// Package elo implements map-by-map and match-by-match Elo rating updates
// for teams and players, including a map-specific variant that blends a
// per-map rating with the global one.
package elo

import "math"

// Default Elo parameter values.
const (
	DefaultInitialRating = 1500.0
	DefaultKFactor       = 20.0
	DefaultScaleFactor   = 400.0
	DefaultMapPriorGames = 20.0
)

// Parameters holds the numeric configuration of one Elo system. Every
// multiplier defaults to 1.0, which makes it neutral.
type Parameters struct {
	InitialRating float64
	KFactor       float64
	ScaleFactor   float64

	// Effective-K multipliers, all neutral at 1.0.
	EvenMultiplier              float64
	FavoredMultiplier           float64
	UnfavoredMultiplier         float64
	OpponentStrengthWeight      float64
	LANMultiplier               float64
	RoundDominationMultiplier   float64
	KDRatioDominationMultiplier float64
	RecencyMinMultiplier        float64
	BO1Multiplier               float64
	BO3Multiplier               float64
	BO5Multiplier               float64

	// InactivityHalfLifeDays pulls idle ratings toward the initial value.
	// Zero disables decay.
	InactivityHalfLifeDays float64
}

// DefaultParameters returns the neutral parameter set.
func DefaultParameters() Parameters {
	return Parameters{
		InitialRating:               DefaultInitialRating,
		KFactor:                     DefaultKFactor,
		ScaleFactor:                 DefaultScaleFactor,
		EvenMultiplier:              1.0,
		FavoredMultiplier:           1.0,
		UnfavoredMultiplier:         1.0,
		OpponentStrengthWeight:      1.0,
		LANMultiplier:               1.0,
		RoundDominationMultiplier:   1.0,
		KDRatioDominationMultiplier: 1.0,
		RecencyMinMultiplier:        1.0,
		BO1Multiplier:               1.0,
		BO3Multiplier:               1.0,
		BO5Multiplier:               1.0,
	}
}

// MapSpecificParameters extends Parameters with the shrinkage prior used by
// the map-specific variants.
type MapSpecificParameters struct {
	Parameters

	// MapPriorGames is the pseudo-count of global games backing an unseen
	// map rating. Larger values shrink harder toward the global rating.
	MapPriorGames float64
}

// DefaultMapSpecificParameters returns the neutral map-specific set.
func DefaultMapSpecificParameters() MapSpecificParameters {
	return MapSpecificParameters{
		Parameters:    DefaultParameters(),
		MapPriorGames: DefaultMapPriorGames,
	}
}

// ExpectedScore computes the logistic Elo win expectation for one side.
func ExpectedScore(rating, opponentRating, scaleFactor float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (opponentRating-rating)/scaleFactor))
}
