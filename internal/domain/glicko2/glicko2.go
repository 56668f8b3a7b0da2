// Package glicko2 implements map-by-map and match-by-match Glicko-2 rating
// updates for teams and players. Each processed result is treated as a
// one-result rating period; inactivity inflates the rating deviation instead
// of decaying the rating itself.
package glicko2

import (
	"fmt"
	"math"
)

// Scale converts between the display scale (1500-centered) and the internal
// Glicko-2 scale.
const Scale = 173.7178

// Default Glicko-2 parameter values.
const (
	DefaultRating        = 1500.0
	DefaultRD            = 350.0
	DefaultVolatility    = 0.06
	DefaultTau           = 0.5
	DefaultPeriodDays    = 1.0
	DefaultMinRD         = 30.0
	DefaultMaxRD         = 350.0
	DefaultEpsilon       = 1e-6
	DefaultMapPriorGames = 20.0

	// volatilityFloor keeps blended volatilities strictly positive.
	volatilityFloor = 1e-9

	// bracketCap bounds the volatility solver's bracket expansion.
	bracketCap = 1000
)

// Parameters holds the numeric configuration of one Glicko-2 system.
type Parameters struct {
	InitialRating     float64
	InitialRD         float64
	InitialVolatility float64
	Tau               float64
	RatingPeriodDays  float64
	MinRD             float64
	MaxRD             float64
	Epsilon           float64
}

// DefaultParameters returns the standard Glickman constants.
func DefaultParameters() Parameters {
	return Parameters{
		InitialRating:     DefaultRating,
		InitialRD:         DefaultRD,
		InitialVolatility: DefaultVolatility,
		Tau:               DefaultTau,
		RatingPeriodDays:  DefaultPeriodDays,
		MinRD:             DefaultMinRD,
		MaxRD:             DefaultMaxRD,
		Epsilon:           DefaultEpsilon,
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

// State is one entity's Glicko-2 triple on the display scale.
type State struct {
	Rating     float64
	RD         float64
	Volatility float64
}

// OpponentResult is one encounter inside a rating period.
type OpponentResult struct {
	OpponentRating float64
	OpponentRD     float64
	Score          float64
}

func toMu(rating float64) float64 { return (rating - DefaultRating) / Scale }
func toPhi(rd float64) float64    { return rd / Scale }
func fromMu(mu float64) float64   { return mu*Scale + DefaultRating }
func fromPhi(phi float64) float64 { return phi * Scale }

func g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+(3.0*phi*phi)/(math.Pi*math.Pi))
}

// expected evaluates the logistic win expectation on the internal scale,
// branching on the exponent sign for numerical stability.
func expected(mu, oppMu, oppPhi float64) float64 {
	exponent := -g(oppPhi) * (mu - oppMu)
	if exponent >= 0 {
		t := math.Exp(-exponent)
		return t / (1.0 + t)
	}
	return 1.0 / (1.0 + math.Exp(exponent))
}

// ExpectedScore computes the expected score for one side on the display scale.
func ExpectedScore(rating, rd, opponentRating, opponentRD float64) float64 {
	_ = rd // the Glicko-2 expectation depends only on the opponent's deviation
	return expected(toMu(rating), toMu(opponentRating), toPhi(opponentRD))
}

// solveVolatility finds the post-period volatility as the root of the
// Glicko-2 f function using the Illinois variant of regula falsi.
func solveVolatility(phi, sigma, delta, v, tau, epsilon float64) (float64, error) {
	a := math.Log(sigma * sigma)

	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	aVal := a
	var bVal float64
	if delta*delta > phi*phi+v {
		bVal = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1
		bVal = aVal - float64(k)*tau
		for f(bVal) < 0 {
			k++
			if k > bracketCap {
				return 0, fmt.Errorf("%w after %d expansions", ErrVolatilityNoBracket, bracketCap)
			}
			bVal = aVal - float64(k)*tau
		}
	}

	fA := f(aVal)
	fB := f(bVal)
	for math.Abs(bVal-aVal) > epsilon {
		var cVal float64
		if fB == fA {
			cVal = (aVal + bVal) / 2.0
		} else {
			cVal = aVal + (aVal-bVal)*fA/(fB-fA)
		}
		fC := f(cVal)
		if fC*fB < 0 {
			aVal, fA = bVal, fB
		} else {
			fA /= 2.0
		}
		bVal, fB = cVal, fC
	}

	return math.Exp(aVal / 2.0), nil
}

// Update applies one rating period to a state. An empty result set or a
// degenerate variance leaves the state unchanged.
func Update(s State, results []OpponentResult, tau, epsilon float64) (State, error) {
	if len(results) == 0 {
		return s, nil
	}

	mu := toMu(s.Rating)
	phi := toPhi(s.RD)

	gTerms := make([]float64, len(results))
	eTerms := make([]float64, len(results))
	for i, r := range results {
		oppMu := toMu(r.OpponentRating)
		oppPhi := toPhi(r.OpponentRD)
		gTerms[i] = g(oppPhi)
		eTerms[i] = expected(mu, oppMu, oppPhi)
	}

	var vInverse float64
	for i := range results {
		vInverse += gTerms[i] * gTerms[i] * eTerms[i] * (1.0 - eTerms[i])
	}
	if vInverse <= 0 {
		return s, nil
	}
	v := 1.0 / vInverse

	var outcomeSum float64
	for i, r := range results {
		outcomeSum += gTerms[i] * (r.Score - eTerms[i])
	}
	delta := v * outcomeSum

	sigmaPrime, err := solveVolatility(phi, s.Volatility, delta, v, tau, epsilon)
	if err != nil {
		return State{}, err
	}

	phiStar := math.Sqrt(phi*phi + sigmaPrime*sigmaPrime)
	phiPrime := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muPrime := mu + phiPrime*phiPrime*outcomeSum

	return State{
		Rating:     fromMu(muPrime),
		RD:         fromPhi(phiPrime),
		Volatility: sigmaPrime,
	}, nil
}
