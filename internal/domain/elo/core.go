package elo

import (
	"math"
	"time"

	"github.com/veldt/rerate/internal/domain/result"
)

// Option configures a calculator at construction time.
type Option func(*core)

// WithLookbackDays bounds the replay window. The recency multiplier is only
// active when a positive lookback is set.
func WithLookbackDays(days int) Option {
	return func(c *core) {
		if days > 0 {
			c.lookbackDays = days
		}
	}
}

// WithAsOf pins the reference "now" used by the recency multiplier.
func WithAsOf(asOf time.Time) Option {
	return func(c *core) {
		if !asOf.IsZero() {
			c.asOf = asOf
		}
	}
}

// core carries the mutable global rating state and the multiplier logic
// shared by every Elo variant.
type core struct {
	params       Parameters
	lookbackDays int
	asOf         time.Time
	decayLambda  float64
	ratings      map[int64]float64
	lastEvent    map[int64]time.Time
}

func newCore(params Parameters, opts ...Option) *core {
	c := &core{
		params:    params,
		asOf:      time.Now().UTC(),
		ratings:   make(map[int64]float64),
		lastEvent: make(map[int64]time.Time),
	}
	if params.InactivityHalfLifeDays > 0 {
		c.decayLambda = math.Ln2 / params.InactivityHalfLifeDays
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rating returns the current rating of an entity, or the initial rating if
// the entity has never been seen.
func (c *core) Rating(entityID int64) float64 {
	if r, ok := c.ratings[entityID]; ok {
		return r
	}
	return c.params.InitialRating
}

// TrackedEntityCount reports how many entities hold state.
func (c *core) TrackedEntityCount() int {
	return len(c.ratings)
}

// Ratings returns a snapshot of all current ratings.
func (c *core) Ratings() map[int64]float64 {
	snapshot := make(map[int64]float64, len(c.ratings))
	for id, r := range c.ratings {
		snapshot[id] = r
	}
	return snapshot
}

// decayedRating returns the entity's rating after inactivity decay toward
// the initial rating.
func (c *core) decayedRating(entityID int64, at time.Time) float64 {
	r := c.Rating(entityID)
	if c.decayLambda <= 0 {
		return r
	}
	last, ok := c.lastEvent[entityID]
	if !ok {
		return r
	}
	inactiveDays := at.Sub(last).Seconds() / 86400.0
	if inactiveDays <= 0 {
		return r
	}
	factor := decayFactor(c.decayLambda, inactiveDays)
	return c.params.InitialRating + (r-c.params.InitialRating)*factor
}

func decayFactor(lambda, inactiveDays float64) float64 {
	return math.Exp(-lambda * inactiveDays)
}

func (c *core) store(entityID int64, post float64, at time.Time) {
	c.ratings[entityID] = post
	c.lastEvent[entityID] = at
}

func (c *core) formatMultiplier(matchFormat string) float64 {
	switch matchFormat {
	case "BO5":
		return c.params.BO5Multiplier
	case "BO3":
		return c.params.BO3Multiplier
	case "BO1":
		return c.params.BO1Multiplier
	}
	return 1.0
}

func (c *core) outcomeMultiplier(winnerPre, loserPre float64) float64 {
	switch {
	case winnerPre > loserPre:
		return c.params.FavoredMultiplier
	case winnerPre < loserPre:
		return c.params.UnfavoredMultiplier
	}
	return c.params.EvenMultiplier
}

func (c *core) strengthMultiplier(winnerExpected float64) float64 {
	if c.params.OpponentStrengthWeight == 1.0 {
		return 1.0
	}
	// winnerExpected below 0.5 means the winner beat a stronger opponent.
	index := clamp((0.5-winnerExpected)/0.5, -1.0, 1.0)
	return math.Pow(c.params.OpponentStrengthWeight, index)
}

func (c *core) lanMultiplier(isLAN bool) float64 {
	if isLAN {
		return c.params.LANMultiplier
	}
	return 1.0
}

func (c *core) roundDominationMultiplier(r result.TeamMapResult) float64 {
	if c.params.RoundDominationMultiplier == 1.0 {
		return 1.0
	}
	if r.Team1Score == nil || r.Team2Score == nil {
		return 1.0
	}
	score1 := max(*r.Team1Score, 0)
	score2 := max(*r.Team2Score, 0)
	total := score1 + score2
	if total <= 0 {
		return 1.0
	}
	winnerScore := score1
	if r.WinnerID == r.Team2ID {
		winnerScore = score2
	}
	share := float64(winnerScore) / float64(total)
	index := clamp((share-0.5)/0.5, 0.0, 1.0)
	return 1.0 + (c.params.RoundDominationMultiplier-1.0)*index
}

func (c *core) kdDominationMultiplier(r result.TeamMapResult) float64 {
	if c.params.KDRatioDominationMultiplier == 1.0 {
		return 1.0
	}
	if r.Team1KDRatio == nil || r.Team2KDRatio == nil {
		return 1.0
	}
	winnerKD, loserKD := *r.Team1KDRatio, *r.Team2KDRatio
	if r.WinnerID == r.Team2ID {
		winnerKD, loserKD = loserKD, winnerKD
	}
	if winnerKD <= 0 || loserKD <= 0 {
		return 1.0
	}
	index := math.Min(math.Max(0.0, winnerKD-loserKD), 1.0)
	return 1.0 + (c.params.KDRatioDominationMultiplier-1.0)*index
}

func (c *core) recencyMultiplier(at time.Time) float64 {
	if c.lookbackDays <= 0 || c.params.RecencyMinMultiplier == 1.0 {
		return 1.0
	}
	ageDays := c.asOf.Sub(at).Seconds() / 86400.0
	ageFraction := clamp(ageDays/float64(c.lookbackDays), 0.0, 1.0)
	return 1.0 - (1.0-c.params.RecencyMinMultiplier)*ageFraction
}

// mapEffectiveK applies the full multiplier chain for map results.
func (c *core) mapEffectiveK(r result.TeamMapResult, winnerPre, loserPre, winnerExpected float64) float64 {
	return c.params.KFactor *
		c.formatMultiplier(r.MatchFormat) *
		c.outcomeMultiplier(winnerPre, loserPre) *
		c.strengthMultiplier(winnerExpected) *
		c.lanMultiplier(r.IsLAN) *
		c.roundDominationMultiplier(r) *
		c.kdDominationMultiplier(r) *
		c.recencyMultiplier(r.EventTime)
}

// matchEffectiveK is mapEffectiveK without the per-map domination terms,
// which have no meaning at match granularity.
func (c *core) matchEffectiveK(r result.TeamMatchResult, winnerPre, loserPre, winnerExpected float64) float64 {
	return c.params.KFactor *
		c.formatMultiplier(r.MatchFormat) *
		c.outcomeMultiplier(winnerPre, loserPre) *
		c.strengthMultiplier(winnerExpected) *
		c.lanMultiplier(r.IsLAN) *
		c.recencyMultiplier(r.EventTime)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
