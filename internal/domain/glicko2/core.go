package glicko2

import (
	"math"
	"time"
)

// core carries the mutable global state shared by every Glicko-2 variant.
type core struct {
	params    Parameters
	states    map[int64]State
	lastEvent map[int64]time.Time
}

func newCore(params Parameters) *core {
	return &core{
		params:    params,
		states:    make(map[int64]State),
		lastEvent: make(map[int64]time.Time),
	}
}

func (c *core) clampRD(rd float64) float64 {
	return math.Max(c.params.MinRD, math.Min(rd, c.params.MaxRD))
}

func clampVolatility(vol float64) float64 {
	return math.Max(vol, volatilityFloor)
}

func (c *core) initialState() State {
	return State{
		Rating:     c.params.InitialRating,
		RD:         c.clampRD(c.params.InitialRD),
		Volatility: c.params.InitialVolatility,
	}
}

// state returns the entity's current state, seeding it lazily.
func (c *core) state(entityID int64) State {
	if s, ok := c.states[entityID]; ok {
		return s
	}
	s := c.initialState()
	c.states[entityID] = s
	return s
}

// Rating returns the entity's current display-scale rating.
func (c *core) Rating(entityID int64) float64 { return c.state(entityID).Rating }

// RD returns the entity's current rating deviation.
func (c *core) RD(entityID int64) float64 { return c.state(entityID).RD }

// Volatility returns the entity's current volatility.
func (c *core) Volatility(entityID int64) float64 { return c.state(entityID).Volatility }

// TrackedEntityCount reports how many entities hold state.
func (c *core) TrackedEntityCount() int {
	return len(c.states)
}

// Ratings returns a snapshot of all current display-scale ratings.
func (c *core) Ratings() map[int64]float64 {
	snapshot := make(map[int64]float64, len(c.states))
	for id, s := range c.states {
		snapshot[id] = s.Rating
	}
	return snapshot
}

// inflatedRD widens the deviation for time spent inactive, measured in
// rating periods, then clamps it into the configured bounds.
func (c *core) inflatedRD(entityID int64, rd, volatility float64, at time.Time) float64 {
	last, ok := c.lastEvent[entityID]
	if !ok {
		return c.clampRD(rd)
	}
	inactiveDays := at.Sub(last).Seconds() / 86400.0
	if inactiveDays <= 0 {
		return c.clampRD(rd)
	}
	inactivePeriods := inactiveDays / c.params.RatingPeriodDays
	if inactivePeriods <= 0 {
		return c.clampRD(rd)
	}
	return c.clampRD(inflateRD(rd, volatility, inactivePeriods))
}

func inflateRD(rd, volatility, inactivePeriods float64) float64 {
	phi := toPhi(rd)
	return fromPhi(math.Sqrt(phi*phi + volatility*volatility*inactivePeriods))
}

func (c *core) store(entityID int64, s State, at time.Time) {
	c.states[entityID] = s
	c.lastEvent[entityID] = at
}

// update runs one single-opponent rating period and clamps the post RD.
func (c *core) update(pre State, opponent State, score float64) (State, error) {
	post, err := Update(pre, []OpponentResult{{
		OpponentRating: opponent.Rating,
		OpponentRD:     opponent.RD,
		Score:          score,
	}}, c.params.Tau, c.params.Epsilon)
	if err != nil {
		return State{}, err
	}
	post.RD = c.clampRD(post.RD)
	return post, nil
}
