package openskill

// core holds the per-entity skill book shared by the calculator variants.
// OpenSkill has no inactivity model, so unlike the other algorithms no
// last-event times are kept.
type core struct {
	params Parameters
	model  *model
	states map[int64]State
}

func newCore(params Parameters) *core {
	return &core{
		params: params,
		model:  newModel(params),
		states: make(map[int64]State),
	}
}

// state returns the entity's current skill, seeding new entities with the
// configured initial mu and sigma.
func (c *core) state(entityID int64) State {
	if s, ok := c.states[entityID]; ok {
		return s
	}
	s := State{Mu: c.params.InitialMu, Sigma: c.params.InitialSigma}
	c.states[entityID] = s
	return s
}

func (c *core) store(entityID int64, s State) {
	c.states[entityID] = s
}

// Mu returns the entity's current mu estimate.
func (c *core) Mu(entityID int64) float64 {
	return c.state(entityID).Mu
}

// Sigma returns the entity's current sigma estimate.
func (c *core) Sigma(entityID int64) float64 {
	return c.state(entityID).Sigma
}

// TrackedEntityCount reports how many entities hold state.
func (c *core) TrackedEntityCount() int {
	return len(c.states)
}

// Ratings returns a copy of the current skill book.
func (c *core) Ratings() map[int64]State {
	out := make(map[int64]State, len(c.states))
	for id, s := range c.states {
		out[id] = s
	}
	return out
}
