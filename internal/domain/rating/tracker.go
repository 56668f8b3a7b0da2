package rating

import (
	"strings"
	"time"
)

// UnknownMap is the normalized name used when the source carries no map name.
const UnknownMap = "UNKNOWN"

// NormalizeMapName canonicalizes a raw map name. Whitespace is trimmed and
// the name is uppercased so that "de_dust2" and " DE_DUST2 " collapse to the
// same tracker key. An empty name becomes UnknownMap.
func NormalizeMapName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return UnknownMap
	}
	return n
}

// MapKey addresses one entity's per-map state.
type MapKey struct {
	EntityID int64
	MapName  string
}

// MapTracker counts how often each entity has played each map and remembers
// when. The blend weight grows from 0 toward 1 as an entity accumulates games
// on a map, shifting the effective rating from the global tracker to the
// per-map one.
type MapTracker struct {
	prior     float64
	games     map[MapKey]int
	lastEvent map[MapKey]time.Time
}

// NewMapTracker builds a tracker with the given prior game count. The prior
// acts as pseudo-observations of the global rating.
func NewMapTracker(priorGames float64) *MapTracker {
	return &MapTracker{
		prior:     priorGames,
		games:     make(map[MapKey]int),
		lastEvent: make(map[MapKey]time.Time),
	}
}

// GamesPlayed returns how many results the entity has on the map.
func (t *MapTracker) GamesPlayed(entityID int64, mapName string) int {
	return t.games[MapKey{EntityID: entityID, MapName: mapName}]
}

// LastEvent returns the time of the entity's most recent result on the map
// and whether one exists.
func (t *MapTracker) LastEvent(entityID int64, mapName string) (time.Time, bool) {
	at, ok := t.lastEvent[MapKey{EntityID: entityID, MapName: mapName}]
	return at, ok
}

// BlendWeight returns games/(games+prior) for the entity on the map.
// It is 0 before the first recorded game and approaches 1 with experience.
// A non-positive prior means the per-map rating is fully trusted.
func (t *MapTracker) BlendWeight(entityID int64, mapName string) float64 {
	if t.prior <= 0 {
		return 1
	}
	n := float64(t.GamesPlayed(entityID, mapName))
	return n / (n + t.prior)
}

// Record notes one played result for the entity on the map.
func (t *MapTracker) Record(entityID int64, mapName string, at time.Time) {
	k := MapKey{EntityID: entityID, MapName: mapName}
	t.games[k]++
	t.lastEvent[k] = at
}

// Blend mixes a per-map value into a global one with the given weight.
func Blend(weight, mapValue, globalValue float64) float64 {
	return weight*mapValue + (1-weight)*globalValue
}
