package openskill

import (
	"math"
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// PlayerMapEvent is one player's skill change from one map in the
// map-specific variant.
type PlayerMapEvent struct {
	PlayerID          int64
	TeamID            int64
	OpponentTeamID    int64
	MatchID           int64
	MapID             int64
	MapNumber         int
	MapName           string
	EventTime         time.Time
	Won               bool
	ActualScore       float64
	ExpectedScore     float64
	PreGlobalMu       float64
	PreMapMu          float64
	PreEffectiveMu    float64
	PreGlobalSigma    float64
	PreMapSigma       float64
	PreEffectiveSigma float64
	PreEffectiveOrd   float64
	MuDelta           float64
	SigmaDelta        float64
	PostGlobalMu      float64
	PostMapMu         float64
	PostEffectiveMu   float64
	PostGlobalSigma   float64
	PostMapSigma      float64
	PostEffSigma      float64
	PostEffectiveOrd  float64
	MapGamesPlayedPre int
	MapBlendWeight    float64
	Beta              float64
	Kappa             float64
	Tau               float64
	LimitSigma        bool
	Balance           bool
	OrdinalZ          float64
	InitialMu         float64
	InitialSigma      float64
	MapPriorGames     float64
}

// MapSpecificPlayerCalculator blends per-map and global player skill. The
// blended per-player states form the model teams and the resulting deltas
// feed both books.
type MapSpecificPlayerCalculator struct {
	*core
	msParams  MapSpecificParameters
	mapStates map[rating.MapKey]State
	tracker   *rating.MapTracker
}

// NewMapSpecificPlayerCalculator builds a calculator with empty state.
func NewMapSpecificPlayerCalculator(params MapSpecificParameters) *MapSpecificPlayerCalculator {
	return &MapSpecificPlayerCalculator{
		core:      newCore(params.Parameters),
		msParams:  params,
		mapStates: make(map[rating.MapKey]State),
		tracker:   rating.NewMapTracker(params.MapPriorGames),
	}
}

func (c *MapSpecificPlayerCalculator) mapState(playerID int64, mapName string) State {
	key := rating.MapKey{EntityID: playerID, MapName: mapName}
	if s, ok := c.mapStates[key]; ok {
		return s
	}
	s := State{Mu: c.params.InitialMu, Sigma: c.params.InitialSigma}
	c.mapStates[key] = s
	return s
}

func (c *MapSpecificPlayerCalculator) sidePreSides(participants []result.PlayerMapParticipant, mapName string) []mapSide {
	sides := make([]mapSide, len(participants))
	for i, p := range participants {
		global := c.state(p.PlayerID)
		mapPre := c.mapState(p.PlayerID, mapName)
		weight := c.tracker.BlendWeight(p.PlayerID, mapName)
		sides[i] = mapSide{
			global:   global,
			mapState: mapPre,
			gamesPre: c.tracker.GamesPlayed(p.PlayerID, mapName),
			weight:   weight,
			effective: State{
				Mu:    rating.Blend(weight, mapPre.Mu, global.Mu),
				Sigma: math.Max(rating.Blend(weight, mapPre.Sigma, global.Sigma), sigmaFloor),
			},
		}
	}
	return sides
}

func effectiveStates(sides []mapSide) []State {
	states := make([]State, len(sides))
	for i, s := range sides {
		states[i] = s.effective
	}
	return states
}

// Process applies one map result and returns one event per listed player,
// side 1 players first.
func (c *MapSpecificPlayerCalculator) Process(r result.PlayerMapResult) ([]PlayerMapEvent, error) {
	if err := rating.ValidatePlayerMap(r); err != nil {
		return nil, err
	}

	mapName := rating.NormalizeMapName(r.MapName)
	team1Sides := c.sidePreSides(r.Team1Players, mapName)
	team2Sides := c.sidePreSides(r.Team2Players, mapName)

	team1Expected, team2Expected := c.model.predictWin(effectiveStates(team1Sides), effectiveStates(team2Sides))

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	team1Post, team2Post := c.model.rate(effectiveStates(team1Sides), effectiveStates(team2Sides), team1Actual == 1.0)

	events := make([]PlayerMapEvent, 0, len(r.Team1Players)+len(r.Team2Players))

	side := func(participants []result.PlayerMapParticipant, sides []mapSide, posts []State,
		teamID, opponentTeamID int64, actual, expected float64) {
		for i, p := range participants {
			s := sides[i]
			muDelta := posts[i].Mu - s.effective.Mu
			sigmaDelta := posts[i].Sigma - s.effective.Sigma

			globalPost := State{
				Mu:    s.global.Mu + muDelta,
				Sigma: math.Max(s.global.Sigma+sigmaDelta, sigmaFloor),
			}
			mapPost := State{
				Mu:    s.mapState.Mu + muDelta,
				Sigma: math.Max(s.mapState.Sigma+sigmaDelta, sigmaFloor),
			}

			c.store(p.PlayerID, globalPost)
			c.mapStates[rating.MapKey{EntityID: p.PlayerID, MapName: mapName}] = mapPost
			c.tracker.Record(p.PlayerID, mapName, r.EventTime)

			blendedPost := State{
				Mu:    rating.Blend(s.weight, mapPost.Mu, globalPost.Mu),
				Sigma: rating.Blend(s.weight, mapPost.Sigma, globalPost.Sigma),
			}

			events = append(events, PlayerMapEvent{
				PlayerID:          p.PlayerID,
				TeamID:            teamID,
				OpponentTeamID:    opponentTeamID,
				MatchID:           r.MatchID,
				MapID:             r.MapID,
				MapNumber:         r.MapNumber,
				MapName:           mapName,
				EventTime:         r.EventTime,
				Won:               actual == 1.0,
				ActualScore:       actual,
				ExpectedScore:     expected,
				PreGlobalMu:       s.global.Mu,
				PreMapMu:          s.mapState.Mu,
				PreEffectiveMu:    s.effective.Mu,
				PreGlobalSigma:    s.global.Sigma,
				PreMapSigma:       s.mapState.Sigma,
				PreEffectiveSigma: s.effective.Sigma,
				PreEffectiveOrd:   c.params.Ordinal(s.effective),
				MuDelta:           muDelta,
				SigmaDelta:        sigmaDelta,
				PostGlobalMu:      globalPost.Mu,
				PostMapMu:         mapPost.Mu,
				PostEffectiveMu:   blendedPost.Mu,
				PostGlobalSigma:   globalPost.Sigma,
				PostMapSigma:      mapPost.Sigma,
				PostEffSigma:      blendedPost.Sigma,
				PostEffectiveOrd:  c.params.Ordinal(blendedPost),
				MapGamesPlayedPre: s.gamesPre,
				MapBlendWeight:    s.weight,
				Beta:              c.params.Beta,
				Kappa:             c.params.Kappa,
				Tau:               c.params.Tau,
				LimitSigma:        c.params.LimitSigma,
				Balance:           c.params.Balance,
				OrdinalZ:          c.params.OrdinalZ,
				InitialMu:         c.params.InitialMu,
				InitialSigma:      c.params.InitialSigma,
				MapPriorGames:     c.msParams.MapPriorGames,
			})
		}
	}

	side(r.Team1Players, team1Sides, team1Post, r.Team1ID, r.Team2ID, team1Actual, team1Expected)
	side(r.Team2Players, team2Sides, team2Post, r.Team2ID, r.Team1ID, team2Actual, team2Expected)
	return events, nil
}
