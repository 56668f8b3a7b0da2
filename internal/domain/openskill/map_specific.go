package openskill

import (
	"math"
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamMapEvent is one side's skill change from one map in the map-specific
// variant. Pre and post are reported for the global, per-map, and blended
// effective views.
type TeamMapEvent struct {
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

// mapSide bundles one side's pre-update global, per-map, and blended state.
type mapSide struct {
	global    State
	mapState  State
	gamesPre  int
	weight    float64
	effective State
}

// MapSpecificTeamCalculator blends per-map and global team skill. The
// blended state drives the update and the resulting deltas feed both books.
type MapSpecificTeamCalculator struct {
	*core
	msParams  MapSpecificParameters
	mapStates map[rating.MapKey]State
	tracker   *rating.MapTracker
}

// NewMapSpecificTeamCalculator builds a calculator with empty state.
func NewMapSpecificTeamCalculator(params MapSpecificParameters) *MapSpecificTeamCalculator {
	return &MapSpecificTeamCalculator{
		core:      newCore(params.Parameters),
		msParams:  params,
		mapStates: make(map[rating.MapKey]State),
		tracker:   rating.NewMapTracker(params.MapPriorGames),
	}
}

func (c *MapSpecificTeamCalculator) mapState(teamID int64, mapName string) State {
	key := rating.MapKey{EntityID: teamID, MapName: mapName}
	if s, ok := c.mapStates[key]; ok {
		return s
	}
	s := State{Mu: c.params.InitialMu, Sigma: c.params.InitialSigma}
	c.mapStates[key] = s
	return s
}

func (c *MapSpecificTeamCalculator) sideState(teamID int64, mapName string) mapSide {
	global := c.state(teamID)
	mapPre := c.mapState(teamID, mapName)
	weight := c.tracker.BlendWeight(teamID, mapName)
	return mapSide{
		global:   global,
		mapState: mapPre,
		gamesPre: c.tracker.GamesPlayed(teamID, mapName),
		weight:   weight,
		effective: State{
			Mu:    rating.Blend(weight, mapPre.Mu, global.Mu),
			Sigma: math.Max(rating.Blend(weight, mapPre.Sigma, global.Sigma), sigmaFloor),
		},
	}
}

// Process applies one map result and returns the two team events, side 1
// first.
func (c *MapSpecificTeamCalculator) Process(r result.TeamMapResult) ([]TeamMapEvent, error) {
	if err := rating.ValidateTeamMap(r); err != nil {
		return nil, err
	}

	mapName := rating.NormalizeMapName(r.MapName)
	team1 := c.sideState(r.Team1ID, mapName)
	team2 := c.sideState(r.Team2ID, mapName)

	team1Expected, team2Expected := c.model.predictWin([]State{team1.effective}, []State{team2.effective})

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	side1, side2 := c.model.rate([]State{team1.effective}, []State{team2.effective}, team1Actual == 1.0)

	apply := func(teamID, opponentTeamID int64, s mapSide, actual, expected float64, effectivePost State) TeamMapEvent {
		muDelta := effectivePost.Mu - s.effective.Mu
		sigmaDelta := effectivePost.Sigma - s.effective.Sigma

		globalPost := State{
			Mu:    s.global.Mu + muDelta,
			Sigma: math.Max(s.global.Sigma+sigmaDelta, sigmaFloor),
		}
		mapPost := State{
			Mu:    s.mapState.Mu + muDelta,
			Sigma: math.Max(s.mapState.Sigma+sigmaDelta, sigmaFloor),
		}

		c.store(teamID, globalPost)
		c.mapStates[rating.MapKey{EntityID: teamID, MapName: mapName}] = mapPost
		c.tracker.Record(teamID, mapName, r.EventTime)

		blendedPost := State{
			Mu:    rating.Blend(s.weight, mapPost.Mu, globalPost.Mu),
			Sigma: rating.Blend(s.weight, mapPost.Sigma, globalPost.Sigma),
		}

		return TeamMapEvent{
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
		}
	}

	return []TeamMapEvent{
		apply(r.Team1ID, r.Team2ID, team1, team1Actual, team1Expected, side1[0]),
		apply(r.Team2ID, r.Team1ID, team2, team2Actual, team2Expected, side2[0]),
	}, nil
}
