package glicko2

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// PlayerMapEvent is one player's rating change from one map in the
// map-specific variant.
type PlayerMapEvent struct {
	PlayerID               int64
	TeamID                 int64
	OpponentTeamID         int64
	MatchID                int64
	MapID                  int64
	MapNumber              int
	MapName                string
	EventTime              time.Time
	Won                    bool
	ActualScore            float64
	ExpectedScore          float64
	PreGlobalRating        float64
	PreMapRating           float64
	PreEffectiveRating     float64
	PreGlobalRD            float64
	PreMapRD               float64
	PreEffectiveRD         float64
	PreGlobalVolatility    float64
	PreMapVolatility       float64
	PreEffectiveVolatility float64
	RatingDelta            float64
	RDDelta                float64
	VolatilityDelta        float64
	PostGlobalRating       float64
	PostMapRating          float64
	PostEffectiveRating    float64
	PostGlobalRD           float64
	PostMapRD              float64
	PostEffectiveRD        float64
	PostGlobalVolatility   float64
	PostMapVolatility      float64
	PostEffectiveVol       float64
	MapGamesPlayedPre      int
	MapBlendWeight         float64
	Tau                    float64
	RatingPeriodDays       float64
	InitialRating          float64
	InitialRD              float64
	InitialVolatility      float64
	MapPriorGames          float64
}

// MapSpecificPlayerCalculator blends per-map and global player Glicko-2 state.
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
	s := c.initialState()
	c.mapStates[key] = s
	return s
}

func (c *MapSpecificPlayerCalculator) inflatedMapRD(playerID int64, mapName string, rd, volatility float64, at time.Time) float64 {
	last, ok := c.tracker.LastEvent(playerID, mapName)
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

func (c *MapSpecificPlayerCalculator) sidePreSides(participants []result.PlayerMapParticipant, mapName string, at time.Time) map[int64]mapSide {
	state := make(map[int64]mapSide, len(participants))
	for _, p := range participants {
		globalState := c.state(p.PlayerID)
		global := State{
			Rating:     globalState.Rating,
			RD:         c.inflatedRD(p.PlayerID, globalState.RD, globalState.Volatility, at),
			Volatility: globalState.Volatility,
		}
		stored := c.mapState(p.PlayerID, mapName)
		mapPre := State{
			Rating:     stored.Rating,
			RD:         c.inflatedMapRD(p.PlayerID, mapName, stored.RD, stored.Volatility, at),
			Volatility: stored.Volatility,
		}
		weight := c.tracker.BlendWeight(p.PlayerID, mapName)
		state[p.PlayerID] = mapSide{
			global:   global,
			mapState: mapPre,
			gamesPre: c.tracker.GamesPlayed(p.PlayerID, mapName),
			weight:   weight,
			effective: State{
				Rating:     rating.Blend(weight, mapPre.Rating, global.Rating),
				RD:         rating.Blend(weight, mapPre.RD, global.RD),
				Volatility: rating.Blend(weight, mapPre.Volatility, global.Volatility),
			},
		}
	}
	return state
}

func averageEffective(state map[int64]mapSide) State {
	var avg State
	for _, s := range state {
		avg.Rating += s.effective.Rating
		avg.RD += s.effective.RD
		avg.Volatility += s.effective.Volatility
	}
	n := float64(len(state))
	avg.Rating /= n
	avg.RD /= n
	avg.Volatility /= n
	return avg
}

// Process applies one map result and returns one event per listed player,
// side 1 players first.
func (c *MapSpecificPlayerCalculator) Process(r result.PlayerMapResult) ([]PlayerMapEvent, error) {
	if err := rating.ValidatePlayerMap(r); err != nil {
		return nil, err
	}

	mapName := rating.NormalizeMapName(r.MapName)
	team1State := c.sidePreSides(r.Team1Players, mapName, r.EventTime)
	team2State := c.sidePreSides(r.Team2Players, mapName, r.EventTime)

	team1Avg := averageEffective(team1State)
	team2Avg := averageEffective(team2State)

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	events := make([]PlayerMapEvent, 0, len(r.Team1Players)+len(r.Team2Players))

	side := func(participants []result.PlayerMapParticipant, state map[int64]mapSide,
		teamID, opponentTeamID int64, actual float64, opponentAvg State) error {
		for _, p := range participants {
			s := state[p.PlayerID]
			expectedScore := ExpectedScore(s.effective.Rating, s.effective.RD, opponentAvg.Rating, opponentAvg.RD)
			effectivePost, err := c.update(s.effective, opponentAvg, actual)
			if err != nil {
				return err
			}

			ratingDelta := effectivePost.Rating - s.effective.Rating
			rdDelta := effectivePost.RD - s.effective.RD
			volDelta := effectivePost.Volatility - s.effective.Volatility

			globalPost := State{
				Rating:     s.global.Rating + ratingDelta,
				RD:         c.clampRD(s.global.RD + rdDelta),
				Volatility: clampVolatility(s.global.Volatility + volDelta),
			}
			mapPost := State{
				Rating:     s.mapState.Rating + ratingDelta,
				RD:         c.clampRD(s.mapState.RD + rdDelta),
				Volatility: clampVolatility(s.mapState.Volatility + volDelta),
			}

			c.store(p.PlayerID, globalPost, r.EventTime)
			c.mapStates[rating.MapKey{EntityID: p.PlayerID, MapName: mapName}] = mapPost
			c.tracker.Record(p.PlayerID, mapName, r.EventTime)

			events = append(events, PlayerMapEvent{
				PlayerID:               p.PlayerID,
				TeamID:                 teamID,
				OpponentTeamID:         opponentTeamID,
				MatchID:                r.MatchID,
				MapID:                  r.MapID,
				MapNumber:              r.MapNumber,
				MapName:                mapName,
				EventTime:              r.EventTime,
				Won:                    actual == 1.0,
				ActualScore:            actual,
				ExpectedScore:          expectedScore,
				PreGlobalRating:        s.global.Rating,
				PreMapRating:           s.mapState.Rating,
				PreEffectiveRating:     s.effective.Rating,
				PreGlobalRD:            s.global.RD,
				PreMapRD:               s.mapState.RD,
				PreEffectiveRD:         s.effective.RD,
				PreGlobalVolatility:    s.global.Volatility,
				PreMapVolatility:       s.mapState.Volatility,
				PreEffectiveVolatility: s.effective.Volatility,
				RatingDelta:            ratingDelta,
				RDDelta:                rdDelta,
				VolatilityDelta:        volDelta,
				PostGlobalRating:       globalPost.Rating,
				PostMapRating:          mapPost.Rating,
				PostEffectiveRating:    rating.Blend(s.weight, mapPost.Rating, globalPost.Rating),
				PostGlobalRD:           globalPost.RD,
				PostMapRD:              mapPost.RD,
				PostEffectiveRD:        rating.Blend(s.weight, mapPost.RD, globalPost.RD),
				PostGlobalVolatility:   globalPost.Volatility,
				PostMapVolatility:      mapPost.Volatility,
				PostEffectiveVol:       rating.Blend(s.weight, mapPost.Volatility, globalPost.Volatility),
				MapGamesPlayedPre:      s.gamesPre,
				MapBlendWeight:         s.weight,
				Tau:                    c.params.Tau,
				RatingPeriodDays:       c.params.RatingPeriodDays,
				InitialRating:          c.params.InitialRating,
				InitialRD:              c.params.InitialRD,
				InitialVolatility:      c.params.InitialVolatility,
				MapPriorGames:          c.msParams.MapPriorGames,
			})
		}
		return nil
	}

	if err := side(r.Team1Players, team1State, r.Team1ID, r.Team2ID, team1Actual, team2Avg); err != nil {
		return nil, err
	}
	if err := side(r.Team2Players, team2State, r.Team2ID, r.Team1ID, team2Actual, team1Avg); err != nil {
		return nil, err
	}
	return events, nil
}
