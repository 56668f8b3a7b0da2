package glicko2

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// TeamMapEvent is one team's rating change from one map in the map-specific
// variant. Global, per-map, and blended views of the triple are recorded.
type TeamMapEvent struct {
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

// mapSide is one side's blended pre-update view for one map.
type mapSide struct {
	global    State
	mapState  State
	gamesPre  int
	weight    float64
	effective State
}

// MapSpecificTeamCalculator blends per-map and global team Glicko-2 state.
// The single delta from the blended update feeds both trackers.
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
	s := c.initialState()
	c.mapStates[key] = s
	return s
}

// inflatedMapRD mirrors inflatedRD using the map tracker's last-event times.
func (c *MapSpecificTeamCalculator) inflatedMapRD(teamID int64, mapName string, rd, volatility float64, at time.Time) float64 {
	last, ok := c.tracker.LastEvent(teamID, mapName)
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

func (c *MapSpecificTeamCalculator) sideState(teamID int64, mapName string, at time.Time) mapSide {
	globalState := c.state(teamID)
	global := State{
		Rating:     globalState.Rating,
		RD:         c.inflatedRD(teamID, globalState.RD, globalState.Volatility, at),
		Volatility: globalState.Volatility,
	}
	stored := c.mapState(teamID, mapName)
	mapPre := State{
		Rating:     stored.Rating,
		RD:         c.inflatedMapRD(teamID, mapName, stored.RD, stored.Volatility, at),
		Volatility: stored.Volatility,
	}
	weight := c.tracker.BlendWeight(teamID, mapName)
	return mapSide{
		global:   global,
		mapState: mapPre,
		gamesPre: c.tracker.GamesPlayed(teamID, mapName),
		weight:   weight,
		effective: State{
			Rating:     rating.Blend(weight, mapPre.Rating, global.Rating),
			RD:         rating.Blend(weight, mapPre.RD, global.RD),
			Volatility: rating.Blend(weight, mapPre.Volatility, global.Volatility),
		},
	}
}

// Process applies one map result and returns both team events, side 1 first.
func (c *MapSpecificTeamCalculator) Process(r result.TeamMapResult) ([]TeamMapEvent, error) {
	if err := rating.ValidateTeamMap(r); err != nil {
		return nil, err
	}

	mapName := rating.NormalizeMapName(r.MapName)
	team1 := c.sideState(r.Team1ID, mapName, r.EventTime)
	team2 := c.sideState(r.Team2ID, mapName, r.EventTime)

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	team1Expected := ExpectedScore(team1.effective.Rating, team1.effective.RD, team2.effective.Rating, team2.effective.RD)
	team2Expected := ExpectedScore(team2.effective.Rating, team2.effective.RD, team1.effective.Rating, team1.effective.RD)

	team1Post, err := c.update(team1.effective, team2.effective, team1Actual)
	if err != nil {
		return nil, err
	}
	team2Post, err := c.update(team2.effective, team1.effective, team2Actual)
	if err != nil {
		return nil, err
	}

	events := make([]TeamMapEvent, 0, 2)
	apply := func(teamID, opponentID int64, side mapSide, actual, expectedScore float64, effectivePost State) {
		ratingDelta := effectivePost.Rating - side.effective.Rating
		rdDelta := effectivePost.RD - side.effective.RD
		volDelta := effectivePost.Volatility - side.effective.Volatility

		globalPost := State{
			Rating:     side.global.Rating + ratingDelta,
			RD:         c.clampRD(side.global.RD + rdDelta),
			Volatility: clampVolatility(side.global.Volatility + volDelta),
		}
		mapPost := State{
			Rating:     side.mapState.Rating + ratingDelta,
			RD:         c.clampRD(side.mapState.RD + rdDelta),
			Volatility: clampVolatility(side.mapState.Volatility + volDelta),
		}

		c.store(teamID, globalPost, r.EventTime)
		c.mapStates[rating.MapKey{EntityID: teamID, MapName: mapName}] = mapPost
		c.tracker.Record(teamID, mapName, r.EventTime)

		events = append(events, TeamMapEvent{
			TeamID:                 teamID,
			OpponentTeamID:         opponentID,
			MatchID:                r.MatchID,
			MapID:                  r.MapID,
			MapNumber:              r.MapNumber,
			MapName:                mapName,
			EventTime:              r.EventTime,
			Won:                    actual == 1.0,
			ActualScore:            actual,
			ExpectedScore:          expectedScore,
			PreGlobalRating:        side.global.Rating,
			PreMapRating:           side.mapState.Rating,
			PreEffectiveRating:     side.effective.Rating,
			PreGlobalRD:            side.global.RD,
			PreMapRD:               side.mapState.RD,
			PreEffectiveRD:         side.effective.RD,
			PreGlobalVolatility:    side.global.Volatility,
			PreMapVolatility:       side.mapState.Volatility,
			PreEffectiveVolatility: side.effective.Volatility,
			RatingDelta:            ratingDelta,
			RDDelta:                rdDelta,
			VolatilityDelta:        volDelta,
			PostGlobalRating:       globalPost.Rating,
			PostMapRating:          mapPost.Rating,
			PostEffectiveRating:    rating.Blend(side.weight, mapPost.Rating, globalPost.Rating),
			PostGlobalRD:           globalPost.RD,
			PostMapRD:              mapPost.RD,
			PostEffectiveRD:        rating.Blend(side.weight, mapPost.RD, globalPost.RD),
			PostGlobalVolatility:   globalPost.Volatility,
			PostMapVolatility:      mapPost.Volatility,
			PostEffectiveVol:       rating.Blend(side.weight, mapPost.Volatility, globalPost.Volatility),
			MapGamesPlayedPre:      side.gamesPre,
			MapBlendWeight:         side.weight,
			Tau:                    c.params.Tau,
			RatingPeriodDays:       c.params.RatingPeriodDays,
			InitialRating:          c.params.InitialRating,
			InitialRD:              c.params.InitialRD,
			InitialVolatility:      c.params.InitialVolatility,
			MapPriorGames:          c.msParams.MapPriorGames,
		})
	}

	apply(r.Team1ID, r.Team2ID, team1, team1Actual, team1Expected, team1Post)
	apply(r.Team2ID, r.Team1ID, team2, team2Actual, team2Expected, team2Post)
	return events, nil
}
