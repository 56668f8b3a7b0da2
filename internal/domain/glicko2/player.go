package glicko2

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// PlayerEvent is one player's rating change from one map.
type PlayerEvent struct {
	PlayerID          int64
	TeamID            int64
	OpponentTeamID    int64
	MatchID           int64
	MapID             int64
	MapNumber         int
	EventTime         time.Time
	Won               bool
	ActualScore       float64
	ExpectedScore     float64
	PreRating         float64
	PreRD             float64
	PreVolatility     float64
	RatingDelta       float64
	RDDelta           float64
	VolatilityDelta   float64
	PostRating        float64
	PostRD            float64
	PostVolatility    float64
	Tau               float64
	RatingPeriodDays  float64
	InitialRating     float64
	InitialRD         float64
	InitialVolatility float64
}

// PlayerCalculator replays map results into per-player Glicko-2 events. The
// opposing side's average rating and RD stand in for the opponent in each
// player's one-result rating period.
type PlayerCalculator struct {
	*core
}

// NewPlayerCalculator builds a calculator with empty state.
func NewPlayerCalculator(params Parameters) *PlayerCalculator {
	return &PlayerCalculator{core: newCore(params)}
}

func (c *core) sidePreStates(playerIDs []int64, at time.Time) map[int64]State {
	pre := make(map[int64]State, len(playerIDs))
	for _, id := range playerIDs {
		s := c.state(id)
		pre[id] = State{
			Rating:     s.Rating,
			RD:         c.inflatedRD(id, s.RD, s.Volatility, at),
			Volatility: s.Volatility,
		}
	}
	return pre
}

func averageState(pre map[int64]State) State {
	var avg State
	for _, s := range pre {
		avg.Rating += s.Rating
		avg.RD += s.RD
		avg.Volatility += s.Volatility
	}
	n := float64(len(pre))
	avg.Rating /= n
	avg.RD /= n
	avg.Volatility /= n
	return avg
}

func mapPlayerIDs(participants []result.PlayerMapParticipant) []int64 {
	ids := make([]int64, len(participants))
	for i, p := range participants {
		ids[i] = p.PlayerID
	}
	return ids
}

// Process applies one map result and returns one event per listed player,
// side 1 players first.
func (c *PlayerCalculator) Process(r result.PlayerMapResult) ([]PlayerEvent, error) {
	if err := rating.ValidatePlayerMap(r); err != nil {
		return nil, err
	}

	team1Pre := c.sidePreStates(mapPlayerIDs(r.Team1Players), r.EventTime)
	team2Pre := c.sidePreStates(mapPlayerIDs(r.Team2Players), r.EventTime)
	team1Avg := averageState(team1Pre)
	team2Avg := averageState(team2Pre)

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	events := make([]PlayerEvent, 0, len(r.Team1Players)+len(r.Team2Players))

	side := func(participants []result.PlayerMapParticipant, pre map[int64]State,
		teamID, opponentTeamID int64, actual float64, opponentAvg State) error {
		for _, p := range participants {
			preState := pre[p.PlayerID]
			expectedScore := ExpectedScore(preState.Rating, preState.RD, opponentAvg.Rating, opponentAvg.RD)
			post, err := c.update(preState, opponentAvg, actual)
			if err != nil {
				return err
			}
			c.store(p.PlayerID, post, r.EventTime)

			events = append(events, PlayerEvent{
				PlayerID:          p.PlayerID,
				TeamID:            teamID,
				OpponentTeamID:    opponentTeamID,
				MatchID:           r.MatchID,
				MapID:             r.MapID,
				MapNumber:         r.MapNumber,
				EventTime:         r.EventTime,
				Won:               actual == 1.0,
				ActualScore:       actual,
				ExpectedScore:     expectedScore,
				PreRating:         preState.Rating,
				PreRD:             preState.RD,
				PreVolatility:     preState.Volatility,
				RatingDelta:       post.Rating - preState.Rating,
				RDDelta:           post.RD - preState.RD,
				VolatilityDelta:   post.Volatility - preState.Volatility,
				PostRating:        post.Rating,
				PostRD:            post.RD,
				PostVolatility:    post.Volatility,
				Tau:               c.params.Tau,
				RatingPeriodDays:  c.params.RatingPeriodDays,
				InitialRating:     c.params.InitialRating,
				InitialRD:         c.params.InitialRD,
				InitialVolatility: c.params.InitialVolatility,
			})
		}
		return nil
	}

	if err := side(r.Team1Players, team1Pre, r.Team1ID, r.Team2ID, team1Actual, team2Avg); err != nil {
		return nil, err
	}
	if err := side(r.Team2Players, team2Pre, r.Team2ID, r.Team1ID, team2Actual, team1Avg); err != nil {
		return nil, err
	}
	return events, nil
}
