package glicko2

import (
	"time"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

// PlayerMatchEvent is one player's rating change from one decisive match.
type PlayerMatchEvent struct {
	PlayerID          int64
	TeamID            int64
	OpponentTeamID    int64
	MatchID           int64
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
	TeamMapsWon       int
	OpponentMapsWon   int
}

// PlayerMatchCalculator replays match results into per-player Glicko-2 events.
type PlayerMatchCalculator struct {
	*core
}

// NewPlayerMatchCalculator builds a calculator with empty state.
func NewPlayerMatchCalculator(params Parameters) *PlayerMatchCalculator {
	return &PlayerMatchCalculator{core: newCore(params)}
}

func matchPlayerIDs(participants []result.PlayerMatchParticipant) []int64 {
	ids := make([]int64, len(participants))
	for i, p := range participants {
		ids[i] = p.PlayerID
	}
	return ids
}

// Process applies one match result and returns one event per listed player,
// side 1 players first.
func (c *PlayerMatchCalculator) Process(r result.PlayerMatchResult) ([]PlayerMatchEvent, error) {
	if err := rating.ValidatePlayerMatch(r); err != nil {
		return nil, err
	}

	team1Pre := c.sidePreStates(matchPlayerIDs(r.Team1Players), r.EventTime)
	team2Pre := c.sidePreStates(matchPlayerIDs(r.Team2Players), r.EventTime)
	team1Avg := averageState(team1Pre)
	team2Avg := averageState(team2Pre)

	team1Actual := rating.Actual(r.WinnerID == r.Team1ID)
	team2Actual := 1.0 - team1Actual

	events := make([]PlayerMatchEvent, 0, len(r.Team1Players)+len(r.Team2Players))

	side := func(participants []result.PlayerMatchParticipant, pre map[int64]State,
		teamID, opponentTeamID int64, actual float64, opponentAvg State, mapsWon, opponentMapsWon int) error {
		for _, p := range participants {
			preState := pre[p.PlayerID]
			expectedScore := ExpectedScore(preState.Rating, preState.RD, opponentAvg.Rating, opponentAvg.RD)
			post, err := c.update(preState, opponentAvg, actual)
			if err != nil {
				return err
			}
			c.store(p.PlayerID, post, r.EventTime)

			events = append(events, PlayerMatchEvent{
				PlayerID:          p.PlayerID,
				TeamID:            teamID,
				OpponentTeamID:    opponentTeamID,
				MatchID:           r.MatchID,
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
				TeamMapsWon:       mapsWon,
				OpponentMapsWon:   opponentMapsWon,
			})
		}
		return nil
	}

	if err := side(r.Team1Players, team1Pre, r.Team1ID, r.Team2ID, team1Actual, team2Avg, r.Team1MapsWon, r.Team2MapsWon); err != nil {
		return nil, err
	}
	if err := side(r.Team2Players, team2Pre, r.Team2ID, r.Team1ID, team2Actual, team1Avg, r.Team2MapsWon, r.Team1MapsWon); err != nil {
		return nil, err
	}
	return events, nil
}
