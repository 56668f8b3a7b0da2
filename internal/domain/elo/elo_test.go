package elo

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func at(day int) time.Time { return time.Date(2024, 1, day, 18, 0, 0, 0, time.UTC) }

func mapResult(day int) result.TeamMapResult {
	return result.TeamMapResult{
		MatchID:   100,
		MapID:     int64(1000 + day),
		MapNumber: 1,
		EventTime: at(day),
		Team1ID:   1,
		Team2ID:   2,
		WinnerID:  1,
	}
}

func TestExpectedScore(t *testing.T) {
	Convey("Expected scores follow the logistic curve and sum to one", t, func() {
		So(ExpectedScore(1500, 1500, 400), ShouldAlmostEqual, 0.5, 1e-12)
		So(ExpectedScore(1500, 1900, 400), ShouldAlmostEqual, 1.0/11.0, 1e-12)
		e1 := ExpectedScore(1621, 1473, 400)
		e2 := ExpectedScore(1473, 1621, 400)
		So(e1+e2, ShouldAlmostEqual, 1.0, 1e-12)
	})
}

func TestTeamCalculator(t *testing.T) {
	Convey("Given a team calculator with default parameters", t, func() {
		calc := NewTeamCalculator(DefaultParameters())

		Convey("A first map moves the winner up and the loser down symmetrically", func() {
			events, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)

			So(events[0].PreRating, ShouldEqual, DefaultInitialRating)
			So(events[1].PreRating, ShouldEqual, DefaultInitialRating)
			So(events[0].Delta, ShouldAlmostEqual, 10.0, 1e-12)
			So(events[1].Delta, ShouldAlmostEqual, -10.0, 1e-12)
			So(events[0].Delta+events[1].Delta, ShouldAlmostEqual, 0.0, 1e-12)
			So(events[0].PostRating+events[1].PostRating,
				ShouldAlmostEqual, events[0].PreRating+events[1].PreRating, 1e-9)
			So(events[0].ExpectedScore+events[1].ExpectedScore, ShouldAlmostEqual, 1.0, 1e-12)
			So(events[0].Won, ShouldBeTrue)
			So(events[1].Won, ShouldBeFalse)
		})

		Convey("State persists across maps", func() {
			_, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			So(calc.Rating(1), ShouldBeGreaterThan, DefaultInitialRating)
			So(calc.Rating(2), ShouldBeLessThan, DefaultInitialRating)
			So(calc.TrackedEntityCount(), ShouldEqual, 2)
		})

		Convey("Validation failures carry the sentinel", func() {
			bad := mapResult(1)
			bad.Team2ID = 1
			_, err := calc.Process(bad)
			So(errors.Is(err, rating.ErrIdenticalSides), ShouldBeTrue)

			bad = mapResult(1)
			bad.WinnerID = 7
			_, err = calc.Process(bad)
			So(errors.Is(err, rating.ErrForeignWinner), ShouldBeTrue)
		})
	})

	Convey("Multipliers scale the effective K", t, func() {
		Convey("LAN results earn the LAN multiplier", func() {
			params := DefaultParameters()
			params.LANMultiplier = 1.5
			calc := NewTeamCalculator(params)
			r := mapResult(1)
			r.IsLAN = true
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor*1.5, 1e-12)
		})

		Convey("A clean sweep earns the full round domination multiplier", func() {
			params := DefaultParameters()
			params.RoundDominationMultiplier = 2.0
			calc := NewTeamCalculator(params)
			r := mapResult(1)
			r.Team1Score = intPtr(13)
			r.Team2Score = intPtr(0)
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor*2.0, 1e-12)
		})

		Convey("Missing scores leave round domination neutral", func() {
			params := DefaultParameters()
			params.RoundDominationMultiplier = 2.0
			calc := NewTeamCalculator(params)
			events, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor, 1e-12)
		})

		Convey("KD domination caps at a gap of one", func() {
			params := DefaultParameters()
			params.KDRatioDominationMultiplier = 1.4
			calc := NewTeamCalculator(params)
			r := mapResult(1)
			r.Team1KDRatio = floatPtr(2.6)
			r.Team2KDRatio = floatPtr(0.4)
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor*1.4, 1e-12)
		})

		Convey("The BO3 multiplier applies only to BO3 results", func() {
			params := DefaultParameters()
			params.BO3Multiplier = 1.2
			calc := NewTeamCalculator(params)
			r := mapResult(1)
			r.MatchFormat = "BO3"
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor*1.2, 1e-12)

			r2 := mapResult(2)
			events, err = calc.Process(r2)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor, 1e-12)
		})

		Convey("An unfavored winner earns the unfavored multiplier", func() {
			params := DefaultParameters()
			params.UnfavoredMultiplier = 1.3
			calc := NewTeamCalculator(params)
			_, err := calc.Process(mapResult(1)) // team 1 now favored
			So(err, ShouldBeNil)
			r := mapResult(2)
			r.WinnerID = 2
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor*1.3, 1e-12)
		})
	})

	Convey("The recency multiplier interpolates between now and the lookback edge", t, func() {
		params := DefaultParameters()
		params.RecencyMinMultiplier = 0.5
		asOf := at(31)
		calc := NewTeamCalculator(params, WithLookbackDays(30), WithAsOf(asOf))

		Convey("A result at as-of time is fully weighted", func() {
			r := mapResult(1)
			r.EventTime = asOf
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor, 1e-12)
		})

		Convey("A result at the lookback boundary gets the floor", func() {
			r := mapResult(1)
			r.EventTime = asOf.AddDate(0, 0, -30)
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].KFactor, ShouldAlmostEqual, DefaultKFactor*0.5, 1e-12)
		})
	})

	Convey("Inactivity decay pulls idle ratings toward the initial value", t, func() {
		params := DefaultParameters()
		params.InactivityHalfLifeDays = 30
		calc := NewTeamCalculator(params)

		_, err := calc.Process(mapResult(1))
		So(err, ShouldBeNil)
		postRating := calc.Rating(1)
		So(postRating, ShouldAlmostEqual, 1510.0, 1e-9)

		// One half-life later the surplus over 1500 is halved.
		r := result.TeamMapResult{
			MatchID: 101, MapID: 2000, MapNumber: 1,
			EventTime: at(31),
			Team1ID:   1, Team2ID: 3, WinnerID: 1,
		}
		events, err := calc.Process(r)
		So(err, ShouldBeNil)
		So(events[0].PreRating, ShouldAlmostEqual, 1505.0, 1e-9)
	})
}

func TestTeamMatchCalculator(t *testing.T) {
	Convey("Given a match calculator", t, func() {
		calc := NewTeamMatchCalculator(DefaultParameters())
		r := result.TeamMatchResult{
			MatchID: 50, EventTime: at(5),
			Team1ID: 1, Team2ID: 2, WinnerID: 2,
			Team1MapsWon: 1, Team2MapsWon: 2,
		}

		Convey("Events mirror the map variant and carry map-win counts", func() {
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[0].Won, ShouldBeFalse)
			So(events[1].Won, ShouldBeTrue)
			So(events[0].TeamMapsWon, ShouldEqual, 1)
			So(events[0].OpponentMapsWon, ShouldEqual, 2)
			So(events[0].Delta+events[1].Delta, ShouldAlmostEqual, 0.0, 1e-12)
		})

		Convey("Identical sides are rejected", func() {
			bad := r
			bad.Team2ID = 1
			_, err := calc.Process(bad)
			So(errors.Is(err, rating.ErrIdenticalSides), ShouldBeTrue)
		})
	})
}

func TestMapSpecificTeamCalculator(t *testing.T) {
	Convey("Given a map-specific team calculator", t, func() {
		calc := NewMapSpecificTeamCalculator(DefaultMapSpecificParameters())

		Convey("First sight of a map blends fully from the global rating", func() {
			r := mapResult(1)
			r.MapName = "de_mirage"
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events[0].MapName, ShouldEqual, "DE_MIRAGE")
			So(events[0].MapBlendWeight, ShouldEqual, 0.0)
			So(events[0].MapGamesPlayedPre, ShouldEqual, 0)
			So(events[0].PreEffectiveRating, ShouldEqual, events[0].PreGlobalRating)
		})

		Convey("Blend weight strictly increases per map played", func() {
			prev := -1.0
			for day := 1; day <= 4; day++ {
				r := mapResult(day)
				r.MapName = "de_nuke"
				events, err := calc.Process(r)
				So(err, ShouldBeNil)
				So(events[0].MapBlendWeight, ShouldBeGreaterThan, prev)
				prev = events[0].MapBlendWeight
			}
		})

		Convey("One delta feeds both trackers", func() {
			r := mapResult(1)
			r.MapName = "de_inferno"
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			e := events[0]
			So(e.PostGlobalRating-e.PreGlobalRating, ShouldAlmostEqual, e.Delta, 1e-12)
			So(e.PostMapRating-e.PreMapRating, ShouldAlmostEqual, e.Delta, 1e-12)
		})

		Convey("An empty map name is tracked as UNKNOWN", func() {
			events, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			So(events[0].MapName, ShouldEqual, rating.UnknownMap)
		})
	})
}

func playerMapResult(day int) result.PlayerMapResult {
	return result.PlayerMapResult{
		MatchID:   100,
		MapID:     int64(1000 + day),
		MapNumber: 1,
		EventTime: at(day),
		Team1ID:   1,
		Team2ID:   2,
		WinnerID:  1,
		Team1Players: []result.PlayerMapParticipant{
			{PlayerID: 11, TeamID: 1},
			{PlayerID: 12, TeamID: 1},
		},
		Team2Players: []result.PlayerMapParticipant{
			{PlayerID: 21, TeamID: 2},
			{PlayerID: 22, TeamID: 2},
		},
	}
}

func TestPlayerCalculator(t *testing.T) {
	Convey("Given a player calculator", t, func() {
		calc := NewPlayerCalculator(DefaultParameters())

		Convey("Every listed player gets an event with side-consistent context", func() {
			events, err := calc.Process(playerMapResult(1))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 4)
			for _, e := range events[:2] {
				So(e.TeamID, ShouldEqual, 1)
				So(e.Won, ShouldBeTrue)
				So(e.Delta, ShouldBeGreaterThan, 0)
			}
			for _, e := range events[2:] {
				So(e.TeamID, ShouldEqual, 2)
				So(e.Won, ShouldBeFalse)
				So(e.Delta, ShouldBeLessThan, 0)
			}
			// One shared effective K for the whole map.
			for _, e := range events {
				So(e.KFactor, ShouldAlmostEqual, events[0].KFactor, 1e-12)
			}
		})

		Convey("A player's own pre-rating drives their expected score", func() {
			// First map separates player 11 from player 12.
			one := playerMapResult(1)
			one.Team1Players = one.Team1Players[:1]
			one.Team2Players = one.Team2Players[:1]
			_, err := calc.Process(one)
			So(err, ShouldBeNil)

			events, err := calc.Process(playerMapResult(2))
			So(err, ShouldBeNil)
			So(events[0].PlayerID, ShouldEqual, 11)
			So(events[1].PlayerID, ShouldEqual, 12)
			So(events[0].ExpectedScore, ShouldBeGreaterThan, events[1].ExpectedScore)
		})

		Convey("Missing rosters are rejected", func() {
			r := playerMapResult(1)
			r.Team1Players = nil
			_, err := calc.Process(r)
			So(errors.Is(err, rating.ErrMissingPlayers), ShouldBeTrue)
		})
	})
}

func TestMapSpecificPlayerCalculator(t *testing.T) {
	Convey("Given a map-specific player calculator", t, func() {
		calc := NewMapSpecificPlayerCalculator(DefaultMapSpecificParameters())

		Convey("First sight of a map has zero blend weight per player", func() {
			r := playerMapResult(1)
			r.MapName = "de_ancient"
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 4)
			for _, e := range events {
				So(e.MapBlendWeight, ShouldEqual, 0.0)
				So(e.PreEffectiveRating, ShouldEqual, e.PreGlobalRating)
				So(e.MapName, ShouldEqual, "DE_ANCIENT")
			}
		})

		Convey("Per-player map state accumulates independently of other maps", func() {
			r := playerMapResult(1)
			r.MapName = "de_ancient"
			_, err := calc.Process(r)
			So(err, ShouldBeNil)

			other := playerMapResult(2)
			other.MapName = "de_dust2"
			events, err := calc.Process(other)
			So(err, ShouldBeNil)
			So(events[0].MapGamesPlayedPre, ShouldEqual, 0)

			again := playerMapResult(3)
			again.MapName = "de_ancient"
			events, err = calc.Process(again)
			So(err, ShouldBeNil)
			So(events[0].MapGamesPlayedPre, ShouldEqual, 1)
			So(events[0].MapBlendWeight, ShouldBeGreaterThan, 0.0)
		})
	})
}
