package glicko2

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

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

func TestUpdate(t *testing.T) {
	Convey("The canonical worked example reproduces Glickman's numbers", t, func() {
		// Player at 1500/200/0.06 beats 1400/30 and loses to 1550/100
		// and 1700/300, all in one rating period.
		post, err := Update(
			State{Rating: 1500, RD: 200, Volatility: 0.06},
			[]OpponentResult{
				{OpponentRating: 1400, OpponentRD: 30, Score: 1},
				{OpponentRating: 1550, OpponentRD: 100, Score: 0},
				{OpponentRating: 1700, OpponentRD: 300, Score: 0},
			},
			0.5, 1e-6,
		)
		So(err, ShouldBeNil)
		So(post.Rating, ShouldAlmostEqual, 1464.06, 0.01)
		So(post.RD, ShouldAlmostEqual, 151.52, 0.01)
		So(post.Volatility, ShouldAlmostEqual, 0.05999, 0.0001)
	})

	Convey("An empty period leaves the state untouched", t, func() {
		s := State{Rating: 1600, RD: 120, Volatility: 0.05}
		post, err := Update(s, nil, 0.5, 1e-6)
		So(err, ShouldBeNil)
		So(post, ShouldResemble, s)
	})

	Convey("Expected scores are complementary between the two sides", t, func() {
		e1 := ExpectedScore(1500, 200, 1700, 150)
		So(e1, ShouldBeLessThan, 0.5)
		So(e1, ShouldBeGreaterThan, 0.0)
	})
}

func TestTeamCalculator(t *testing.T) {
	Convey("Given a team calculator with default parameters", t, func() {
		calc := NewTeamCalculator(DefaultParameters())

		Convey("A first map moves the winner up and the loser down", func() {
			events, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[0].Won, ShouldBeTrue)
			So(events[0].RatingDelta, ShouldBeGreaterThan, 0)
			So(events[1].RatingDelta, ShouldBeLessThan, 0)
			// A played result always tightens an initial-RD state.
			So(events[0].PostRD, ShouldBeLessThan, events[0].PreRD)
			So(events[1].PostRD, ShouldBeLessThan, events[1].PreRD)
			So(events[0].PreRating, ShouldEqual, DefaultRating)
			So(events[0].ExpectedScore, ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("Post RD never escapes the configured bounds", func() {
			for day := 1; day <= 10; day++ {
				events, err := calc.Process(mapResult(day))
				So(err, ShouldBeNil)
				for _, e := range events {
					So(e.PostRD, ShouldBeLessThanOrEqualTo, DefaultMaxRD)
					So(e.PostRD, ShouldBeGreaterThanOrEqualTo, DefaultMinRD)
				}
			}
		})

		Convey("Validation failures carry the sentinel", func() {
			bad := mapResult(1)
			bad.WinnerID = 99
			_, err := calc.Process(bad)
			So(errors.Is(err, rating.ErrForeignWinner), ShouldBeTrue)
		})
	})

	Convey("Inactivity inflates the pre RD", t, func() {
		calc := NewTeamCalculator(DefaultParameters())
		_, err := calc.Process(mapResult(1))
		So(err, ShouldBeNil)
		settledRD := calc.RD(1)

		// Team 1 returns after a long break against a fresh opponent.
		r := result.TeamMapResult{
			MatchID: 200, MapID: 5000, MapNumber: 1,
			EventTime: at(1).AddDate(0, 6, 0),
			Team1ID:   1, Team2ID: 9, WinnerID: 9,
		}
		events, err := calc.Process(r)
		So(err, ShouldBeNil)
		So(events[0].PreRD, ShouldBeGreaterThan, settledRD)
		So(events[0].PreRD, ShouldBeLessThanOrEqualTo, DefaultMaxRD)
	})
}

func TestTeamMatchCalculator(t *testing.T) {
	Convey("Match events carry map-win counts and mirror the map math", t, func() {
		calc := NewTeamMatchCalculator(DefaultParameters())
		events, err := calc.Process(result.TeamMatchResult{
			MatchID: 70, EventTime: at(3),
			Team1ID: 1, Team2ID: 2, WinnerID: 1,
			Team1MapsWon: 2, Team2MapsWon: 0,
		})
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 2)
		So(events[0].TeamMapsWon, ShouldEqual, 2)
		So(events[1].TeamMapsWon, ShouldEqual, 0)
		So(events[0].RatingDelta, ShouldBeGreaterThan, 0)
		So(events[1].RatingDelta, ShouldBeLessThan, 0)
	})
}

func TestMapSpecificTeamCalculator(t *testing.T) {
	Convey("Given a map-specific team calculator", t, func() {
		calc := NewMapSpecificTeamCalculator(DefaultMapSpecificParameters())

		Convey("First sight of a map uses the global state verbatim", func() {
			r := mapResult(1)
			r.MapName = "de_train"
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			e := events[0]
			So(e.MapBlendWeight, ShouldEqual, 0.0)
			So(e.PreEffectiveRating, ShouldEqual, e.PreGlobalRating)
			So(e.PreEffectiveRD, ShouldEqual, e.PreGlobalRD)
			So(e.PreEffectiveVolatility, ShouldEqual, e.PreGlobalVolatility)
		})

		Convey("One delta feeds both trackers and keeps RD in bounds", func() {
			for day := 1; day <= 3; day++ {
				r := mapResult(day)
				r.MapName = "de_train"
				events, err := calc.Process(r)
				So(err, ShouldBeNil)
				for _, e := range events {
					So(e.PostGlobalRating-e.PreGlobalRating, ShouldAlmostEqual, e.RatingDelta, 1e-9)
					So(e.PostMapRating-e.PreMapRating, ShouldAlmostEqual, e.RatingDelta, 1e-9)
					So(e.PostGlobalRD, ShouldBeGreaterThanOrEqualTo, DefaultMinRD)
					So(e.PostMapRD, ShouldBeLessThanOrEqualTo, DefaultMaxRD)
					So(e.PostGlobalVolatility, ShouldBeGreaterThan, 0)
					So(e.PostMapVolatility, ShouldBeGreaterThan, 0)
				}
			}
		})

		Convey("Blend weight grows per map played", func() {
			prev := -1.0
			for day := 1; day <= 4; day++ {
				r := mapResult(day)
				r.MapName = "de_overpass"
				events, err := calc.Process(r)
				So(err, ShouldBeNil)
				So(events[0].MapBlendWeight, ShouldBeGreaterThan, prev)
				prev = events[0].MapBlendWeight
			}
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

func TestPlayerCalculators(t *testing.T) {
	Convey("The player map calculator rates each listed player", t, func() {
		calc := NewPlayerCalculator(DefaultParameters())
		events, err := calc.Process(playerMapResult(1))
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 4)
		for _, e := range events[:2] {
			So(e.RatingDelta, ShouldBeGreaterThan, 0)
			So(e.Won, ShouldBeTrue)
		}
		for _, e := range events[2:] {
			So(e.RatingDelta, ShouldBeLessThan, 0)
			So(e.Won, ShouldBeFalse)
		}
		So(calc.TrackedEntityCount(), ShouldEqual, 4)
	})

	Convey("The player match calculator carries map-win counts", t, func() {
		calc := NewPlayerMatchCalculator(DefaultParameters())
		events, err := calc.Process(result.PlayerMatchResult{
			MatchID: 80, EventTime: at(4),
			Team1ID: 1, Team2ID: 2, WinnerID: 2,
			Team1MapsWon: 1, Team2MapsWon: 2,
			Team1Players: []result.PlayerMatchParticipant{{PlayerID: 11, TeamID: 1, MapsPlayed: 3}},
			Team2Players: []result.PlayerMatchParticipant{{PlayerID: 21, TeamID: 2, MapsPlayed: 3}},
		})
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 2)
		So(events[0].TeamMapsWon, ShouldEqual, 1)
		So(events[0].RatingDelta, ShouldBeLessThan, 0)
		So(events[1].RatingDelta, ShouldBeGreaterThan, 0)
	})

	Convey("The map-specific player calculator blends per player", t, func() {
		calc := NewMapSpecificPlayerCalculator(DefaultMapSpecificParameters())
		r := playerMapResult(1)
		r.MapName = "de_vertigo"
		events, err := calc.Process(r)
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 4)
		for _, e := range events {
			So(e.MapBlendWeight, ShouldEqual, 0.0)
			So(e.PreEffectiveRating, ShouldEqual, e.PreGlobalRating)
			So(e.MapName, ShouldEqual, "DE_VERTIGO")
		}

		again := playerMapResult(2)
		again.MapName = "de_vertigo"
		events, err = calc.Process(again)
		So(err, ShouldBeNil)
		So(events[0].MapGamesPlayedPre, ShouldEqual, 1)
		So(events[0].MapBlendWeight, ShouldBeGreaterThan, 0.0)
	})

	Convey("Empty rosters are rejected", t, func() {
		calc := NewPlayerCalculator(DefaultParameters())
		r := playerMapResult(1)
		r.Team2Players = nil
		_, err := calc.Process(r)
		So(errors.Is(err, rating.ErrMissingPlayers), ShouldBeTrue)
	})
}
