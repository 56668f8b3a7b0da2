package openskill

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
)

func at(day int) time.Time { return time.Date(2024, 3, day, 20, 0, 0, 0, time.UTC) }

func mapResult(day int) result.TeamMapResult {
	return result.TeamMapResult{
		MatchID:   300,
		MapID:     int64(3000 + day),
		MapNumber: 1,
		EventTime: at(day),
		Team1ID:   1,
		Team2ID:   2,
		WinnerID:  1,
	}
}

func TestOrdinal(t *testing.T) {
	Convey("Ordinal is mu minus z sigma", t, func() {
		p := DefaultParameters()
		So(p.Ordinal(State{Mu: 25, Sigma: 25.0 / 3.0}), ShouldAlmostEqual, 0, 1e-9)
		So(p.Ordinal(State{Mu: 30, Sigma: 2}), ShouldAlmostEqual, 24, 1e-9)
	})
}

func TestTeamCalculator(t *testing.T) {
	Convey("Given a team calculator with default parameters", t, func() {
		calc := NewTeamCalculator(DefaultParameters())

		Convey("Fresh opponents split the win probability", func() {
			events, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[0].ExpectedScore, ShouldAlmostEqual, 0.5, 1e-6)
			So(events[0].ExpectedScore+events[1].ExpectedScore, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("The winner's mu rises and the loser's falls", func() {
			events, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			So(events[0].Won, ShouldBeTrue)
			So(events[0].MuDelta, ShouldBeGreaterThan, 0)
			So(events[1].MuDelta, ShouldBeLessThan, 0)
			So(events[0].PostMu, ShouldBeGreaterThan, events[0].PreMu)
			So(events[1].PostMu, ShouldBeLessThan, events[1].PreMu)
		})

		Convey("State persists across results", func() {
			_, err := calc.Process(mapResult(1))
			So(err, ShouldBeNil)
			events, err := calc.Process(mapResult(2))
			So(err, ShouldBeNil)
			// The repeat winner is now the favourite.
			So(events[0].ExpectedScore, ShouldBeGreaterThan, 0.5)
			So(calc.TrackedEntityCount(), ShouldEqual, 2)
		})

		Convey("Validation failures carry the sentinel", func() {
			bad := mapResult(1)
			bad.Team2ID = bad.Team1ID
			_, err := calc.Process(bad)
			So(errors.Is(err, rating.ErrIdenticalSides), ShouldBeTrue)
		})
	})
}

func TestTeamMatchCalculator(t *testing.T) {
	Convey("Match events carry map-win counts and mirror the map math", t, func() {
		calc := NewTeamMatchCalculator(DefaultParameters())
		events, err := calc.Process(result.TeamMatchResult{
			MatchID: 90, EventTime: at(3),
			Team1ID: 1, Team2ID: 2, WinnerID: 2,
			Team1MapsWon: 1, Team2MapsWon: 2,
		})
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 2)
		So(events[0].TeamMapsWon, ShouldEqual, 1)
		So(events[1].TeamMapsWon, ShouldEqual, 2)
		So(events[0].MuDelta, ShouldBeLessThan, 0)
		So(events[1].MuDelta, ShouldBeGreaterThan, 0)
	})
}

func TestMapSpecificTeamCalculator(t *testing.T) {
	Convey("Given a map-specific team calculator", t, func() {
		calc := NewMapSpecificTeamCalculator(DefaultMapSpecificParameters())

		Convey("First sight of a map uses the global state verbatim", func() {
			r := mapResult(1)
			r.MapName = "de_nuke"
			events, err := calc.Process(r)
			So(err, ShouldBeNil)
			e := events[0]
			So(e.MapBlendWeight, ShouldEqual, 0.0)
			So(e.PreEffectiveMu, ShouldEqual, e.PreGlobalMu)
			So(e.PreEffectiveSigma, ShouldEqual, e.PreGlobalSigma)
			So(e.MapName, ShouldEqual, "DE_NUKE")
		})

		Convey("One delta feeds both books", func() {
			for day := 1; day <= 3; day++ {
				r := mapResult(day)
				r.MapName = "de_nuke"
				events, err := calc.Process(r)
				So(err, ShouldBeNil)
				for _, e := range events {
					So(e.PostGlobalMu-e.PreGlobalMu, ShouldAlmostEqual, e.MuDelta, 1e-9)
					So(e.PostMapMu-e.PreMapMu, ShouldAlmostEqual, e.MuDelta, 1e-9)
					So(e.PostGlobalSigma, ShouldBeGreaterThan, 0)
					So(e.PostMapSigma, ShouldBeGreaterThan, 0)
				}
			}
		})

		Convey("Blend weight grows per map played", func() {
			prev := -1.0
			for day := 1; day <= 4; day++ {
				r := mapResult(day)
				r.MapName = "de_ancient"
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
		MatchID:   300,
		MapID:     int64(3000 + day),
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
	Convey("The player map calculator rates the full rosters", t, func() {
		calc := NewPlayerCalculator(DefaultParameters())
		events, err := calc.Process(playerMapResult(1))
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 4)
		for _, e := range events[:2] {
			So(e.MuDelta, ShouldBeGreaterThan, 0)
			So(e.Won, ShouldBeTrue)
		}
		for _, e := range events[2:] {
			So(e.MuDelta, ShouldBeLessThan, 0)
			So(e.Won, ShouldBeFalse)
		}
		So(calc.TrackedEntityCount(), ShouldEqual, 4)
	})

	Convey("Empty rosters are rejected", t, func() {
		calc := NewPlayerCalculator(DefaultParameters())
		r := playerMapResult(1)
		r.Team1Players = nil
		_, err := calc.Process(r)
		So(errors.Is(err, rating.ErrMissingPlayers), ShouldBeTrue)
	})

	Convey("The map-specific player calculator blends per player", t, func() {
		calc := NewMapSpecificPlayerCalculator(DefaultMapSpecificParameters())
		r := playerMapResult(1)
		r.MapName = "de_inferno"
		events, err := calc.Process(r)
		So(err, ShouldBeNil)
		So(events, ShouldHaveLength, 4)
		for _, e := range events {
			So(e.MapBlendWeight, ShouldEqual, 0.0)
			So(e.PreEffectiveMu, ShouldEqual, e.PreGlobalMu)
		}

		again := playerMapResult(2)
		again.MapName = "de_inferno"
		events, err = calc.Process(again)
		So(err, ShouldBeNil)
		So(events[0].MapGamesPlayedPre, ShouldEqual, 1)
		So(events[0].MapBlendWeight, ShouldBeGreaterThan, 0.0)
	})
}
