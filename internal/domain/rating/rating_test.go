package rating

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/veldt/rerate/internal/domain/result"
)

func TestValidation(t *testing.T) {
	Convey("Given team results", t, func() {
		base := result.TeamMapResult{MatchID: 1, MapID: 10, Team1ID: 5, Team2ID: 6, WinnerID: 5}

		Convey("A well formed map result passes", func() {
			So(ValidateTeamMap(base), ShouldBeNil)
		})

		Convey("Identical sides are rejected", func() {
			r := base
			r.Team2ID = 5
			err := ValidateTeamMap(r)
			So(errors.Is(err, ErrIdenticalSides), ShouldBeTrue)
		})

		Convey("A winner outside the pairing is rejected", func() {
			r := base
			r.WinnerID = 99
			err := ValidateTeamMap(r)
			So(errors.Is(err, ErrForeignWinner), ShouldBeTrue)
		})

		Convey("Match results apply the same rules", func() {
			m := result.TeamMatchResult{MatchID: 1, Team1ID: 5, Team2ID: 5, WinnerID: 5}
			So(errors.Is(ValidateTeamMatch(m), ErrIdenticalSides), ShouldBeTrue)
		})
	})

	Convey("Given player results", t, func() {
		r := result.PlayerMapResult{
			MatchID: 1, MapID: 10, Team1ID: 5, Team2ID: 6, WinnerID: 6,
			Team1Players: []result.PlayerMapParticipant{{PlayerID: 1, TeamID: 5}},
			Team2Players: []result.PlayerMapParticipant{{PlayerID: 2, TeamID: 6}},
		}

		Convey("Full rosters pass", func() {
			So(ValidatePlayerMap(r), ShouldBeNil)
		})

		Convey("An empty roster is rejected", func() {
			empty := r
			empty.Team2Players = nil
			So(errors.Is(ValidatePlayerMap(empty), ErrMissingPlayers), ShouldBeTrue)
		})

		Convey("Team level failures surface before roster checks", func() {
			bad := r
			bad.WinnerID = 99
			So(errors.Is(ValidatePlayerMap(bad), ErrForeignWinner), ShouldBeTrue)
		})
	})
}

func TestNormalizeMapName(t *testing.T) {
	Convey("Map names normalize to a canonical key", t, func() {
		So(NormalizeMapName(" de_dust2 "), ShouldEqual, "DE_DUST2")
		So(NormalizeMapName("Mirage"), ShouldEqual, "MIRAGE")
		So(NormalizeMapName(""), ShouldEqual, UnknownMap)
		So(NormalizeMapName("   "), ShouldEqual, UnknownMap)
	})
}

func TestMapTracker(t *testing.T) {
	Convey("Given a tracker with a prior of 20 games", t, func() {
		tr := NewMapTracker(20)
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		Convey("An unseen map has weight zero and no last event", func() {
			So(tr.BlendWeight(1, "MIRAGE"), ShouldEqual, 0.0)
			_, ok := tr.LastEvent(1, "MIRAGE")
			So(ok, ShouldBeFalse)
		})

		Convey("Weight grows strictly with each recorded game", func() {
			prev := tr.BlendWeight(1, "MIRAGE")
			for i := 0; i < 5; i++ {
				tr.Record(1, "MIRAGE", now.Add(time.Duration(i)*time.Hour))
				w := tr.BlendWeight(1, "MIRAGE")
				So(w, ShouldBeGreaterThan, prev)
				So(w, ShouldBeLessThan, 1.0)
				prev = w
			}
			So(tr.GamesPlayed(1, "MIRAGE"), ShouldEqual, 5)
			at, ok := tr.LastEvent(1, "MIRAGE")
			So(ok, ShouldBeTrue)
			So(at, ShouldEqual, now.Add(4*time.Hour))
		})

		Convey("Entities and maps do not bleed into each other", func() {
			tr.Record(1, "MIRAGE", now)
			So(tr.GamesPlayed(2, "MIRAGE"), ShouldEqual, 0)
			So(tr.GamesPlayed(1, "INFERNO"), ShouldEqual, 0)
		})

		Convey("Ten games against a prior of twenty blends to one third", func() {
			for i := 0; i < 10; i++ {
				tr.Record(3, "NUKE", now)
			}
			So(tr.BlendWeight(3, "NUKE"), ShouldAlmostEqual, 1.0/3.0, 1e-12)
		})
	})

	Convey("Blend mixes map and global values by weight", t, func() {
		So(Blend(0, 2000, 1500), ShouldEqual, 1500)
		So(Blend(1, 2000, 1500), ShouldEqual, 2000)
		So(Blend(0.25, 2000, 1500), ShouldAlmostEqual, 1625.0, 1e-12)
	})
}
