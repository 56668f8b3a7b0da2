package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/veldt/rerate/internal/adapters/store"
	"github.com/veldt/rerate/internal/domain/elo"
	"github.com/veldt/rerate/internal/domain/result"
	"github.com/veldt/rerate/pkg/logger"
)

func init() {
	if err := logger.Init("error"); err != nil {
		panic(err)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func mapResults() []result.TeamMapResult {
	at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	return []result.TeamMapResult{
		{MatchID: 500, MapID: 600, MapNumber: 1, EventTime: at, Team1ID: 10, Team2ID: 20, WinnerID: 10},
		{MatchID: 500, MapID: 601, MapNumber: 2, EventTime: at.Add(time.Hour), Team1ID: 10, Team2ID: 20, WinnerID: 20},
	}
}

// teamEloSpec builds a single-use spec over a fresh calculator and canned
// results.
func teamEloSpec(db *gorm.DB, results []result.TeamMapResult) Spec[result.TeamMapResult, elo.TeamEvent, store.TeamEloRow] {
	calc := elo.NewTeamCalculator(elo.DefaultParameters())
	return Spec[result.TeamMapResult, elo.TeamEvent, store.TeamEloRow]{
		Algorithm:   "elo",
		Granularity: "map",
		Subject:     "team",
		Name:        "test-elo",
		Description: "team Elo over canned results",
		ConfigJSON:  `{"k_factor":32}`,
		Fetch: func(*gorm.DB, int) ([]result.TeamMapResult, error) {
			return results, nil
		},
		Process:    calc.Process,
		Convert:    store.TeamEloRows,
		Repository: store.NewRepository[store.TeamEloRow](db, store.EloSystemsTable, store.EloSystemIDColumn, "team_id"),
	}
}

func TestRebuild(t *testing.T) {
	Convey("Given a team Elo spec over two map results", t, func() {
		db := openTestDB(t)
		ctx := context.Background()

		Convey("A rebuild persists events and reports counts", func() {
			summary, err := teamEloSpec(db, mapResults()).Rebuild(ctx, Options{})
			So(err, ShouldBeNil)
			So(summary.RunID, ShouldNotBeEmpty)
			So(summary.ResultsProcessed, ShouldEqual, 2)
			So(summary.EventsInserted, ShouldEqual, 4)
			So(summary.TrackedEntities, ShouldEqual, 2)
			So(summary.DryRun, ShouldBeFalse)

			var count int64
			So(db.Model(&store.TeamEloRow{}).Count(&count).Error, ShouldBeNil)
			So(count, ShouldEqual, 4)
		})

		Convey("A second rebuild replaces the history instead of appending", func() {
			_, err := teamEloSpec(db, mapResults()).Rebuild(ctx, Options{})
			So(err, ShouldBeNil)
			_, err = teamEloSpec(db, mapResults()).Rebuild(ctx, Options{})
			So(err, ShouldBeNil)

			var events int64
			So(db.Model(&store.TeamEloRow{}).Count(&events).Error, ShouldBeNil)
			So(events, ShouldEqual, 4)

			var systems int64
			So(db.Table(store.EloSystemsTable).Count(&systems).Error, ShouldBeNil)
			So(systems, ShouldEqual, 1)
		})

		Convey("A dry run counts everything but writes nothing", func() {
			summary, err := teamEloSpec(db, mapResults()).Rebuild(ctx, Options{DryRun: true})
			So(err, ShouldBeNil)
			So(summary.DryRun, ShouldBeTrue)
			So(summary.ResultsProcessed, ShouldEqual, 2)
			So(summary.EventsInserted, ShouldEqual, 4)
			So(summary.TrackedEntities, ShouldEqual, 2)

			var events int64
			So(db.Model(&store.TeamEloRow{}).Count(&events).Error, ShouldBeNil)
			So(events, ShouldEqual, 0)

			var systems int64
			So(db.Table(store.EloSystemsTable).Count(&systems).Error, ShouldBeNil)
			So(systems, ShouldEqual, 0)
		})

		Convey("A dry run after a real rebuild leaves the old history intact", func() {
			_, err := teamEloSpec(db, mapResults()).Rebuild(ctx, Options{})
			So(err, ShouldBeNil)
			_, err = teamEloSpec(db, mapResults()).Rebuild(ctx, Options{DryRun: true})
			So(err, ShouldBeNil)

			var events int64
			So(db.Model(&store.TeamEloRow{}).Count(&events).Error, ShouldBeNil)
			So(events, ShouldEqual, 4)
		})

		Convey("A calculator failure rolls the transaction back", func() {
			bad := mapResults()
			bad[1].Team2ID = bad[1].Team1ID

			_, err := teamEloSpec(db, bad).Rebuild(ctx, Options{})
			So(errors.Is(err, ErrRebuild), ShouldBeTrue)

			var events int64
			So(db.Model(&store.TeamEloRow{}).Count(&events).Error, ShouldBeNil)
			So(events, ShouldEqual, 0)
		})

		Convey("A fetch failure surfaces as a rebuild error", func() {
			spec := teamEloSpec(db, nil)
			spec.Fetch = func(*gorm.DB, int) ([]result.TeamMapResult, error) {
				return nil, errors.New("source unavailable")
			}
			_, err := spec.Rebuild(ctx, Options{})
			So(errors.Is(err, ErrRebuild), ShouldBeTrue)
		})
	})
}
