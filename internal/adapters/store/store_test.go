package store

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veldt/rerate/internal/domain/elo"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func eloEvent(teamID, mapID int64, at time.Time) elo.TeamEvent {
	return elo.TeamEvent{
		TeamID:         teamID,
		OpponentTeamID: teamID + 1,
		MatchID:        900,
		MapID:          mapID,
		MapNumber:      1,
		EventTime:      at,
		Won:            true,
		ActualScore:    1.0,
		ExpectedScore:  0.5,
		PreRating:      1500,
		Delta:          16,
		PostRating:     1516,
		KFactor:        32,
		ScaleFactor:    400,
		InitialRating:  1500,
	}
}

func TestRepository(t *testing.T) {
	Convey("Given a migrated repository over in-memory sqlite", t, func() {
		db := openTestDB(t)
		repo := NewRepository[TeamEloRow](db, EloSystemsTable, EloSystemIDColumn, "team_id")
		So(repo.EnsureSchema(), ShouldBeNil)

		Convey("UpsertSystem creates a row and returns a stable id", func() {
			id, err := repo.UpsertSystem(db, "map", "team", "hltv", "first", `{"k_factor":32}`)
			So(err, ShouldBeNil)
			So(id, ShouldBeGreaterThan, 0)

			again, err := repo.UpsertSystem(db, "map", "team", "hltv", "updated", `{"k_factor":24}`)
			So(err, ShouldBeNil)
			So(again, ShouldEqual, id)

			var row SystemRow
			So(db.Table(EloSystemsTable).Where("id = ?", id).Take(&row).Error, ShouldBeNil)
			So(row.Description, ShouldEqual, "updated")
			So(row.ConfigJSON, ShouldContainSubstring, `"k_factor":24`)
		})

		Convey("Systems with the same name under different subjects coexist", func() {
			_, err := repo.UpsertSystem(db, "map", "team", "hltv", "", "{}")
			So(err, ShouldBeNil)
			_, err = repo.UpsertSystem(db, "map", "player", "hltv", "", "{}")
			So(err, ShouldBeNil)

			var count int64
			So(db.Table(EloSystemsTable).Count(&count).Error, ShouldBeNil)
			So(count, ShouldEqual, 2)
		})

		Convey("InsertEvents, CountTrackedEntities and DeleteEvents round-trip", func() {
			id, err := repo.UpsertSystem(db, "map", "team", "hltv", "", "{}")
			So(err, ShouldBeNil)

			at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
			events := []elo.TeamEvent{
				eloEvent(10, 100, at),
				eloEvent(10, 101, at.Add(time.Hour)),
				eloEvent(20, 100, at),
			}
			So(repo.InsertEvents(db, TeamEloRows(id, events)), ShouldBeNil)

			tracked, err := repo.CountTrackedEntities(db, id)
			So(err, ShouldBeNil)
			So(tracked, ShouldEqual, 2)

			So(repo.DeleteEvents(db, id), ShouldBeNil)
			tracked, err = repo.CountTrackedEntities(db, id)
			So(err, ShouldBeNil)
			So(tracked, ShouldEqual, 0)
		})

		Convey("Deleting one system leaves another system's events alone", func() {
			first, err := repo.UpsertSystem(db, "map", "team", "first", "", "{}")
			So(err, ShouldBeNil)
			second, err := repo.UpsertSystem(db, "map", "team", "second", "", "{}")
			So(err, ShouldBeNil)

			at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
			So(repo.InsertEvents(db, TeamEloRows(first, []elo.TeamEvent{eloEvent(10, 100, at)})), ShouldBeNil)
			So(repo.InsertEvents(db, TeamEloRows(second, []elo.TeamEvent{eloEvent(10, 100, at)})), ShouldBeNil)

			So(repo.DeleteEvents(db, first), ShouldBeNil)

			tracked, err := repo.CountTrackedEntities(db, second)
			So(err, ShouldBeNil)
			So(tracked, ShouldEqual, 1)
		})

		Convey("A duplicate (system, team, map) insert is rejected", func() {
			id, err := repo.UpsertSystem(db, "map", "team", "hltv", "", "{}")
			So(err, ShouldBeNil)

			at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
			rows := TeamEloRows(id, []elo.TeamEvent{eloEvent(10, 100, at)})
			So(repo.InsertEvents(db, rows), ShouldBeNil)

			dup := TeamEloRows(id, []elo.TeamEvent{eloEvent(10, 100, at)})
			err = repo.InsertEvents(db, dup)
			So(errors.Is(err, ErrInsert), ShouldBeTrue)
		})

		Convey("Inserting no rows is a no-op", func() {
			So(repo.InsertEvents(db, nil), ShouldBeNil)
		})
	})
}

func TestInsertBatching(t *testing.T) {
	Convey("Bulk inserts stay under the sqlite bind budget", t, func() {
		db := openTestDB(t)
		repo := NewRepository[TeamEloRow](db, EloSystemsTable, EloSystemIDColumn, "team_id")
		So(repo.EnsureSchema(), ShouldBeNil)

		id, err := repo.UpsertSystem(db, "map", "team", "bulk", "", "{}")
		So(err, ShouldBeNil)

		Convey("The per-row column count caps the batch below the configured size", func() {
			cols := columnCount[TeamEloRow](db)
			So(cols, ShouldBeGreaterThan, 0)
			So(repo.insertBatchSize(), ShouldBeLessThanOrEqualTo, sqliteBindLimit/cols)
		})

		Convey("A batch larger than the cap still lands completely", func() {
			at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
			events := make([]elo.TeamEvent, 0, 500)
			for i := 0; i < 500; i++ {
				events = append(events, eloEvent(int64(1000+i), int64(5000+i), at))
			}
			So(repo.InsertEvents(db, TeamEloRows(id, events)), ShouldBeNil)

			var count int64
			So(db.Model(&TeamEloRow{}).Where("elo_system_id = ?", id).Count(&count).Error, ShouldBeNil)
			So(count, ShouldEqual, 500)
		})

		Convey("WithBatchSize overrides the default", func() {
			small := NewRepository[TeamEloRow](db, EloSystemsTable, EloSystemIDColumn, "team_id", WithBatchSize(7))
			So(small.insertBatchSize(), ShouldEqual, 7)
		})
	})
}

func TestRowConversions(t *testing.T) {
	Convey("Event to row conversion keeps identities and rating fields", t, func() {
		at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
		rows := TeamEloRows(7, []elo.TeamEvent{eloEvent(10, 100, at)})
		So(rows, ShouldHaveLength, 1)
		r := rows[0]
		So(r.EloSystemID, ShouldEqual, 7)
		So(r.TeamID, ShouldEqual, 10)
		So(r.MapID, ShouldEqual, 100)
		So(r.PreElo, ShouldEqual, 1500.0)
		So(r.EloDelta, ShouldEqual, 16.0)
		So(r.PostElo, ShouldEqual, 1516.0)
		So(r.EventTime.Equal(at), ShouldBeTrue)
	})
}
