package source

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixtureMatch struct {
	ID        int64 `gorm:"primaryKey"`
	Team1ID   int64
	Team2ID   int64
	EventID   *int64
	Format    string
	Status    string
	Date      *time.Time
	UpdatedAt *time.Time
	CreatedAt *time.Time
}

func (fixtureMatch) TableName() string { return "matches" }

type fixtureEvent struct {
	ID  int64 `gorm:"primaryKey"`
	LAN bool  `gorm:"column:lan"`
}

func (fixtureEvent) TableName() string { return "events" }

type fixtureMap struct {
	ID         int64 `gorm:"primaryKey"`
	MatchID    int64
	MapName    string
	MapNumber  int
	WinnerID   *int64
	ScoreTeam1 *int
	ScoreTeam2 *int
}

func (fixtureMap) TableName() string { return "maps" }

type fixtureStat struct {
	ID       int64 `gorm:"primaryKey"`
	MapID    int64
	PlayerID *int64
	TeamID   int64
	Side     string
	Kills    *int
	Deaths   *int
	ADR      *float64
	KAST     *float64
	Rating   *float64
	Swing    *float64
}

func (fixtureStat) TableName() string { return "map_player_stats" }

func openFixtureDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&fixtureMatch{}, &fixtureEvent{}, &fixtureMap{}, &fixtureStat{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }
func timePtr(v time.Time) *time.Time {
	return &v
}

// seedMatch inserts one finished BO3 on a LAN event: team 10 takes maps one
// and three, team 20 takes map two.
func seedMatch(t *testing.T, db *gorm.DB, at time.Time) {
	t.Helper()
	So(db.Create(&fixtureEvent{ID: 1, LAN: true}).Error, ShouldBeNil)
	So(db.Create(&fixtureMatch{
		ID: 500, Team1ID: 10, Team2ID: 20, EventID: int64Ptr(1),
		Format: "BO3", Status: "FINISHED", Date: timePtr(at),
	}).Error, ShouldBeNil)
	winners := []int64{10, 20, 10}
	for i, w := range winners {
		So(db.Create(&fixtureMap{
			ID: int64(600 + i), MatchID: 500, MapName: "de_nuke", MapNumber: i + 1,
			WinnerID: int64Ptr(w), ScoreTeam1: intPtr(16), ScoreTeam2: intPtr(12),
		}).Error, ShouldBeNil)
	}
}

// seedRosters inserts five BOTH-side stat lines per team for one map.
func seedRosters(t *testing.T, db *gorm.DB, mapID int64) {
	t.Helper()
	for i := 0; i < 5; i++ {
		So(db.Create(&fixtureStat{
			ID: mapID*100 + int64(i), MapID: mapID, PlayerID: int64Ptr(int64(1000 + i)),
			TeamID: 10, Side: "BOTH", Kills: intPtr(20), Deaths: intPtr(15),
			ADR: floatPtr(80), Rating: floatPtr(1.1),
		}).Error, ShouldBeNil)
		So(db.Create(&fixtureStat{
			ID: mapID*100 + int64(50+i), MapID: mapID, PlayerID: int64Ptr(int64(2000 + i)),
			TeamID: 20, Side: "BOTH", Kills: intPtr(15), Deaths: intPtr(20),
			ADR: floatPtr(70), Rating: floatPtr(0.9),
		}).Error, ShouldBeNil)
	}
}

func TestFetchTeamMapResults(t *testing.T) {
	Convey("Given one finished BO3 with stat lines", t, func() {
		db := openFixtureDB(t)
		at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
		seedMatch(t, db, at)
		seedRosters(t, db, 600)

		Convey("Maps come back ordered with context attached", func() {
			results, err := FetchTeamMapResults(db, 0)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 3)

			first := results[0]
			So(first.MapID, ShouldEqual, 600)
			So(first.MapNumber, ShouldEqual, 1)
			So(first.WinnerID, ShouldEqual, 10)
			So(first.MapName, ShouldEqual, "de_nuke")
			So(first.IsLAN, ShouldBeTrue)
			So(first.MatchFormat, ShouldEqual, "BO3")
			So(*first.Team1Score, ShouldEqual, 16)

			So(results[1].MapNumber, ShouldEqual, 2)
			So(results[2].MapNumber, ShouldEqual, 3)
		})

		Convey("Side KD ratios aggregate the stat lines", func() {
			results, err := FetchTeamMapResults(db, 0)
			So(err, ShouldBeNil)
			first := results[0]
			So(first.Team1KDRatio, ShouldNotBeNil)
			So(*first.Team1KDRatio, ShouldAlmostEqual, 100.0/75.0, 1e-9)
			So(*first.Team2KDRatio, ShouldAlmostEqual, 75.0/100.0, 1e-9)

			// Maps without stat lines carry no ratio.
			So(results[1].Team1KDRatio, ShouldBeNil)
		})

		Convey("Unfinished matches and maps without a winner are excluded", func() {
			So(db.Create(&fixtureMatch{
				ID: 501, Team1ID: 10, Team2ID: 20, Format: "BO1", Status: "LIVE", Date: timePtr(at),
			}).Error, ShouldBeNil)
			So(db.Create(&fixtureMap{ID: 700, MatchID: 501, MapName: "de_mirage", MapNumber: 1, WinnerID: int64Ptr(10)}).Error, ShouldBeNil)
			So(db.Create(&fixtureMap{ID: 701, MatchID: 500, MapName: "de_mirage", MapNumber: 4}).Error, ShouldBeNil)

			results, err := FetchTeamMapResults(db, 0)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 3)
		})

		Convey("The lookback cutoff drops old matches", func() {
			results, err := FetchTeamMapResults(db, 30)
			So(err, ShouldBeNil)
			So(results, ShouldBeEmpty)
		})
	})
}

func TestFetchTeamMatchResults(t *testing.T) {
	Convey("Given one decisive and one drawn match", t, func() {
		db := openFixtureDB(t)
		at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
		seedMatch(t, db, at)

		So(db.Create(&fixtureMatch{
			ID: 510, Team1ID: 30, Team2ID: 40, Format: "BO2", Status: "FINISHED",
			Date: timePtr(at.Add(time.Hour)),
		}).Error, ShouldBeNil)
		So(db.Create(&fixtureMap{ID: 710, MatchID: 510, MapName: "de_inferno", MapNumber: 1, WinnerID: int64Ptr(30)}).Error, ShouldBeNil)
		So(db.Create(&fixtureMap{ID: 711, MatchID: 510, MapName: "de_ancient", MapNumber: 2, WinnerID: int64Ptr(40)}).Error, ShouldBeNil)

		Convey("Only the decisive match survives with map counts", func() {
			results, err := FetchTeamMatchResults(db, 0)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			m := results[0]
			So(m.MatchID, ShouldEqual, 500)
			So(m.WinnerID, ShouldEqual, 10)
			So(m.Team1MapsWon, ShouldEqual, 2)
			So(m.Team2MapsWon, ShouldEqual, 1)
			So(m.IsLAN, ShouldBeTrue)
		})
	})

	Convey("A match with no timestamps at all never reaches the caller", t, func() {
		db := openFixtureDB(t)
		So(db.Exec(`INSERT INTO matches (id, team1_id, team2_id, format, status) VALUES (520, 10, 20, 'BO1', 'FINISHED')`).Error, ShouldBeNil)
		So(db.Create(&fixtureMap{ID: 720, MatchID: 520, MapName: "de_dust2", MapNumber: 1, WinnerID: int64Ptr(10)}).Error, ShouldBeNil)

		_, err := FetchTeamMatchResults(db, 0)
		So(err, ShouldNotBeNil)
	})
}

func TestFetchPlayerMapResults(t *testing.T) {
	Convey("Given one finished BO3 with rosters on the first map", t, func() {
		db := openFixtureDB(t)
		at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
		seedMatch(t, db, at)
		seedRosters(t, db, 600)

		Convey("Only maps with both rosters come back", func() {
			results, err := FetchPlayerMapResults(db, 0)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			r := results[0]
			So(r.MapID, ShouldEqual, 600)
			So(r.Team1Players, ShouldHaveLength, 5)
			So(r.Team2Players, ShouldHaveLength, 5)
			So(r.Team1Players[0].PlayerID, ShouldEqual, 1000)
			So(*r.Team1KDRatio, ShouldAlmostEqual, 100.0/75.0, 1e-9)
		})

		Convey("Half-side stat lines are ignored", func() {
			So(db.Create(&fixtureStat{
				ID: 99999, MapID: 601, PlayerID: int64Ptr(3000), TeamID: 10,
				Side: "CT", Kills: intPtr(10), Deaths: intPtr(10),
			}).Error, ShouldBeNil)

			results, err := FetchPlayerMapResults(db, 0)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
		})
	})
}

func TestFetchPlayerMatchResults(t *testing.T) {
	Convey("Given one decisive BO3 with rosters on two maps", t, func() {
		db := openFixtureDB(t)
		at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
		seedMatch(t, db, at)
		seedRosters(t, db, 600)
		seedRosters(t, db, 601)

		Convey("Stat lines aggregate across the maps of the match", func() {
			results, err := FetchPlayerMatchResults(db, 0)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			r := results[0]
			So(r.MatchID, ShouldEqual, 500)
			So(r.WinnerID, ShouldEqual, 10)
			So(r.Team1Players, ShouldHaveLength, 5)
			So(r.Team2Players, ShouldHaveLength, 5)

			p := r.Team1Players[0]
			So(p.MapsPlayed, ShouldEqual, 2)
			So(*p.Kills, ShouldEqual, 40)
			So(*p.Deaths, ShouldEqual, 30)
			So(*p.ADR, ShouldAlmostEqual, 80.0, 1e-9)
		})
	})
}
