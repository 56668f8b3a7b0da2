package registry

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/pipeline"
)

func noopRun(context.Context, *gorm.DB, pipeline.Options) ([]pipeline.Summary, error) {
	return nil, nil
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	table = make(map[Key]Descriptor)
}

func TestRegistry(t *testing.T) {
	Convey("Given a few registered descriptors", t, func() {
		reset()
		keys := []Key{
			{Algorithm: "elo", Granularity: "map", Subject: "team"},
			{Algorithm: "elo", Granularity: "match", Subject: "team"},
			{Algorithm: "glicko2", Granularity: "map", Subject: "player"},
		}
		for _, k := range keys {
			So(Register(Descriptor{Key: k, Run: noopRun}), ShouldBeNil)
		}

		Convey("Get resolves a known key", func() {
			d, err := Get(Key{Algorithm: "elo", Granularity: "map", Subject: "team"})
			So(err, ShouldBeNil)
			So(d.Key.Algorithm, ShouldEqual, "elo")
		})

		Convey("Get on an unknown key lists the registered ones", func() {
			_, err := Get(Key{Algorithm: "elo", Granularity: "round", Subject: "team"})
			So(errors.Is(err, ErrUnknownKey), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "elo/map/team")
			So(err.Error(), ShouldContainSubstring, "glicko2/map/player")
		})

		Convey("Registering the same key twice fails", func() {
			err := Register(Descriptor{Key: keys[0], Run: noopRun})
			So(errors.Is(err, ErrDuplicateKey), ShouldBeTrue)
		})

		Convey("A descriptor without a run function is rejected", func() {
			err := Register(Descriptor{Key: Key{Algorithm: "x", Granularity: "y", Subject: "z"}})
			So(errors.Is(err, ErrInvalidDescriptor), ShouldBeTrue)
		})

		Convey("All returns descriptors in stable key order", func() {
			all := All()
			So(all, ShouldHaveLength, 3)
			So(all[0].Key.String(), ShouldEqual, "elo/map/team")
			So(all[1].Key.String(), ShouldEqual, "elo/match/team")
			So(all[2].Key.String(), ShouldEqual, "glicko2/map/player")
		})

		Convey("Select filters with all-wildcards", func() {
			So(Select("all", "all", "all"), ShouldHaveLength, 3)
			So(Select("elo", "all", "all"), ShouldHaveLength, 2)
			So(Select("all", "map", "player"), ShouldHaveLength, 1)
			So(Select("openskill", "all", "all"), ShouldBeEmpty)
		})
	})
}
