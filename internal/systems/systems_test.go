package systems

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/veldt/rerate/internal/registry"
)

var registerErr = RegisterAll()

func TestRegisterAll(t *testing.T) {
	Convey("Given all combinations registered", t, func() {
		So(registerErr, ShouldBeNil)

		Convey("Every algorithm contributes its combinations", func() {
			all := registry.All()
			So(all, ShouldHaveLength, 16)
			So(registry.Select("elo", "all", "all"), ShouldHaveLength, 5)
			So(registry.Select("glicko2", "all", "all"), ShouldHaveLength, 6)
			So(registry.Select("openskill", "all", "all"), ShouldHaveLength, 5)
		})

		Convey("Only glicko2 covers player match ratings", func() {
			matched := registry.Select("all", "match", "player")
			So(matched, ShouldHaveLength, 1)
			So(matched[0].Key.Algorithm, ShouldEqual, "glicko2")
		})

		Convey("Registering a second time reports the duplicate", func() {
			So(RegisterAll(), ShouldNotBeNil)
		})
	})
}
