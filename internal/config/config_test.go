package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	Convey("Given no environment overrides", t, func() {
		t.Setenv("RERATE_CONFIG", "")
		t.Setenv("RERATE_DB_DRIVER", "")

		Convey("Defaults apply", func() {
			cfg, err := Load()
			So(err, ShouldBeNil)
			So(cfg.DBDriver, ShouldEqual, "sqlite")
			So(cfg.BatchSize, ShouldEqual, 1000)
			So(cfg.LogLevel, ShouldEqual, "info")
		})
	})

	Convey("Environment variables override defaults", t, func() {
		t.Setenv("RERATE_DB_DRIVER", "postgres")
		t.Setenv("RERATE_BATCH_SIZE", "500")
		cfg, err := Load()
		So(err, ShouldBeNil)
		So(cfg.DBDriver, ShouldEqual, "postgres")
		So(cfg.BatchSize, ShouldEqual, 500)
	})

	Convey("An unknown driver is rejected", t, func() {
		t.Setenv("RERATE_DB_DRIVER", "oracle")
		_, err := Load()
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestLoadEloSystems(t *testing.T) {
	Convey("Given a directory with one Elo system file", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "hltv.toml", `
[system]
name = "hltv-team-elo"
description = "team Elo over map results"
lookback_days = 730

[elo]
k_factor = 32.0
lan_multiplier = 1.5
`)

		Convey("Values merge over defaults", func() {
			systems, err := LoadEloSystems(dir)
			So(err, ShouldBeNil)
			So(systems, ShouldHaveLength, 1)
			s := systems[0]
			So(s.Name, ShouldEqual, "hltv-team-elo")
			So(s.LookbackDays, ShouldEqual, 730)
			So(s.Parameters.KFactor, ShouldEqual, 32.0)
			So(s.Parameters.LANMultiplier, ShouldEqual, 1.5)
			So(s.Parameters.InitialRating, ShouldEqual, 1500.0)
			So(s.Parameters.BO3Multiplier, ShouldEqual, 1.0)
		})

		Convey("ConfigJSON carries the resolved parameters", func() {
			systems, err := LoadEloSystems(dir)
			So(err, ShouldBeNil)
			js, err := systems[0].ConfigJSON()
			So(err, ShouldBeNil)
			So(js, ShouldContainSubstring, `"k_factor":32`)
			So(js, ShouldContainSubstring, `"lookback_days":730`)
		})

		Convey("A duplicate name in a second file is rejected", func() {
			writeFile(t, dir, "other.toml", `
[system]
name = "hltv-team-elo"
`)
			_, err := LoadEloSystems(dir)
			So(errors.Is(err, ErrDuplicateSystem), ShouldBeTrue)
		})
	})

	Convey("Validation failures name the file and key", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "bad.toml", `
[system]
name = "bad"

[elo]
k_factor = -1.0
`)
		_, err := LoadEloSystems(dir)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "k_factor")
		So(err.Error(), ShouldContainSubstring, "bad.toml")
	})

	Convey("A missing name is rejected", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "anon.toml", `
[elo]
k_factor = 20.0
`)
		_, err := LoadEloSystems(dir)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})

	Convey("An empty directory fails loudly", t, func() {
		_, err := LoadEloSystems(t.TempDir())
		So(errors.Is(err, ErrLoadConfig), ShouldBeTrue)
	})
}

func TestLoadMapSpecificEloSystems(t *testing.T) {
	Convey("The map_specific block adds the shrinkage prior", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "ms.toml", `
[system]
name = "map-elo"

[elo]
k_factor = 24.0

[map_specific]
map_prior_games = 30.0
`)
		systems, err := LoadMapSpecificEloSystems(dir)
		So(err, ShouldBeNil)
		So(systems[0].Parameters.MapPriorGames, ShouldEqual, 30.0)
		So(systems[0].Parameters.KFactor, ShouldEqual, 24.0)

		js, err := systems[0].ConfigJSON()
		So(err, ShouldBeNil)
		So(js, ShouldContainSubstring, `"map_prior_games":30`)
	})

	Convey("A non-positive prior is rejected", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "ms.toml", `
[system]
name = "map-elo"

[map_specific]
map_prior_games = 0.0
`)
		_, err := LoadMapSpecificEloSystems(dir)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestLoadGlicko2Systems(t *testing.T) {
	Convey("Given a directory with one Glicko-2 system file", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "g2.toml", `
[system]
name = "team-glicko2"

[glicko2]
tau = 0.3
min_rd = 40.0
`)

		Convey("Values merge over defaults", func() {
			systems, err := LoadGlicko2Systems(dir)
			So(err, ShouldBeNil)
			s := systems[0]
			So(s.Parameters.Tau, ShouldEqual, 0.3)
			So(s.Parameters.MinRD, ShouldEqual, 40.0)
			So(s.Parameters.InitialRating, ShouldEqual, 1500.0)
		})
	})

	Convey("Inconsistent RD bounds are rejected", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "g2.toml", `
[system]
name = "team-glicko2"

[glicko2]
min_rd = 400.0
max_rd = 350.0
`)
		_, err := LoadGlicko2Systems(dir)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "min_rd")
	})

	Convey("An initial RD outside the bounds is rejected", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "g2.toml", `
[system]
name = "team-glicko2"

[glicko2]
initial_rd = 20.0
`)
		_, err := LoadGlicko2Systems(dir)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestLoadOpenSkillSystems(t *testing.T) {
	Convey("Given a directory with one OpenSkill system file", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "os.toml", `
[system]
name = "team-openskill"

[openskill]
beta = 5.0
limit_sigma = true
`)
		systems, err := LoadOpenSkillSystems(dir)
		So(err, ShouldBeNil)
		s := systems[0]
		So(s.Parameters.Beta, ShouldEqual, 5.0)
		So(s.Parameters.LimitSigma, ShouldBeTrue)
		So(s.Parameters.InitialMu, ShouldEqual, 25.0)

		js, err := s.ConfigJSON()
		So(err, ShouldBeNil)
		So(js, ShouldContainSubstring, `"limit_sigma":true`)
	})

	Convey("Requesting balance is rejected", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "os.toml", `
[system]
name = "team-openskill"

[openskill]
balance = true
`)
		_, err := LoadOpenSkillSystems(dir)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "balance")
	})

	Convey("A non-positive kappa is rejected", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "os.toml", `
[system]
name = "team-openskill"

[openskill]
kappa = 0.0
`)
		_, err := LoadOpenSkillSystems(dir)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}
