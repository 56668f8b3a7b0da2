// Package systems registers every supported rating combination with the
// descriptor registry. Each descriptor's Run loads the combination's TOML
// system configs, builds a fresh calculator per named system, and replays
// the source history through the pipeline.
package systems

import (
	"path/filepath"

	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/adapters/store"
	"github.com/veldt/rerate/internal/pipeline"
	"github.com/veldt/rerate/internal/registry"
)

// Algorithm keys as they appear in registry keys and config paths.
const (
	algorithmElo       = "elo"
	algorithmGlicko2   = "glicko2"
	algorithmOpenSkill = "openskill"
)

// RegisterAll adds every supported combination to the registry.
func RegisterAll() error {
	descriptors := []registry.Descriptor{
		eloTeamMap(),
		eloTeamMatch(),
		eloTeamMapSpecific(),
		eloPlayerMap(),
		eloPlayerMapSpecific(),
		glicko2TeamMap(),
		glicko2TeamMatch(),
		glicko2TeamMapSpecific(),
		glicko2PlayerMap(),
		glicko2PlayerMatch(),
		glicko2PlayerMapSpecific(),
		openskillTeamMap(),
		openskillTeamMatch(),
		openskillTeamMapSpecific(),
		openskillPlayerMap(),
		openskillPlayerMapSpecific(),
	}
	for _, d := range descriptors {
		if err := registry.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// configDir resolves one algorithm's plain config directory.
func configDir(root, algorithm string) string {
	return filepath.Join(root, algorithm)
}

// mapSpecificConfigDir resolves one algorithm's map-specific config
// directory, nested under the plain one.
func mapSpecificConfigDir(root, algorithm string) string {
	return filepath.Join(root, algorithm, "map_specific")
}

// newRepository builds a row repository honoring the run's batch size.
func newRepository[Row any](db *gorm.DB, table, idColumn, entityColumn string, opts pipeline.Options) *store.Repository[Row] {
	return store.NewRepository[Row](db, table, idColumn, entityColumn, store.WithBatchSize(opts.BatchSize))
}
