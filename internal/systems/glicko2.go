package systems

import (
	"context"

	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/adapters/source"
	"github.com/veldt/rerate/internal/adapters/store"
	"github.com/veldt/rerate/internal/config"
	"github.com/veldt/rerate/internal/domain/glicko2"
	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
	"github.com/veldt/rerate/internal/pipeline"
	"github.com/veldt/rerate/internal/registry"
)

func glicko2TeamMap() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmGlicko2, Granularity: string(rating.GranularityMap), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadGlicko2Systems(configDir(opts.ConfigRoot, algorithmGlicko2))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := glicko2.NewTeamCalculator(sys.Parameters)
			spec := pipeline.Spec[result.TeamMapResult, glicko2.TeamEvent, store.TeamGlicko2Row]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMapResults,
				Process:      calc.Process,
				Convert:      store.TeamGlicko2Rows,
				Repository:   newRepository[store.TeamGlicko2Row](db, store.Glicko2SystemsTable, store.Glicko2SystemIDColumn, "team_id", opts),
			}
			summary, err := spec.Rebuild(ctx, opts)
			if err != nil {
				return summaries, err
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	}}
}

func glicko2TeamMatch() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmGlicko2, Granularity: string(rating.GranularityMatch), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadGlicko2Systems(configDir(opts.ConfigRoot, algorithmGlicko2))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := glicko2.NewTeamMatchCalculator(sys.Parameters)
			spec := pipeline.Spec[result.TeamMatchResult, glicko2.TeamMatchEvent, store.TeamMatchGlicko2Row]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMatchResults,
				Process:      calc.Process,
				Convert:      store.TeamMatchGlicko2Rows,
				Repository:   newRepository[store.TeamMatchGlicko2Row](db, store.Glicko2SystemsTable, store.Glicko2SystemIDColumn, "team_id", opts),
			}
			summary, err := spec.Rebuild(ctx, opts)
			if err != nil {
				return summaries, err
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	}}
}

func glicko2TeamMapSpecific() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmGlicko2, Granularity: string(rating.GranularityMapSpecific), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadMapSpecificGlicko2Systems(mapSpecificConfigDir(opts.ConfigRoot, algorithmGlicko2))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := glicko2.NewMapSpecificTeamCalculator(sys.Parameters)
			spec := pipeline.Spec[result.TeamMapResult, glicko2.TeamMapEvent, store.TeamMapGlicko2Row]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMapResults,
				Process:      calc.Process,
				Convert:      store.TeamMapGlicko2Rows,
				Repository:   newRepository[store.TeamMapGlicko2Row](db, store.Glicko2SystemsTable, store.Glicko2SystemIDColumn, "team_id", opts),
			}
			summary, err := spec.Rebuild(ctx, opts)
			if err != nil {
				return summaries, err
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	}}
}

func glicko2PlayerMap() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmGlicko2, Granularity: string(rating.GranularityMap), Subject: string(rating.SubjectPlayer)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadGlicko2Systems(configDir(opts.ConfigRoot, algorithmGlicko2))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := glicko2.NewPlayerCalculator(sys.Parameters)
			spec := pipeline.Spec[result.PlayerMapResult, glicko2.PlayerEvent, store.PlayerGlicko2Row]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchPlayerMapResults,
				Process:      calc.Process,
				Convert:      store.PlayerGlicko2Rows,
				Repository:   newRepository[store.PlayerGlicko2Row](db, store.Glicko2SystemsTable, store.Glicko2SystemIDColumn, "player_id", opts),
			}
			summary, err := spec.Rebuild(ctx, opts)
			if err != nil {
				return summaries, err
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	}}
}

func glicko2PlayerMatch() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmGlicko2, Granularity: string(rating.GranularityMatch), Subject: string(rating.SubjectPlayer)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadGlicko2Systems(configDir(opts.ConfigRoot, algorithmGlicko2))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := glicko2.NewPlayerMatchCalculator(sys.Parameters)
			spec := pipeline.Spec[result.PlayerMatchResult, glicko2.PlayerMatchEvent, store.PlayerMatchGlicko2Row]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchPlayerMatchResults,
				Process:      calc.Process,
				Convert:      store.PlayerMatchGlicko2Rows,
				Repository:   newRepository[store.PlayerMatchGlicko2Row](db, store.Glicko2SystemsTable, store.Glicko2SystemIDColumn, "player_id", opts),
			}
			summary, err := spec.Rebuild(ctx, opts)
			if err != nil {
				return summaries, err
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	}}
}

func glicko2PlayerMapSpecific() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmGlicko2, Granularity: string(rating.GranularityMapSpecific), Subject: string(rating.SubjectPlayer)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadMapSpecificGlicko2Systems(mapSpecificConfigDir(opts.ConfigRoot, algorithmGlicko2))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := glicko2.NewMapSpecificPlayerCalculator(sys.Parameters)
			spec := pipeline.Spec[result.PlayerMapResult, glicko2.PlayerMapEvent, store.PlayerMapGlicko2Row]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchPlayerMapResults,
				Process:      calc.Process,
				Convert:      store.PlayerMapGlicko2Rows,
				Repository:   newRepository[store.PlayerMapGlicko2Row](db, store.Glicko2SystemsTable, store.Glicko2SystemIDColumn, "player_id", opts),
			}
			summary, err := spec.Rebuild(ctx, opts)
			if err != nil {
				return summaries, err
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	}}
}
