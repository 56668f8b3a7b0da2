package systems

import (
	"context"

	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/adapters/source"
	"github.com/veldt/rerate/internal/adapters/store"
	"github.com/veldt/rerate/internal/config"
	"github.com/veldt/rerate/internal/domain/elo"
	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
	"github.com/veldt/rerate/internal/pipeline"
	"github.com/veldt/rerate/internal/registry"
)

func eloTeamMap() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmElo, Granularity: string(rating.GranularityMap), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadEloSystems(configDir(opts.ConfigRoot, algorithmElo))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := elo.NewTeamCalculator(sys.Parameters, elo.WithLookbackDays(sys.LookbackDays))
			spec := pipeline.Spec[result.TeamMapResult, elo.TeamEvent, store.TeamEloRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMapResults,
				Process:      calc.Process,
				Convert:      store.TeamEloRows,
				Repository:   newRepository[store.TeamEloRow](db, store.EloSystemsTable, store.EloSystemIDColumn, "team_id", opts),
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

func eloTeamMatch() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmElo, Granularity: string(rating.GranularityMatch), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadEloSystems(configDir(opts.ConfigRoot, algorithmElo))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := elo.NewTeamMatchCalculator(sys.Parameters, elo.WithLookbackDays(sys.LookbackDays))
			spec := pipeline.Spec[result.TeamMatchResult, elo.TeamMatchEvent, store.TeamMatchEloRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMatchResults,
				Process:      calc.Process,
				Convert:      store.TeamMatchEloRows,
				Repository:   newRepository[store.TeamMatchEloRow](db, store.EloSystemsTable, store.EloSystemIDColumn, "team_id", opts),
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

func eloTeamMapSpecific() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmElo, Granularity: string(rating.GranularityMapSpecific), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadMapSpecificEloSystems(mapSpecificConfigDir(opts.ConfigRoot, algorithmElo))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := elo.NewMapSpecificTeamCalculator(sys.Parameters, elo.WithLookbackDays(sys.LookbackDays))
			spec := pipeline.Spec[result.TeamMapResult, elo.TeamMapEvent, store.TeamMapEloRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMapResults,
				Process:      calc.Process,
				Convert:      store.TeamMapEloRows,
				Repository:   newRepository[store.TeamMapEloRow](db, store.EloSystemsTable, store.EloSystemIDColumn, "team_id", opts),
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

func eloPlayerMap() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmElo, Granularity: string(rating.GranularityMap), Subject: string(rating.SubjectPlayer)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadEloSystems(configDir(opts.ConfigRoot, algorithmElo))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := elo.NewPlayerCalculator(sys.Parameters, elo.WithLookbackDays(sys.LookbackDays))
			spec := pipeline.Spec[result.PlayerMapResult, elo.PlayerEvent, store.PlayerEloRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchPlayerMapResults,
				Process:      calc.Process,
				Convert:      store.PlayerEloRows,
				Repository:   newRepository[store.PlayerEloRow](db, store.EloSystemsTable, store.EloSystemIDColumn, "player_id", opts),
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

func eloPlayerMapSpecific() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmElo, Granularity: string(rating.GranularityMapSpecific), Subject: string(rating.SubjectPlayer)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadMapSpecificEloSystems(mapSpecificConfigDir(opts.ConfigRoot, algorithmElo))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := elo.NewMapSpecificPlayerCalculator(sys.Parameters, elo.WithLookbackDays(sys.LookbackDays))
			spec := pipeline.Spec[result.PlayerMapResult, elo.PlayerMapEvent, store.PlayerMapEloRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchPlayerMapResults,
				Process:      calc.Process,
				Convert:      store.PlayerMapEloRows,
				Repository:   newRepository[store.PlayerMapEloRow](db, store.EloSystemsTable, store.EloSystemIDColumn, "player_id", opts),
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
