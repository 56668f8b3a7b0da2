package systems

import (
	"context"

	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/adapters/source"
	"github.com/veldt/rerate/internal/adapters/store"
	"github.com/veldt/rerate/internal/config"
	"github.com/veldt/rerate/internal/domain/openskill"
	"github.com/veldt/rerate/internal/domain/rating"
	"github.com/veldt/rerate/internal/domain/result"
	"github.com/veldt/rerate/internal/pipeline"
	"github.com/veldt/rerate/internal/registry"
)

func openskillTeamMap() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmOpenSkill, Granularity: string(rating.GranularityMap), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadOpenSkillSystems(configDir(opts.ConfigRoot, algorithmOpenSkill))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := openskill.NewTeamCalculator(sys.Parameters)
			spec := pipeline.Spec[result.TeamMapResult, openskill.TeamEvent, store.TeamOpenSkillRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMapResults,
				Process:      calc.Process,
				Convert:      store.TeamOpenSkillRows,
				Repository:   newRepository[store.TeamOpenSkillRow](db, store.OpenSkillSystemsTable, store.OpenSkillSystemIDColumn, "team_id", opts),
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

func openskillTeamMatch() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmOpenSkill, Granularity: string(rating.GranularityMatch), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadOpenSkillSystems(configDir(opts.ConfigRoot, algorithmOpenSkill))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := openskill.NewTeamMatchCalculator(sys.Parameters)
			spec := pipeline.Spec[result.TeamMatchResult, openskill.TeamMatchEvent, store.TeamMatchOpenSkillRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMatchResults,
				Process:      calc.Process,
				Convert:      store.TeamMatchOpenSkillRows,
				Repository:   newRepository[store.TeamMatchOpenSkillRow](db, store.OpenSkillSystemsTable, store.OpenSkillSystemIDColumn, "team_id", opts),
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

func openskillTeamMapSpecific() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmOpenSkill, Granularity: string(rating.GranularityMapSpecific), Subject: string(rating.SubjectTeam)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadMapSpecificOpenSkillSystems(mapSpecificConfigDir(opts.ConfigRoot, algorithmOpenSkill))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := openskill.NewMapSpecificTeamCalculator(sys.Parameters)
			spec := pipeline.Spec[result.TeamMapResult, openskill.TeamMapEvent, store.TeamMapOpenSkillRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchTeamMapResults,
				Process:      calc.Process,
				Convert:      store.TeamMapOpenSkillRows,
				Repository:   newRepository[store.TeamMapOpenSkillRow](db, store.OpenSkillSystemsTable, store.OpenSkillSystemIDColumn, "team_id", opts),
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

func openskillPlayerMap() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmOpenSkill, Granularity: string(rating.GranularityMap), Subject: string(rating.SubjectPlayer)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadOpenSkillSystems(configDir(opts.ConfigRoot, algorithmOpenSkill))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := openskill.NewPlayerCalculator(sys.Parameters)
			spec := pipeline.Spec[result.PlayerMapResult, openskill.PlayerEvent, store.PlayerOpenSkillRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchPlayerMapResults,
				Process:      calc.Process,
				Convert:      store.PlayerOpenSkillRows,
				Repository:   newRepository[store.PlayerOpenSkillRow](db, store.OpenSkillSystemsTable, store.OpenSkillSystemIDColumn, "player_id", opts),
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

func openskillPlayerMapSpecific() registry.Descriptor {
	key := registry.Key{Algorithm: algorithmOpenSkill, Granularity: string(rating.GranularityMapSpecific), Subject: string(rating.SubjectPlayer)}
	return registry.Descriptor{Key: key, Run: func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error) {
		systems, err := config.LoadMapSpecificOpenSkillSystems(mapSpecificConfigDir(opts.ConfigRoot, algorithmOpenSkill))
		if err != nil {
			return nil, err
		}
		var summaries []pipeline.Summary
		for _, sys := range systems {
			configJSON, err := sys.ConfigJSON()
			if err != nil {
				return summaries, err
			}
			calc := openskill.NewMapSpecificPlayerCalculator(sys.Parameters)
			spec := pipeline.Spec[result.PlayerMapResult, openskill.PlayerMapEvent, store.PlayerMapOpenSkillRow]{
				Algorithm:    key.Algorithm,
				Granularity:  key.Granularity,
				Subject:      key.Subject,
				Name:         sys.Name,
				Description:  sys.Description,
				ConfigJSON:   configJSON,
				LookbackDays: sys.LookbackDays,
				Fetch:        source.FetchPlayerMapResults,
				Process:      calc.Process,
				Convert:      store.PlayerMapOpenSkillRows,
				Repository:   newRepository[store.PlayerMapOpenSkillRow](db, store.OpenSkillSystemsTable, store.OpenSkillSystemIDColumn, "player_id", opts),
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
