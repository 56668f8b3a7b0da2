package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/veldt/rerate/internal/domain/elo"
	"github.com/veldt/rerate/internal/domain/glicko2"
	"github.com/veldt/rerate/internal/domain/openskill"
)

// DefaultLookbackDays applies when a system file omits lookback_days.
const DefaultLookbackDays = 365

// SystemMeta is the metadata shared by all system configs.
type SystemMeta struct {
	Name         string
	Description  string
	FilePath     string
	LookbackDays int
}

type systemBlock struct {
	Name         string `koanf:"name"`
	Description  string `koanf:"description"`
	LookbackDays int    `koanf:"lookback_days"`
}

type mapSpecificBlock struct {
	MapPriorGames float64 `koanf:"map_prior_games"`
}

// loadTOML parses one system file into a prefilled raw struct.
func loadTOML(path string, out any) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}
	return nil
}

func parseMeta(raw systemBlock, path string) (SystemMeta, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return SystemMeta{}, fmt.Errorf("%w: %s: [system].name is required", ErrInvalidConfig, path)
	}
	if raw.LookbackDays < 0 {
		return SystemMeta{}, fmt.Errorf("%w: %s: [system].lookback_days must be >= 0", ErrInvalidConfig, path)
	}
	return SystemMeta{
		Name:         name,
		Description:  raw.Description,
		FilePath:     path,
		LookbackDays: raw.LookbackDays,
	}, nil
}

// systemFiles lists the sorted *.toml files in dir, failing when the
// directory is missing or holds none.
func systemFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: config directory %s: %v", ErrLoadConfig, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: config path is not a directory: %s", ErrLoadConfig, dir)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .toml config files found in %s", ErrLoadConfig, dir)
	}
	return files, nil
}

func checkDuplicates(names []string, dir string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("%w: %q appears more than once in %s", ErrDuplicateSystem, name, dir)
		}
		seen[name] = true
	}
	return nil
}

func marshalConfig(fields map[string]any) (string, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return string(b), nil
}

// Elo

type eloBlock struct {
	InitialElo                  float64 `koanf:"initial_elo"`
	KFactor                     float64 `koanf:"k_factor"`
	ScaleFactor                 float64 `koanf:"scale_factor"`
	EvenMultiplier              float64 `koanf:"even_multiplier"`
	FavoredMultiplier           float64 `koanf:"favored_multiplier"`
	UnfavoredMultiplier         float64 `koanf:"unfavored_multiplier"`
	OpponentStrengthWeight      float64 `koanf:"opponent_strength_weight"`
	LANMultiplier               float64 `koanf:"lan_multiplier"`
	RoundDominationMultiplier   float64 `koanf:"round_domination_multiplier"`
	KDRatioDominationMultiplier float64 `koanf:"kd_ratio_domination_multiplier"`
	RecencyMinMultiplier        float64 `koanf:"recency_min_multiplier"`
	InactivityHalfLifeDays      float64 `koanf:"inactivity_half_life_days"`
	BO1Multiplier               float64 `koanf:"bo1_match_multiplier"`
	BO3Multiplier               float64 `koanf:"bo3_match_multiplier"`
	BO5Multiplier               float64 `koanf:"bo5_match_multiplier"`
}

type eloFile struct {
	System      systemBlock      `koanf:"system"`
	Elo         eloBlock         `koanf:"elo"`
	MapSpecific mapSpecificBlock `koanf:"map_specific"`
}

func defaultEloFile() eloFile {
	d := elo.DefaultParameters()
	return eloFile{
		System: systemBlock{LookbackDays: DefaultLookbackDays},
		Elo: eloBlock{
			InitialElo:                  d.InitialRating,
			KFactor:                     d.KFactor,
			ScaleFactor:                 d.ScaleFactor,
			EvenMultiplier:              d.EvenMultiplier,
			FavoredMultiplier:           d.FavoredMultiplier,
			UnfavoredMultiplier:         d.UnfavoredMultiplier,
			OpponentStrengthWeight:      d.OpponentStrengthWeight,
			LANMultiplier:               d.LANMultiplier,
			RoundDominationMultiplier:   d.RoundDominationMultiplier,
			KDRatioDominationMultiplier: d.KDRatioDominationMultiplier,
			RecencyMinMultiplier:        d.RecencyMinMultiplier,
			InactivityHalfLifeDays:      d.InactivityHalfLifeDays,
			BO1Multiplier:               d.BO1Multiplier,
			BO3Multiplier:               d.BO3Multiplier,
			BO5Multiplier:               d.BO5Multiplier,
		},
		MapSpecific: mapSpecificBlock{MapPriorGames: elo.DefaultMapPriorGames},
	}
}

func (b eloBlock) parameters() elo.Parameters {
	return elo.Parameters{
		InitialRating:               b.InitialElo,
		KFactor:                     b.KFactor,
		ScaleFactor:                 b.ScaleFactor,
		EvenMultiplier:              b.EvenMultiplier,
		FavoredMultiplier:           b.FavoredMultiplier,
		UnfavoredMultiplier:         b.UnfavoredMultiplier,
		OpponentStrengthWeight:      b.OpponentStrengthWeight,
		LANMultiplier:               b.LANMultiplier,
		RoundDominationMultiplier:   b.RoundDominationMultiplier,
		KDRatioDominationMultiplier: b.KDRatioDominationMultiplier,
		RecencyMinMultiplier:        b.RecencyMinMultiplier,
		InactivityHalfLifeDays:      b.InactivityHalfLifeDays,
		BO1Multiplier:               b.BO1Multiplier,
		BO3Multiplier:               b.BO3Multiplier,
		BO5Multiplier:               b.BO5Multiplier,
	}
}

func (b eloBlock) validate(path string) error {
	positive := map[string]float64{
		"initial_elo":                    b.InitialElo,
		"k_factor":                       b.KFactor,
		"scale_factor":                   b.ScaleFactor,
		"even_multiplier":                b.EvenMultiplier,
		"favored_multiplier":             b.FavoredMultiplier,
		"unfavored_multiplier":           b.UnfavoredMultiplier,
		"opponent_strength_weight":       b.OpponentStrengthWeight,
		"lan_multiplier":                 b.LANMultiplier,
		"round_domination_multiplier":    b.RoundDominationMultiplier,
		"kd_ratio_domination_multiplier": b.KDRatioDominationMultiplier,
		"bo1_match_multiplier":           b.BO1Multiplier,
		"bo3_match_multiplier":           b.BO3Multiplier,
		"bo5_match_multiplier":           b.BO5Multiplier,
	}
	for key, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%w: %s: [elo].%s must be > 0", ErrInvalidConfig, path, key)
		}
	}
	if b.RecencyMinMultiplier < 0 || b.RecencyMinMultiplier > 1 {
		return fmt.Errorf("%w: %s: [elo].recency_min_multiplier must be between 0 and 1", ErrInvalidConfig, path)
	}
	if b.InactivityHalfLifeDays < 0 {
		return fmt.Errorf("%w: %s: [elo].inactivity_half_life_days must be >= 0", ErrInvalidConfig, path)
	}
	return nil
}

func (b eloBlock) configJSON(meta SystemMeta) map[string]any {
	return map[string]any{
		"initial_elo":                    b.InitialElo,
		"k_factor":                       b.KFactor,
		"scale_factor":                   b.ScaleFactor,
		"lookback_days":                  meta.LookbackDays,
		"even_multiplier":                b.EvenMultiplier,
		"favored_multiplier":             b.FavoredMultiplier,
		"unfavored_multiplier":           b.UnfavoredMultiplier,
		"opponent_strength_weight":       b.OpponentStrengthWeight,
		"lan_multiplier":                 b.LANMultiplier,
		"round_domination_multiplier":    b.RoundDominationMultiplier,
		"kd_ratio_domination_multiplier": b.KDRatioDominationMultiplier,
		"recency_min_multiplier":         b.RecencyMinMultiplier,
		"inactivity_half_life_days":      b.InactivityHalfLifeDays,
		"bo1_match_multiplier":           b.BO1Multiplier,
		"bo3_match_multiplier":           b.BO3Multiplier,
		"bo5_match_multiplier":           b.BO5Multiplier,
	}
}

// EloSystem is one validated Elo system definition.
type EloSystem struct {
	SystemMeta

	Parameters elo.Parameters
	raw        eloBlock
}

// ConfigJSON serializes the resolved parameter set for audit.
func (s EloSystem) ConfigJSON() (string, error) {
	return marshalConfig(s.raw.configJSON(s.SystemMeta))
}

// MapSpecificEloSystem is one validated map-specific Elo system definition.
type MapSpecificEloSystem struct {
	SystemMeta

	Parameters elo.MapSpecificParameters
	raw        eloBlock
}

// ConfigJSON serializes the resolved parameter set for audit.
func (s MapSpecificEloSystem) ConfigJSON() (string, error) {
	fields := s.raw.configJSON(s.SystemMeta)
	fields["map_prior_games"] = s.Parameters.MapPriorGames
	return marshalConfig(fields)
}

// LoadEloSystems loads and validates all Elo system files in dir.
func LoadEloSystems(dir string) ([]EloSystem, error) {
	files, err := systemFiles(dir)
	if err != nil {
		return nil, err
	}
	systems := make([]EloSystem, 0, len(files))
	names := make([]string, 0, len(files))
	for _, path := range files {
		raw := defaultEloFile()
		if err := loadTOML(path, &raw); err != nil {
			return nil, err
		}
		meta, err := parseMeta(raw.System, path)
		if err != nil {
			return nil, err
		}
		if err := raw.Elo.validate(path); err != nil {
			return nil, err
		}
		systems = append(systems, EloSystem{SystemMeta: meta, Parameters: raw.Elo.parameters(), raw: raw.Elo})
		names = append(names, meta.Name)
	}
	if err := checkDuplicates(names, dir); err != nil {
		return nil, err
	}
	return systems, nil
}

// LoadMapSpecificEloSystems loads map-specific Elo system files, which add a
// [map_specific] block on top of the regular Elo one.
func LoadMapSpecificEloSystems(dir string) ([]MapSpecificEloSystem, error) {
	files, err := systemFiles(dir)
	if err != nil {
		return nil, err
	}
	systems := make([]MapSpecificEloSystem, 0, len(files))
	names := make([]string, 0, len(files))
	for _, path := range files {
		raw := defaultEloFile()
		if err := loadTOML(path, &raw); err != nil {
			return nil, err
		}
		meta, err := parseMeta(raw.System, path)
		if err != nil {
			return nil, err
		}
		if err := raw.Elo.validate(path); err != nil {
			return nil, err
		}
		if raw.MapSpecific.MapPriorGames <= 0 {
			return nil, fmt.Errorf("%w: %s: [map_specific].map_prior_games must be > 0", ErrInvalidConfig, path)
		}
		systems = append(systems, MapSpecificEloSystem{
			SystemMeta: meta,
			Parameters: elo.MapSpecificParameters{
				Parameters:    raw.Elo.parameters(),
				MapPriorGames: raw.MapSpecific.MapPriorGames,
			},
			raw: raw.Elo,
		})
		names = append(names, meta.Name)
	}
	if err := checkDuplicates(names, dir); err != nil {
		return nil, err
	}
	return systems, nil
}

// Glicko-2

type glicko2Block struct {
	InitialRating     float64 `koanf:"initial_rating"`
	InitialRD         float64 `koanf:"initial_rd"`
	InitialVolatility float64 `koanf:"initial_volatility"`
	Tau               float64 `koanf:"tau"`
	RatingPeriodDays  float64 `koanf:"rating_period_days"`
	MinRD             float64 `koanf:"min_rd"`
	MaxRD             float64 `koanf:"max_rd"`
	Epsilon           float64 `koanf:"epsilon"`
}

type glicko2File struct {
	System      systemBlock      `koanf:"system"`
	Glicko2     glicko2Block     `koanf:"glicko2"`
	MapSpecific mapSpecificBlock `koanf:"map_specific"`
}

func defaultGlicko2File() glicko2File {
	d := glicko2.DefaultParameters()
	return glicko2File{
		System: systemBlock{LookbackDays: DefaultLookbackDays},
		Glicko2: glicko2Block{
			InitialRating:     d.InitialRating,
			InitialRD:         d.InitialRD,
			InitialVolatility: d.InitialVolatility,
			Tau:               d.Tau,
			RatingPeriodDays:  d.RatingPeriodDays,
			MinRD:             d.MinRD,
			MaxRD:             d.MaxRD,
			Epsilon:           d.Epsilon,
		},
		MapSpecific: mapSpecificBlock{MapPriorGames: glicko2.DefaultMapPriorGames},
	}
}

func (b glicko2Block) parameters() glicko2.Parameters {
	return glicko2.Parameters{
		InitialRating:     b.InitialRating,
		InitialRD:         b.InitialRD,
		InitialVolatility: b.InitialVolatility,
		Tau:               b.Tau,
		RatingPeriodDays:  b.RatingPeriodDays,
		MinRD:             b.MinRD,
		MaxRD:             b.MaxRD,
		Epsilon:           b.Epsilon,
	}
}

func (b glicko2Block) validate(path string) error {
	positive := map[string]float64{
		"initial_rating":     b.InitialRating,
		"initial_rd":         b.InitialRD,
		"initial_volatility": b.InitialVolatility,
		"tau":                b.Tau,
		"rating_period_days": b.RatingPeriodDays,
		"min_rd":             b.MinRD,
		"max_rd":             b.MaxRD,
		"epsilon":            b.Epsilon,
	}
	for key, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%w: %s: [glicko2].%s must be > 0", ErrInvalidConfig, path, key)
		}
	}
	if b.MinRD > b.MaxRD {
		return fmt.Errorf("%w: %s: [glicko2].min_rd must be <= max_rd", ErrInvalidConfig, path)
	}
	if b.InitialRD < b.MinRD || b.InitialRD > b.MaxRD {
		return fmt.Errorf("%w: %s: [glicko2].initial_rd must be between min_rd and max_rd", ErrInvalidConfig, path)
	}
	return nil
}

func (b glicko2Block) configJSON(meta SystemMeta) map[string]any {
	return map[string]any{
		"initial_rating":     b.InitialRating,
		"initial_rd":         b.InitialRD,
		"initial_volatility": b.InitialVolatility,
		"tau":                b.Tau,
		"rating_period_days": b.RatingPeriodDays,
		"min_rd":             b.MinRD,
		"max_rd":             b.MaxRD,
		"epsilon":            b.Epsilon,
		"lookback_days":      meta.LookbackDays,
	}
}

// Glicko2System is one validated Glicko-2 system definition.
type Glicko2System struct {
	SystemMeta

	Parameters glicko2.Parameters
	raw        glicko2Block
}

// ConfigJSON serializes the resolved parameter set for audit.
func (s Glicko2System) ConfigJSON() (string, error) {
	return marshalConfig(s.raw.configJSON(s.SystemMeta))
}

// MapSpecificGlicko2System is one validated map-specific Glicko-2 system
// definition.
type MapSpecificGlicko2System struct {
	SystemMeta

	Parameters glicko2.MapSpecificParameters
	raw        glicko2Block
}

// ConfigJSON serializes the resolved parameter set for audit.
func (s MapSpecificGlicko2System) ConfigJSON() (string, error) {
	fields := s.raw.configJSON(s.SystemMeta)
	fields["map_prior_games"] = s.Parameters.MapPriorGames
	return marshalConfig(fields)
}

// LoadGlicko2Systems loads and validates all Glicko-2 system files in dir.
func LoadGlicko2Systems(dir string) ([]Glicko2System, error) {
	files, err := systemFiles(dir)
	if err != nil {
		return nil, err
	}
	systems := make([]Glicko2System, 0, len(files))
	names := make([]string, 0, len(files))
	for _, path := range files {
		raw := defaultGlicko2File()
		if err := loadTOML(path, &raw); err != nil {
			return nil, err
		}
		meta, err := parseMeta(raw.System, path)
		if err != nil {
			return nil, err
		}
		if err := raw.Glicko2.validate(path); err != nil {
			return nil, err
		}
		systems = append(systems, Glicko2System{SystemMeta: meta, Parameters: raw.Glicko2.parameters(), raw: raw.Glicko2})
		names = append(names, meta.Name)
	}
	if err := checkDuplicates(names, dir); err != nil {
		return nil, err
	}
	return systems, nil
}

// LoadMapSpecificGlicko2Systems loads map-specific Glicko-2 system files.
func LoadMapSpecificGlicko2Systems(dir string) ([]MapSpecificGlicko2System, error) {
	files, err := systemFiles(dir)
	if err != nil {
		return nil, err
	}
	systems := make([]MapSpecificGlicko2System, 0, len(files))
	names := make([]string, 0, len(files))
	for _, path := range files {
		raw := defaultGlicko2File()
		if err := loadTOML(path, &raw); err != nil {
			return nil, err
		}
		meta, err := parseMeta(raw.System, path)
		if err != nil {
			return nil, err
		}
		if err := raw.Glicko2.validate(path); err != nil {
			return nil, err
		}
		if raw.MapSpecific.MapPriorGames <= 0 {
			return nil, fmt.Errorf("%w: %s: [map_specific].map_prior_games must be > 0", ErrInvalidConfig, path)
		}
		systems = append(systems, MapSpecificGlicko2System{
			SystemMeta: meta,
			Parameters: glicko2.MapSpecificParameters{
				Parameters:    raw.Glicko2.parameters(),
				MapPriorGames: raw.MapSpecific.MapPriorGames,
			},
			raw: raw.Glicko2,
		})
		names = append(names, meta.Name)
	}
	if err := checkDuplicates(names, dir); err != nil {
		return nil, err
	}
	return systems, nil
}

// OpenSkill

type openskillBlock struct {
	InitialMu    float64 `koanf:"initial_mu"`
	InitialSigma float64 `koanf:"initial_sigma"`
	Beta         float64 `koanf:"beta"`
	Kappa        float64 `koanf:"kappa"`
	Tau          float64 `koanf:"tau"`
	LimitSigma   bool    `koanf:"limit_sigma"`
	Balance      bool    `koanf:"balance"`
	OrdinalZ     float64 `koanf:"ordinal_z"`
}

type openskillFile struct {
	System      systemBlock      `koanf:"system"`
	OpenSkill   openskillBlock   `koanf:"openskill"`
	MapSpecific mapSpecificBlock `koanf:"map_specific"`
}

func defaultOpenSkillFile() openskillFile {
	d := openskill.DefaultParameters()
	return openskillFile{
		System: systemBlock{LookbackDays: DefaultLookbackDays},
		OpenSkill: openskillBlock{
			InitialMu:    d.InitialMu,
			InitialSigma: d.InitialSigma,
			Beta:         d.Beta,
			Kappa:        d.Kappa,
			Tau:          d.Tau,
			LimitSigma:   d.LimitSigma,
			Balance:      d.Balance,
			OrdinalZ:     d.OrdinalZ,
		},
		MapSpecific: mapSpecificBlock{MapPriorGames: openskill.DefaultMapPriorGames},
	}
}

func (b openskillBlock) parameters() openskill.Parameters {
	return openskill.Parameters{
		InitialMu:    b.InitialMu,
		InitialSigma: b.InitialSigma,
		Beta:         b.Beta,
		Kappa:        b.Kappa,
		Tau:          b.Tau,
		LimitSigma:   b.LimitSigma,
		Balance:      b.Balance,
		OrdinalZ:     b.OrdinalZ,
	}
}

func (b openskillBlock) validate(path string) error {
	positive := map[string]float64{
		"initial_mu":    b.InitialMu,
		"initial_sigma": b.InitialSigma,
		"beta":          b.Beta,
		"kappa":         b.Kappa,
		"tau":           b.Tau,
		"ordinal_z":     b.OrdinalZ,
	}
	for key, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%w: %s: [openskill].%s must be > 0", ErrInvalidConfig, path, key)
		}
	}
	if b.Balance {
		return fmt.Errorf("%w: %s: [openskill].balance is not implemented by the underlying model; remove it or set it to false", ErrInvalidConfig, path)
	}
	return nil
}

func (b openskillBlock) configJSON(meta SystemMeta) map[string]any {
	return map[string]any{
		"initial_mu":    b.InitialMu,
		"initial_sigma": b.InitialSigma,
		"beta":          b.Beta,
		"kappa":         b.Kappa,
		"tau":           b.Tau,
		"limit_sigma":   b.LimitSigma,
		"balance":       b.Balance,
		"ordinal_z":     b.OrdinalZ,
		"lookback_days": meta.LookbackDays,
	}
}

// OpenSkillSystem is one validated OpenSkill system definition.
type OpenSkillSystem struct {
	SystemMeta

	Parameters openskill.Parameters
	raw        openskillBlock
}

// ConfigJSON serializes the resolved parameter set for audit.
func (s OpenSkillSystem) ConfigJSON() (string, error) {
	return marshalConfig(s.raw.configJSON(s.SystemMeta))
}

// MapSpecificOpenSkillSystem is one validated map-specific OpenSkill system
// definition.
type MapSpecificOpenSkillSystem struct {
	SystemMeta

	Parameters openskill.MapSpecificParameters
	raw        openskillBlock
}

// ConfigJSON serializes the resolved parameter set for audit.
func (s MapSpecificOpenSkillSystem) ConfigJSON() (string, error) {
	fields := s.raw.configJSON(s.SystemMeta)
	fields["map_prior_games"] = s.Parameters.MapPriorGames
	return marshalConfig(fields)
}

// LoadOpenSkillSystems loads and validates all OpenSkill system files in dir.
func LoadOpenSkillSystems(dir string) ([]OpenSkillSystem, error) {
	files, err := systemFiles(dir)
	if err != nil {
		return nil, err
	}
	systems := make([]OpenSkillSystem, 0, len(files))
	names := make([]string, 0, len(files))
	for _, path := range files {
		raw := defaultOpenSkillFile()
		if err := loadTOML(path, &raw); err != nil {
			return nil, err
		}
		meta, err := parseMeta(raw.System, path)
		if err != nil {
			return nil, err
		}
		if err := raw.OpenSkill.validate(path); err != nil {
			return nil, err
		}
		systems = append(systems, OpenSkillSystem{SystemMeta: meta, Parameters: raw.OpenSkill.parameters(), raw: raw.OpenSkill})
		names = append(names, meta.Name)
	}
	if err := checkDuplicates(names, dir); err != nil {
		return nil, err
	}
	return systems, nil
}

// LoadMapSpecificOpenSkillSystems loads map-specific OpenSkill system files.
func LoadMapSpecificOpenSkillSystems(dir string) ([]MapSpecificOpenSkillSystem, error) {
	files, err := systemFiles(dir)
	if err != nil {
		return nil, err
	}
	systems := make([]MapSpecificOpenSkillSystem, 0, len(files))
	names := make([]string, 0, len(files))
	for _, path := range files {
		raw := defaultOpenSkillFile()
		if err := loadTOML(path, &raw); err != nil {
			return nil, err
		}
		meta, err := parseMeta(raw.System, path)
		if err != nil {
			return nil, err
		}
		if err := raw.OpenSkill.validate(path); err != nil {
			return nil, err
		}
		if raw.MapSpecific.MapPriorGames <= 0 {
			return nil, fmt.Errorf("%w: %s: [map_specific].map_prior_games must be > 0", ErrInvalidConfig, path)
		}
		systems = append(systems, MapSpecificOpenSkillSystem{
			SystemMeta: meta,
			Parameters: openskill.MapSpecificParameters{
				Parameters:    raw.OpenSkill.parameters(),
				MapPriorGames: raw.MapSpecific.MapPriorGames,
			},
			raw: raw.OpenSkill,
		})
		names = append(names, meta.Name)
	}
	if err := checkDuplicates(names, dir); err != nil {
		return nil, err
	}
	return systems, nil
}
