package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpeedTuning controls asteroid speed growth per level.
type SpeedTuning struct {
	BaseSpeed           float64 `yaml:"base_speed"`
	MaximumSpeed        float64 `yaml:"maximum_speed"`
	BaseSpeedMultiplier float64 `yaml:"base_speed_multiplier"`
	MaximumSpeedMult    float64 `yaml:"maximum_speed_multiplier"`
}

// MassTuning controls asteroid mass range per level.
type MassTuning struct {
	MinMass           float64 `yaml:"min_mass"`
	MaxMass           float64 `yaml:"max_mass"`
	MinMassMultiplier float64 `yaml:"min_mass_multiplier"`
	MinMassLimit      float64 `yaml:"min_mass_limit"`
}

// AlienTuning controls the alien ship's appearance and aggression.
type AlienTuning struct {
	SpawnTime           float64 `yaml:"spawn_time"` // seconds
	SpawnTimeMultiplier float64 `yaml:"spawn_time_multiplier"`
	SpawnTimeFloor      float64 `yaml:"spawn_time_floor"` // seconds
	Range               float64 `yaml:"range"`
	RangeMultiplier     float64 `yaml:"range_multiplier"`
	Speed               float64 `yaml:"speed"`
	SpeedMultiplier     float64 `yaml:"speed_multiplier"`
	SpeedLimit          float64 `yaml:"speed_limit"`
	FireDelay           float64 `yaml:"fire_delay"` // seconds
	FireDelayMultiplier float64 `yaml:"fire_delay_multiplier"`
	FireDelayLowLimit   float64 `yaml:"fire_delay_low_limit"`
	Points              int     `yaml:"points"`
}

// HyperspaceTuning controls the player's teleport sequence.
type HyperspaceTuning struct {
	AudioOffset       float64 `yaml:"audio_offset"`       // seconds between sound and effect
	EffectDuration    float64 `yaml:"effect_duration"`    // seconds the warp effect is visible
	DestructionRadius float64 `yaml:"destruction_radius"` // world units
}

// Tuning is the full gameplay tuning table.
type Tuning struct {
	Lives              int              `yaml:"lives"`
	StartWaveSize      int              `yaml:"start_wave_size"`
	FirstJumpThreshold int              `yaml:"first_jump_threshold"`
	Speed              SpeedTuning      `yaml:"speed"`
	Mass               MassTuning       `yaml:"mass"`
	Alien              AlienTuning      `yaml:"alien"`
	Hyperspace         HyperspaceTuning `yaml:"hyperspace"`
}

// DefaultTuning returns the stock difficulty table.
func DefaultTuning() Tuning {
	return Tuning{
		Lives:              3,
		StartWaveSize:      7,
		FirstJumpThreshold: 3000,
		Speed: SpeedTuning{
			BaseSpeed:           13.0,
			MaximumSpeed:        18.0,
			BaseSpeedMultiplier: 1.1,
			MaximumSpeedMult:    1.15,
		},
		Mass: MassTuning{
			MinMass:           0.36,
			MaxMass:           2.6,
			MinMassMultiplier: 0.9,
			MinMassLimit:      0.18,
		},
		Alien: AlienTuning{
			SpawnTime:           40.0,
			SpawnTimeMultiplier: 0.9,
			SpawnTimeFloor:      5.0,
			Range:               75.0,
			RangeMultiplier:     1.1,
			Speed:               5.0,
			SpeedMultiplier:     1.2,
			SpeedLimit:          20.0,
			FireDelay:           2.0,
			FireDelayMultiplier: 0.9,
			FireDelayLowLimit:   0.25,
			Points:              500,
		},
		Hyperspace: HyperspaceTuning{
			AudioOffset:       1.1,
			EffectDuration:    1.0,
			DestructionRadius: 60.0,
		},
	}
}

// LoadTuning reads a YAML tuning file on top of the defaults. Keys missing
// from the file keep their default values. An empty path returns defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("config: read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("config: parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects tables that would break the curve formulas.
func (t Tuning) Validate() error {
	var errs []error
	if t.Lives < 1 {
		errs = append(errs, fmt.Errorf("lives must be >= 1, got %d", t.Lives))
	}
	if t.StartWaveSize < 0 {
		errs = append(errs, fmt.Errorf("start_wave_size must be >= 0, got %d", t.StartWaveSize))
	}
	if t.FirstJumpThreshold < 1 {
		errs = append(errs, fmt.Errorf("first_jump_threshold must be >= 1, got %d", t.FirstJumpThreshold))
	}
	if t.Mass.MinMassLimit <= 0 || t.Mass.MinMass <= 0 {
		errs = append(errs, errors.New("mass limits must be positive"))
	}
	if t.Mass.MaxMass < t.Mass.MinMass {
		errs = append(errs, fmt.Errorf("max_mass %.2f below min_mass %.2f", t.Mass.MaxMass, t.Mass.MinMass))
	}
	if t.Alien.SpawnTimeFloor <= 0 {
		errs = append(errs, errors.New("alien spawn_time_floor must be positive"))
	}
	if t.Speed.BaseSpeed <= 0 || t.Speed.MaximumSpeed <= 0 {
		errs = append(errs, errors.New("asteroid speeds must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid tuning: %w", errors.Join(errs...))
	}
	return nil
}
