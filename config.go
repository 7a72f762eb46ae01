package roads2dem

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ClassConfig overrides harmonization parameters for one road class. Nil
// fields keep the built-in default.
type ClassConfig struct {
	Priority        *int     `yaml:"priority"`
	Width           *float64 `yaml:"width"`
	DetectionRadius *float64 `yaml:"detection_radius"`
	MaxBankAngle    *float64 `yaml:"max_bank_angle"`
	BankingStrength *float64 `yaml:"banking_strength"`
	BlendRange      *float64 `yaml:"blend_range"`
	DesignSpeed     *float64 `yaml:"design_speed"`
}

// LoggingConfig holds logging settings for the CLI
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Config holds all harmonization settings
type Config struct {
	DetectionRadius     float64                `yaml:"detection_radius"`
	BlendCurve          string                 `yaml:"blend_curve"`
	ElevationFloor      float64                `yaml:"elevation_floor"`
	SmoothingIterations int                    `yaml:"smoothing_iterations"`
	SampleSpacing       float64                `yaml:"sample_spacing"`
	Classes             map[string]ClassConfig `yaml:"classes"`
	Logging             LoggingConfig          `yaml:"logging"`
}

// DefaultConfig returns a Config with the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		DetectionRadius:     defaultDetectionRadius,
		BlendCurve:          BLEND_SMOOTHERSTEP.String(),
		ElevationFloor:      defaultElevationFloor,
		SmoothingIterations: 0,
		SampleSpacing:       defaultSampleSpacing,
		Classes:             map[string]ClassConfig{},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML parameter file merged over the defaults. An empty
// path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "Can't parse config file")
	}
	if _, ok := blendCurveByName[cfg.BlendCurve]; !ok {
		return nil, errors.Errorf("Unknown blend curve '%s'", cfg.BlendCurve)
	}
	for name := range cfg.Classes {
		if _, ok := roadClassByName[name]; !ok {
			return nil, errors.Errorf("Unknown road class '%s'", name)
		}
	}
	return cfg, nil
}

// SaveConfig writes the configuration as YAML
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "Can't marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "Can't write config file")
	}
	return nil
}

// ParsedBlendCurve returns the configured shoulder curve
func (cfg *Config) ParsedBlendCurve() BlendCurve {
	if curve, ok := blendCurveByName[cfg.BlendCurve]; ok {
		return curve
	}
	return BLEND_SMOOTHERSTEP
}

// ApplyToSpline overwrites spline parameters with configured per-class overrides
func (cfg *Config) ApplyToSpline(spline *Spline) {
	override, ok := cfg.Classes[spline.Class.String()]
	if !ok {
		return
	}
	if override.Priority != nil {
		spline.Priority = *override.Priority
	}
	if override.Width != nil {
		spline.RoadWidth = *override.Width
	}
	if override.DetectionRadius != nil {
		spline.DetectionRadius = *override.DetectionRadius
	}
	if override.MaxBankAngle != nil {
		spline.MaxBankAngle = *override.MaxBankAngle
	}
	if override.BankingStrength != nil {
		spline.BankingStrength = *override.BankingStrength
	}
	if override.BlendRange != nil {
		spline.BlendRange = *override.BlendRange
	}
	if override.DesignSpeed != nil {
		spline.DesignSpeed = *override.DesignSpeed
	}
}
