// Package config loads analyzer configuration from YAML with environment
// overrides. A Manager hands out immutable snapshots through an atomic
// pointer so concurrent analyses never observe a half-applied reload.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/seomesh/seomesh/core/equity"
)

type Config struct {
	Engine EngineConfig `yaml:"engine"`
	WhatIf WhatIfConfig `yaml:"whatif"`
	Log    LogConfig    `yaml:"log"`
}

type EngineConfig struct {
	Damping        float64 `yaml:"damping"`
	Tolerance      float64 `yaml:"tolerance"`
	MaxIterations  int     `yaml:"max_iterations"`
	ContentRate    float64 `yaml:"content_rate"`
	NavigationRate float64 `yaml:"navigation_rate"`
	BacklinkScore  float64 `yaml:"backlink_score"`
	SeedFloor      float64 `yaml:"seed_floor"`
	NormalizeMax   float64 `yaml:"normalize_max"`
}

type WhatIfConfig struct {
	DeltaThreshold float64 `yaml:"delta_threshold"`
	CacheSize      int     `yaml:"cache_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Damping:        equity.DefaultDamping,
			Tolerance:      equity.DefaultTolerance,
			MaxIterations:  equity.DefaultMaxIterations,
			ContentRate:    equity.DefaultContentRate,
			NavigationRate: equity.DefaultNavigationRate,
			BacklinkScore:  equity.DefaultBacklinkScore,
			SeedFloor:      equity.DefaultSeedFloor,
			NormalizeMax:   equity.DefaultNormalizeMax,
		},
		WhatIf: WhatIfConfig{
			DeltaThreshold: 0.01,
			CacheSize:      128,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Params maps the engine section onto propagation parameters.
func (c *Config) Params() equity.Params {
	return equity.Params{
		Damping:        c.Engine.Damping,
		Tolerance:      c.Engine.Tolerance,
		MaxIterations:  c.Engine.MaxIterations,
		ContentRate:    c.Engine.ContentRate,
		NavigationRate: c.Engine.NavigationRate,
		BacklinkScore:  c.Engine.BacklinkScore,
		SeedFloor:      c.Engine.SeedFloor,
		NormalizeMax:   c.Engine.NormalizeMax,
	}
}

// Validate checks the snapshot for internal consistency.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.WhatIf.DeltaThreshold < 0 {
		return fmt.Errorf("whatif: delta threshold must be non-negative, got %v", c.WhatIf.DeltaThreshold)
	}
	if c.WhatIf.CacheSize <= 0 {
		return fmt.Errorf("whatif: cache size must be positive, got %d", c.WhatIf.CacheSize)
	}
	return nil
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvironment layers SEOMESH_* variables over the file values.
func applyEnvironment(cfg *Config) {
	if v, ok := envFloat("SEOMESH_DAMPING"); ok {
		cfg.Engine.Damping = v
	}
	if v, ok := envFloat("SEOMESH_TOLERANCE"); ok {
		cfg.Engine.Tolerance = v
	}
	if v, ok := envInt("SEOMESH_MAX_ITERATIONS"); ok {
		cfg.Engine.MaxIterations = v
	}
	if v, ok := envFloat("SEOMESH_CONTENT_RATE"); ok {
		cfg.Engine.ContentRate = v
		cfg.Engine.NavigationRate = 1 - v
	}
	if v := os.Getenv("SEOMESH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func envFloat(name string) (float64, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
