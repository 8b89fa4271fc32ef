// Package config provides configuration loading and management for symbinmd.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"symbinmd/internal/models"
	"symbinmd/pkg/expansion"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Symmetrization parameters
	Symmetrization struct {
		// Mode is "Space Group" or "Symmetry Operations"
		Mode string `yaml:"mode"`

		// SpaceGroup is the International Tables number, 1..230
		SpaceGroup int `yaml:"spaceGroup"`

		// NumOperations is how many of Operations are applied
		NumOperations int `yaml:"numOperations"`

		// Operations are catalog operations such as "x,-y,z"
		Operations []string `yaml:"operations"`
	} `yaml:"symmetrization"`

	// Binning parameters
	Binning struct {
		// AxisAligned selects AlignedDims instead of BasisVectors
		AxisAligned bool `yaml:"axisAligned"`

		// AlignedDims are "name,min,max,bins" strings
		AlignedDims []string `yaml:"alignedDims"`

		// BasisVectors are "name,units,x,y,z,label" strings; "" leaves a slot empty
		BasisVectors []string `yaml:"basisVectors"`

		NormalizeBasisVectors bool      `yaml:"normalizeBasisVectors"`
		Translation           []float64 `yaml:"translation"`
		OutputExtents         []float64 `yaml:"outputExtents"`
		OutputBins            []int     `yaml:"outputBins"`
	} `yaml:"binning"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for parallel binning
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Database is the SQLite file the accumulated histogram is stored in
		Database string `yaml:"database"`

		// PlotDir receives heat-map slices; empty disables plotting
		PlotDir string `yaml:"plotDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	p := expansion.DefaultParams()

	cfg.Symmetrization.Mode = p.Mode.String()
	cfg.Symmetrization.SpaceGroup = p.SpaceGroup
	cfg.Symmetrization.NumOperations = p.NumOperations
	cfg.Symmetrization.Operations = append([]string(nil), p.Operations[:]...)

	cfg.Binning.AxisAligned = p.AxisAligned
	cfg.Binning.AlignedDims = append([]string(nil), p.AlignedDims[:]...)
	cfg.Binning.BasisVectors = append([]string(nil), p.BasisVectors[:]...)
	cfg.Binning.NormalizeBasisVectors = p.Normalize
	cfg.Binning.Translation = append([]float64(nil), p.Translation[:]...)
	cfg.Binning.OutputExtents = append([]float64(nil), p.Extents[:]...)
	cfg.Binning.OutputBins = append([]int(nil), p.Bins[:]...)

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	cfg.Output.Database = "symbinmd.db"
	cfg.Output.PlotDir = ""
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// ExpansionParams converts the configuration into driver parameters.
// List lengths are checked here; value ranges are checked by the driver.
func (c *Config) ExpansionParams() (*expansion.Params, error) {
	mode, err := expansion.ParseMode(c.Symmetrization.Mode)
	if err != nil {
		return nil, err
	}

	p := &expansion.Params{
		Mode:          mode,
		SpaceGroup:    c.Symmetrization.SpaceGroup,
		NumOperations: c.Symmetrization.NumOperations,
		AxisAligned:   c.Binning.AxisAligned,
		Normalize:     c.Binning.NormalizeBasisVectors,
	}

	if err := fill(p.Operations[:], c.Symmetrization.Operations, "symmetrization.operations"); err != nil {
		return nil, err
	}
	if err := fill(p.BasisVectors[:], c.Binning.BasisVectors, "binning.basisVectors"); err != nil {
		return nil, err
	}
	if err := fill(p.AlignedDims[:], c.Binning.AlignedDims, "binning.alignedDims"); err != nil {
		return nil, err
	}
	if err := fill(p.Translation[:], c.Binning.Translation, "binning.translation"); err != nil {
		return nil, err
	}
	if err := fill(p.Extents[:], c.Binning.OutputExtents, "binning.outputExtents"); err != nil {
		return nil, err
	}
	if err := fill(p.Bins[:], c.Binning.OutputBins, "binning.outputBins"); err != nil {
		return nil, err
	}

	return p, nil
}

// fill copies src into dst. Shorter lists leave the remaining entries zero.
func fill[T any](dst, src []T, key string) error {
	if len(src) > len(dst) {
		return fmt.Errorf("%w: %s has %d entries, at most %d allowed",
			models.ErrConfiguration, key, len(src), len(dst))
	}
	copy(dst, src)
	return nil
}
