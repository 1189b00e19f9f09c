// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	LogLevel     *string            `toml:"log-level"`
	Calculator   CalculatorConfig   `toml:"calculator"`
	Filters      FiltersConfig      `toml:"filters"`
	Localization LocalizationConfig `toml:"localization"`
	Measure      MeasureConfig      `toml:"measure"`
	Server       ServerConfig       `toml:"server"`
}

// CalculatorConfig maps calculation settings.
type CalculatorConfig struct {
	Width   *float64 `toml:"width"`
	Reduce  *bool    `toml:"reduce"`
	Generic *bool    `toml:"generic"`
	Sort    *string  `toml:"sort"`
	Dir     *string  `toml:"dir"`
	Locale  *string  `toml:"locale"`
}

// FiltersConfig maps character filters.
type FiltersConfig struct {
	IgnoreCapitals *bool `toml:"ignore-capitals"`
	IgnoreNumbers  *bool `toml:"ignore-numbers"`
	IgnoreSymbols  *bool `toml:"ignore-symbols"`
	IgnoreSpaces   *bool `toml:"ignore-spaces"`
}

// LocalizationConfig maps expansion-rate settings.
type LocalizationConfig struct {
	Enabled      *bool    `toml:"enabled"`
	GenericRates *bool    `toml:"generic-rates"`
	GenericRate  *float64 `toml:"generic-rate"`
}

// MeasureConfig maps width measurement settings.
type MeasureConfig struct {
	Mode     *string  `toml:"mode"`
	Font     *string  `toml:"font"`
	FontSize *float64 `toml:"font-size"`
	DPI      *float64 `toml:"dpi"`
	CellPx   *float64 `toml:"cell-px"`
	Widths   *string  `toml:"widths"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
