// Package config loads customizer settings from customizer.cfg.json, the
// environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file searched for when no path is given.
const FileName = "customizer.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. CUSTOMIZER_RENDER_WIDTH.
const EnvPrefix = "CUSTOMIZER"

// Config holds every setting of the customizer.
type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	LogFile  string `mapstructure:"logFile"`

	// Catalog is a YAML vehicle catalog; empty selects the built-in one.
	Catalog string `mapstructure:"catalog"`
	// AssetRoot is a directory or URL that the built-in catalog's asset
	// paths resolve against. YAML catalogs resolve against their own directory.
	AssetRoot   string        `mapstructure:"assetRoot"`
	HTTPTimeout time.Duration `mapstructure:"httpTimeout"`

	OutputDir string       `mapstructure:"outputDir"`
	Workers   int          `mapstructure:"workers"`
	Render    RenderConfig `mapstructure:"render"`
	Colors    ColorsConfig `mapstructure:"colors"`
}

// RenderConfig sizes snapshot output.
type RenderConfig struct {
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	Supersample int    `mapstructure:"supersample"`
	Background  string `mapstructure:"background"`
}

// ColorsConfig holds the initial region colors as hex strings.
type ColorsConfig struct {
	Paint string `mapstructure:"paint"`
	Wheel string `mapstructure:"wheel"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")

	v.SetDefault("catalog", "")
	v.SetDefault("assetRoot", "")
	v.SetDefault("httpTimeout", "60s")

	v.SetDefault("outputDir", "./renders")
	v.SetDefault("workers", 0)

	v.SetDefault("render.width", 512)
	v.SetDefault("render.height", 512)
	v.SetDefault("render.supersample", 2)
	v.SetDefault("render.background", "#ffffff")

	v.SetDefault("colors.paint", "#005cbb")
	v.SetDefault("colors.wheel", "#000000")
}

// Load reads path, or FileName from the working directory when path is
// empty, layered over defaults and CUSTOMIZER_* environment variables. A
// missing default file is not an error; a missing explicit path is.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", describe(path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", describe(path), err)
	}
	return cfg, nil
}

func describe(path string) string {
	if path == "" {
		return FileName
	}
	return path
}

// Flags holds CLI flag values that override file and environment settings.
type Flags struct {
	Catalog   string
	AssetRoot string
	OutputDir string
	Workers   int
	Paint     string
	Wheel     string
}

// Resolve applies non-empty flags and fills anything still unset.
func (c *Config) Resolve(flags Flags) {
	if flags.Catalog != "" {
		c.Catalog = flags.Catalog
	}
	if flags.AssetRoot != "" {
		c.AssetRoot = flags.AssetRoot
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Paint != "" {
		c.Colors.Paint = flags.Paint
	}
	if flags.Wheel != "" {
		c.Colors.Wheel = flags.Wheel
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 60 * time.Second
	}
	if c.Render.Width <= 0 {
		c.Render.Width = 512
	}
	if c.Render.Height <= 0 {
		c.Render.Height = c.Render.Width
	}
	if c.Render.Supersample <= 0 {
		c.Render.Supersample = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
