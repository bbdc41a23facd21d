// Package config loads settings from flags, PAWNDROPPER_* environment
// variables and an optional pawndropper.yaml in the data directory, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hailam/pawndropper/internal/board"
	"github.com/hailam/pawndropper/internal/engine"
	"github.com/hailam/pawndropper/internal/logging"
	"github.com/hailam/pawndropper/internal/storage"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	envPrefix  = "PAWNDROPPER"
	configName = "pawndropper"
)

// Config holds the settings of an interactive session.
type Config struct {
	CPUSide   board.Color
	Depth     int
	MoveTime  time.Duration
	TTSizeMB  int // 0 disables the transposition table
	Name      string
	LogLevel  zerolog.Level
	LogFormat string
	DataDir   string
	NoStore   bool
	FEN       string

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// FlagSet returns the command-line flags understood by Load.
func FlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("cpu-side", "black", "side played by the engine (white or black)")
	fs.Int("depth", engine.DefaultDepth, "search depth in plies")
	fs.Duration("move-time", 0, "time limit per engine move (0 = none)")
	fs.Int("tt-size-mb", 16, "transposition table size in MB (0 disables it)")
	fs.String("name", "", "player name shown in statistics")
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.String("log-format", logging.FormatConsole, "log format (console or json)")
	fs.String("data-dir", "", "directory for the game database and config file")
	fs.Bool("no-store", false, "do not save games or statistics")
	fs.String("fen", "", "start from this position instead of the initial one")
	fs.String("config", "", "config file (default <data-dir>/pawndropper.yaml)")
	return fs
}

// Load parses args and merges them with the environment and the config
// file. It returns pflag.ErrHelp when help was requested.
func Load(args []string) (*Config, error) {
	fs := FlagSet(configName)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}

	dataDir := v.GetString("data-dir")
	if dataDir == "" {
		var err error
		if dataDir, err = storage.GetDataDir(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := readConfigFile(v, dataDir); err != nil {
		return nil, err
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir
	cfg.ConfigFile = v.ConfigFileUsed()
	return cfg, nil
}

// readConfigFile reads the explicit --config file, or pawndropper.yaml in
// dataDir when it exists.
func readConfigFile(v *viper.Viper, dataDir string) error {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Depth:     v.GetInt("depth"),
		MoveTime:  v.GetDuration("move-time"),
		TTSizeMB:  v.GetInt("tt-size-mb"),
		Name:      v.GetString("name"),
		LogFormat: strings.ToLower(v.GetString("log-format")),
		NoStore:   v.GetBool("no-store"),
		FEN:       strings.TrimSpace(v.GetString("fen")),
	}

	side, ok := board.ParseColor(strings.ToLower(v.GetString("cpu-side")))
	if !ok {
		return nil, fmt.Errorf("%w: cpu-side %q is neither white nor black", ErrInvalidConfig, v.GetString("cpu-side"))
	}
	cfg.CPUSide = side

	if cfg.Depth < 1 || cfg.Depth > engine.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d outside 1-%d", ErrInvalidConfig, cfg.Depth, engine.MaxDepth)
	}
	if cfg.MoveTime < 0 {
		return nil, fmt.Errorf("%w: negative move-time %s", ErrInvalidConfig, cfg.MoveTime)
	}
	if cfg.TTSizeMB < 0 {
		return nil, fmt.Errorf("%w: negative tt-size-mb %d", ErrInvalidConfig, cfg.TTSizeMB)
	}

	level, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.LogLevel = level

	switch cfg.LogFormat {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return nil, fmt.Errorf("%w: log-format %q", ErrInvalidConfig, cfg.LogFormat)
	}

	if cfg.FEN != "" {
		if _, err := board.ParseFEN(cfg.FEN); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return cfg, nil
}

// HumanSide returns the color played by the user.
func (c *Config) HumanSide() board.Color { return c.CPUSide.Other() }

// EngineOptions returns the engine options implied by c.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{UseTT: c.TTSizeMB > 0, TTSizeMB: c.TTSizeMB}
}

// Limits returns the per-move search limits implied by c.
func (c *Config) Limits() engine.Limits {
	return engine.Limits{Depth: c.Depth, MoveTime: c.MoveTime}
}
