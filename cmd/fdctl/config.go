package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// settings holds fdctl's configuration layer: a `.fdctl.yaml`/env-var layer bound by viper (spec
// says configurable debounce interval, default theme search path, grid size for "toggle grid"),
// plus whatever local secrets godotenv loaded from a `.env` file for editor-integration use (an
// AI-refine API key the core never interprets, only forwards).
type settings struct {
	DebounceMS  int    `mapstructure:"debounce_ms"`
	ThemePath   string `mapstructure:"theme_path"`
	GridSize    int    `mapstructure:"grid_size"`
	AIRefineKey string
}

func loadSettings() (settings, error) {
	// godotenv first: a local .env populates process env vars, which viper's AutomaticEnv then
	// picks up alongside the config file layer. Missing .env is not an error — most invocations
	// have none.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(".fdctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetEnvPrefix("FDCTL")
	v.AutomaticEnv()

	v.SetDefault("debounce_ms", 300)
	v.SetDefault("theme_path", "")
	v.SetDefault("grid_size", 8)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("parsing config: %w", err)
	}
	s.AIRefineKey = os.Getenv("FD_AI_REFINE_KEY")
	if s.ThemePath != "" {
		s.ThemePath = filepath.Clean(s.ThemePath)
	}
	return s, nil
}
