package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const maxWalkDepth = 25

// Config is the selekt configuration loaded from selekt.yaml, the
// environment and command-line flags.
type Config struct {
	// Engine is the SQL dialect to render for. Empty means prompt.
	Engine string `mapstructure:"engine" json:"engine"`

	// Pretty starts the session with multi-line output.
	Pretty bool `mapstructure:"pretty" json:"pretty"`

	Database DatabaseConfig `mapstructure:"database" json:"database"`
	History  HistoryConfig  `mapstructure:"history" json:"history"`
}

// DatabaseConfig holds connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" json:"url"`
	// MaxStatements bounds the prepared statement cache.
	MaxStatements int `mapstructure:"max_statements" json:"max_statements"`
}

// HistoryConfig controls the readline history file.
type HistoryConfig struct {
	File  string `mapstructure:"file" json:"file"`
	Limit int    `mapstructure:"limit" json:"limit"`
}

// LoadConfig discovers and loads configuration with precedence
// flags > env > config file > defaults.
//
// Returns the loaded config and the path to the config file (empty if none
// was found).
func LoadConfig(explicitConfigPath string, flags *pflag.FlagSet) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SELEKT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DATABASE_URL is honoured without the prefix.
	if err := v.BindEnv("database.url", "SELEKT_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, "", fmt.Errorf("binding environment: %w", err)
	}

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			"engine":       "engine",
			"database.url": "dsn",
			"pretty":       "pretty",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, configPath, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", "")
	v.SetDefault("pretty", false)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_statements", 256)

	v.SetDefault("history.file", defaultHistoryPath())
	v.SetDefault("history.limit", 500)
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for selekt.yaml or selekt.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for range maxWalkDepth {
		for _, name := range []string{"selekt.yaml", "selekt.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".selekt_history")
}
