package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jpignata/garmin-training-plan/internal/garmin"
)

const (
	appDir       = "garmin-plan"
	devLedgerURL = "file:./local.db?cache=shared&mode=rwc"
)

type Config struct {
	Plan   PlanConfig   `toml:"plan"`
	Garmin GarminConfig `toml:"garmin"`
	Ledger LedgerConfig `toml:"ledger"`
	Export ExportConfig `toml:"export"`
}

type PlanConfig struct {
	Path        string `toml:"path"`
	TotalWeeks  int    `toml:"total_weeks"`
	GoalWeekday string `toml:"goal_weekday"`
}

type GarminConfig struct {
	TokenDir string `toml:"token_dir"` // Where garth keeps its OAuth tokens.
	BaseURL  string `toml:"base_url"`
}

type LedgerConfig struct {
	ConnectionString string `toml:"connection_string"` // Empty disables the ledger.
}

type ExportConfig struct {
	Days    int    `toml:"days"`
	Output  string `toml:"output"`
	Context string `toml:"context"` // Appended to the analysis request.
}

func Default() *Config {
	return &Config{
		Plan: PlanConfig{
			Path:        "plans/nyc_marathon_2026.yaml",
			TotalWeeks:  19,
			GoalWeekday: "sunday",
		},
		Garmin: GarminConfig{
			TokenDir: "~/.garminconnect",
			BaseURL:  garmin.DefaultBaseURL,
		},
		Export: ExportConfig{
			Days:   15,
			Output: "training_log.md",
		},
	}
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", appDir)
	return filepath.Join(dir, "config.toml"), nil
}

// Reads the configuration from the default config file.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads path over the defaults. A missing file is not an
// error.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		cfg.Ledger.ConnectionString = devLedgerURL
	}

	cfg.Garmin.TokenDir = expandHome(cfg.Garmin.TokenDir)
	return cfg, nil
}

// Credentials loads an optional .env and reads the Garmin login from the
// environment.
func Credentials() garmin.Credentials {
	_ = godotenv.Load()
	return garmin.Credentials{
		Email:    os.Getenv("GARMIN_EMAIL"),
		Password: os.Getenv("GARMIN_PASSWORD"),
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
