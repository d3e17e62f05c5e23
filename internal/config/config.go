package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"luckydraw/internal/models"
	"luckydraw/internal/services"
)

const (
	envAddr     = "LUCKYDRAW_ADDR"
	envDataFile = "LUCKYDRAW_DATA_FILE"
	envLogFile  = "LUCKYDRAW_LOG_FILE"
)

type Config struct {
	Server     ServerConfig          `yaml:"server"`
	Engine     services.EngineConfig `yaml:"engine"`
	Prizes     []PrizeConfig         `yaml:"prizes"`
	Milestones []models.Milestone    `yaml:"milestones"`
	Data       DataConfig            `yaml:"data"`
	Log        LogConfig             `yaml:"log"`
}

type ServerConfig struct {
	Address     string        `yaml:"address"`
	SessionIdle time.Duration `yaml:"session_idle"`
	JanitorSpec string        `yaml:"janitor_spec"`
}

// PrizeConfig is a prize tier as written in the config file.
type PrizeConfig struct {
	Key         string `yaml:"key"`
	Label       string `yaml:"label"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
}

// DataConfig points at a CSV file reloaded into one tenant on a schedule.
type DataConfig struct {
	File          string `yaml:"file"`
	Mode          string `yaml:"mode"`
	Tenant        string `yaml:"tenant"`
	RefreshSpec   string `yaml:"refresh_spec"`
	PreserveUsage bool   `yaml:"preserve_usage"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	Verbose    bool   `yaml:"verbose"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:     ":8080",
			SessionIdle: time.Hour,
			JanitorSpec: "@every 10m",
		},
		Engine: services.DefaultEngineConfig(),
		Data: DataConfig{
			Mode:        string(models.ModeRaffle),
			Tenant:      "default",
			RefreshSpec: "@every 5m",
		},
		Log: LogConfig{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads .env (if present) and the YAML file at path (if present) on top
// of the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv(envAddr); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv(envDataFile); v != "" {
		cfg.Data.File = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		cfg.Log.File = v
	}

	if err := cfg.Engine.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PrizeTable converts the configured prizes, or returns the default lotto
// table when none are configured.
func (c Config) PrizeTable() (models.PrizeTable, error) {
	if len(c.Prizes) == 0 {
		return models.DefaultLottoPrizes(), nil
	}
	table := make(models.PrizeTable, len(c.Prizes))
	for _, p := range c.Prizes {
		if p.Key == "" {
			return nil, errors.New("prize without key")
		}
		tier := models.PrizeTier{Key: p.Key, Label: p.Label, Icon: p.Icon, Description: p.Description}
		if p.Amount != "" {
			amount, err := decimal.NewFromString(p.Amount)
			if err != nil {
				return nil, fmt.Errorf("prize %s amount: %w", p.Key, err)
			}
			tier.Amount = amount
		}
		table[p.Key] = tier
	}
	return table, nil
}
