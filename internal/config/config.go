package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"FXStrength/internal/calculator"
	"FXStrength/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultUniverse is the set of major currencies tracked out of the box.
var DefaultUniverse = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "NZD"}

// DefaultPairs covers every major plus the liquid crosses among DefaultUniverse.
var DefaultPairs = []string{
	"EUR/USD", "GBP/USD", "AUD/USD", "NZD/USD", "USD/JPY", "USD/CAD", "USD/CHF",
	"EUR/GBP", "EUR/JPY", "GBP/JPY", "AUD/JPY", "EUR/AUD", "GBP/AUD",
	"EUR/CAD", "GBP/CAD", "AUD/CAD", "EUR/CHF", "GBP/CHF", "AUD/CHF", "CAD/CHF",
	"AUD/NZD", "EUR/NZD", "GBP/NZD", "NZD/JPY", "NZD/CAD", "NZD/CHF",
}

// DefaultDisplayUnits are charted when a request selects no units.
var DefaultDisplayUnits = []string{"USD", "EUR", "GBP", "JPY"}

// Data source kinds.
const (
	SourceYahoo    = "yahoo"
	SourceREST     = "rest"
	SourcePostgres = "postgres"
	SourceMock     = "mock"
)

// Config holds all application configuration.
type Config struct {
	Universe     []string `yaml:"universe"`
	Pairs        []string `yaml:"pairs"`
	DisplayUnits []string `yaml:"display_units"`
	Telegram     struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Kind        string `yaml:"kind"`
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		HistoryDays int    `yaml:"history_days"`
		Concurrency int    `yaml:"concurrency"`
		MockSeed    int64  `yaml:"mock_seed"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Report struct {
		Period string `yaml:"period"`
	} `yaml:"report"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	API struct {
		Port            int    `yaml:"port"`
		APIKey          string `yaml:"api_key"`
		CORSAllowOrigin string `yaml:"cors_allow_origin"`
	} `yaml:"api"`
	Cache struct {
		MaxEntries int `yaml:"max_entries"`
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then a .env file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()

	// Environment variable overrides
	envStr(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	envStr(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	envStr(&cfg.DataSource.Kind, "DATA_SOURCE")
	envStr(&cfg.DataSource.BaseURL, "DATA_BASE_URL")
	envStr(&cfg.DataSource.APIKey, "DATA_API_KEY")
	envInt(&cfg.DataSource.HistoryDays, "HISTORY_DAYS")
	envStr(&cfg.Proxy, "HTTPS_PROXY")
	envStr(&cfg.Schedule.RefreshCron, "CRON_REFRESH")
	envStr(&cfg.Report.Period, "REPORT_PERIOD")
	envStr(&cfg.Database.SQLitePath, "SQLITE_PATH")
	envStr(&cfg.Database.PostgresDSN, "DATABASE_URL")
	envInt(&cfg.API.Port, "API_PORT")
	envStr(&cfg.API.APIKey, "API_KEY")
	envStr(&cfg.API.CORSAllowOrigin, "CORS_ALLOW_ORIGIN")
	envList(&cfg.Universe, "UNIVERSE")
	envList(&cfg.Pairs, "PAIRS")

	// Defaults
	if len(cfg.Universe) == 0 {
		cfg.Universe = append([]string(nil), DefaultUniverse...)
	}
	if len(cfg.Pairs) == 0 {
		cfg.Pairs = append([]string(nil), DefaultPairs...)
	}
	if len(cfg.DisplayUnits) == 0 {
		cfg.DisplayUnits = append([]string(nil), DefaultDisplayUnits...)
	}
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = SourceYahoo
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 366
	}
	if cfg.DataSource.Concurrency == 0 {
		cfg.DataSource.Concurrency = 4
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 5 22 * * 1-5"
	}
	if cfg.Report.Period == "" {
		cfg.Report.Period = string(model.Period1W)
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fx_strength.db"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.CORSAllowOrigin == "" {
		cfg.API.CORSAllowOrigin = "*"
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 64
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 3600
	}

	return cfg, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	known := make(map[string]bool, len(c.Universe))
	for _, u := range c.Universe {
		if known[u] {
			errs = append(errs, fmt.Errorf("universe lists %s twice", u))
		}
		known[u] = true
	}
	if len(c.Universe) == 0 {
		errs = append(errs, fmt.Errorf("universe is required"))
	}
	if len(c.Pairs) == 0 {
		errs = append(errs, fmt.Errorf("pairs is required"))
	}
	for _, p := range c.Pairs {
		base, quote, err := calculator.ParsePair(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, u := range []string{base, quote} {
			if !known[u] {
				errs = append(errs, fmt.Errorf("pair %s uses %s which is not in universe", p, u))
			}
		}
	}

	switch c.DataSource.Kind {
	case SourceYahoo, SourceMock:
	case SourceREST:
		if c.DataSource.BaseURL == "" {
			errs = append(errs, fmt.Errorf("data_source.base_url is required for the rest source"))
		}
	case SourcePostgres:
		if c.Database.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("database.postgres_dsn is required for the postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("data_source.kind %q is not one of yahoo, rest, postgres, mock", c.DataSource.Kind))
	}
	if c.DataSource.HistoryDays < 2 {
		errs = append(errs, fmt.Errorf("data_source.history_days must be at least 2"))
	}
	if !model.Period(c.Report.Period).Valid() {
		errs = append(errs, fmt.Errorf("report.period %q is not a supported period", c.Report.Period))
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		errs = append(errs, fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together"))
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d is out of range", c.API.Port))
	}

	return errors.Join(errs...)
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func envStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*dst = out
}
