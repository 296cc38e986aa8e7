package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akulov/oddsgrid/internal/pkg/retention"
)

type Config struct {
	Ingest    IngestConfig     `yaml:"ingest"`
	Sources   []SourceConfig   `yaml:"sources"`
	Snapshot  SnapshotConfig   `yaml:"snapshot"`
	Postgres  PostgresConfig   `yaml:"postgres"`
	Redis     RedisConfig      `yaml:"redis"`
	Correlate CorrelateConfig  `yaml:"correlate"`
	Retention retention.Policy `yaml:"retention"`
	Health    HealthConfig     `yaml:"health"`
	Telegram  TelegramConfig   `yaml:"telegram"`
	Logging   LoggingConfig    `yaml:"logging"`

	// AliasFile extends the built-in team alias table.
	AliasFile string `yaml:"alias_file"`
	// MarketTableFile overrides the built-in market category table.
	MarketTableFile string `yaml:"market_table_file"`
}

type IngestConfig struct {
	// Interval is the target cycle period. An overrunning cycle starts the
	// next one immediately instead of skipping work.
	Interval time.Duration `yaml:"interval"`
	// Workers bounds how many matches are processed in parallel per cycle.
	Workers int `yaml:"workers"`
	// FetchTimeout bounds one source fetch; a timeout skips that source
	// for the cycle and leaves its stored matches untouched.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

const (
	SourceKindHTTP    = "http"
	SourceKindBrowser = "browser"
)

type SourceConfig struct {
	Name      string            `yaml:"name"`
	Kind      string            `yaml:"kind"` // SourceKindHTTP or SourceKindBrowser
	URL       string            `yaml:"url"`
	Region    string            `yaml:"region"`
	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`
	// Selector is the JS expression a browser source evaluates to pull the
	// odds JSON out of the rendered page.
	Selector string `yaml:"selector"`
}

type SnapshotConfig struct {
	Path string `yaml:"path"`
	// PerMatch additionally writes a snapshot after every match update,
	// for consumers that care about latency more than write volume.
	PerMatch bool `yaml:"per_match"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type CorrelateConfig struct {
	Threshold float64 `yaml:"threshold"`
}

type HealthConfig struct {
	// Port enables the health server when > 0.
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	// File mirrors log records to a JSON file when set.
	File string `yaml:"file"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyEnv()
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyEnv overrides secrets from the environment so they never have to be
// committed into config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("ODDSGRID_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("ODDSGRID_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("ODDSGRID_TELEGRAM_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
}

func (c *Config) applyDefaults() {
	if c.Ingest.Interval == 0 {
		c.Ingest.Interval = time.Minute
	}
	if c.Ingest.Workers == 0 {
		c.Ingest.Workers = 8
	}
	if c.Ingest.FetchTimeout == 0 {
		c.Ingest.FetchTimeout = 30 * time.Second
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = "data/matches.json"
	}
	if c.Correlate.Threshold == 0 {
		c.Correlate.Threshold = 0.75
	}
	if c.Health.ReadHeaderTimeout == 0 {
		c.Health.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 10 * time.Minute
	}
}

func (c *Config) validate() error {
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("sources[%d]: name is required", i)
		}
		if s.Kind != SourceKindHTTP && s.Kind != SourceKindBrowser {
			return fmt.Errorf("source %s: kind must be http or browser, got %q", s.Name, s.Kind)
		}
		if s.URL == "" {
			return fmt.Errorf("source %s: url is required", s.Name)
		}
	}
	if c.Correlate.Threshold < 0 || c.Correlate.Threshold > 1 {
		return fmt.Errorf("correlate.threshold must be in [0,1], got %v", c.Correlate.Threshold)
	}
	return nil
}
