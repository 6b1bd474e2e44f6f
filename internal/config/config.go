package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/dashlog/internal/domain/week"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"gopkg.in/yaml.v3"
)

// Transport modes for the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Week      WeekConfig      `yaml:"week"`
	Time      TimeConfig      `yaml:"time"`
	Display   DisplayConfig   `yaml:"display"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Zones     ZonesConfig     `yaml:"zones"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// WeekConfig selects the week bucketing policy.
type WeekConfig struct {
	Start   string `yaml:"start"`
	ISOWeek bool   `yaml:"iso_week"`
}

// TimeConfig names the IANA zone sessions are bucketed and shown in.
// Empty means the system local zone.
type TimeConfig struct {
	Zone string `yaml:"zone"`
}

type DisplayConfig struct {
	Locale      string `yaml:"locale"`
	Currency    string `yaml:"currency"`
	RecentLimit int    `yaml:"recent_limit"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ZonesConfig lists the zones a fresh store is seeded with.
type ZonesConfig struct {
	Seed []string `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		DB: DBConfig{
			Path: "dashlog.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Week: WeekConfig{
			Start: week.MondayStart.String(),
		},
		Display: DisplayConfig{
			Locale:      "en-US",
			Currency:    "USD",
			RecentLimit: 25,
		},
		Webhook: WebhookConfig{
			Timeout: 15 * time.Second,
		},
		Zones: ZonesConfig{
			Seed: append([]string(nil), zone.DefaultSeed...),
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("DASHLOG_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("DASHLOG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("DASHLOG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DASHLOG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("DASHLOG_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("DASHLOG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("DASHLOG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if start := os.Getenv("DASHLOG_WEEK_START"); start != "" {
		cfg.Week.Start = start
	}
	if tz := os.Getenv("DASHLOG_TIMEZONE"); tz != "" {
		cfg.Time.Zone = tz
	}
	if url := os.Getenv("DASHLOG_WEBHOOK_URL"); url != "" {
		cfg.Webhook.URL = url
	}
	if locale := os.Getenv("DASHLOG_LOCALE"); locale != "" {
		cfg.Display.Locale = locale
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := week.ParsePolicy(c.Week.Start); err != nil {
		errs = append(errs, fmt.Errorf("week.start: %w", err))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("time.zone: %w", err))
	}
	switch strings.ToLower(c.Transport.Mode) {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("transport.mode: unknown mode %q", c.Transport.Mode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}
	if c.Display.RecentLimit <= 0 {
		errs = append(errs, fmt.Errorf("display.recent_limit: must be positive"))
	}
	if c.Webhook.Timeout < 0 {
		errs = append(errs, fmt.Errorf("webhook.timeout: must not be negative"))
	}
	if strings.TrimSpace(c.DB.Path) == "" {
		errs = append(errs, fmt.Errorf("db.path: must not be empty"))
	}
	return errors.Join(errs...)
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	switch c.Time.Zone {
	case "", "Local", "local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Time.Zone)
}

// Calendar builds the week calendar for the configured policy and zone.
func (c Config) Calendar() (week.Calendar, error) {
	policy, err := week.ParsePolicy(c.Week.Start)
	if err != nil {
		return week.Calendar{}, err
	}
	loc, err := c.Location()
	if err != nil {
		return week.Calendar{}, err
	}
	cal := week.NewCalendar(policy, loc)
	cal.ISOWeek = c.Week.ISOWeek
	return cal, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
