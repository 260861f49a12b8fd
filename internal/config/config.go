// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "250ms" or "5s" decode.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

type DatabaseConfig struct {
	Driver      string   `yaml:"driver"`
	Filename    string   `yaml:"filename"`
	BusyTimeout Duration `yaml:"busy_timeout"`
}

type StandingsConfig struct {
	LockWait    Duration `yaml:"lock_wait"`
	LockRetries int      `yaml:"lock_retries"`
	LockBackoff Duration `yaml:"lock_backoff"`
	TxRetries   int      `yaml:"tx_retries"`
	// IANA zone used to derive a match's calendar date.
	Timezone string `yaml:"timezone"`
}

type SchemaGuardConfig struct {
	AutoEnforce bool `yaml:"auto_enforce"`
	Quarantine  bool `yaml:"quarantine"`
}

// AuditCronDisabled turns the periodic standings audit off.
const AuditCronDisabled = "off"

type SchedulerConfig struct {
	AuditCron string `yaml:"audit_cron"`
}

func (s SchedulerConfig) AuditEnabled() bool {
	return s.AuditCron != AuditCronDisabled
}

type NotificationsConfig struct {
	SESRegion       string   `yaml:"ses_region"`
	Sender          string   `yaml:"sender"`
	Recipients      []string `yaml:"recipients"`
	AccessKeyID     string   `yaml:"-"` // Loaded from environment
	SecretAccessKey string   `yaml:"-"` // Loaded from environment
}

// Enabled reports whether integrity reports should be emailed.
func (n NotificationsConfig) Enabled() bool {
	return n.Sender != "" && len(n.Recipients) > 0
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Database      DatabaseConfig      `yaml:"database"`
	Standings     StandingsConfig     `yaml:"standings"`
	SchemaGuard   SchemaGuardConfig   `yaml:"schema_guard"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.Notifications.AccessKeyID = os.Getenv("SES_ACCESS_KEY_ID")
	cfg.Notifications.SecretAccessKey = os.Getenv("SES_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.BusyTimeout.Duration == 0 {
		c.Database.BusyTimeout.Duration = 5 * time.Second
	}
	if c.Standings.LockWait.Duration == 0 {
		c.Standings.LockWait.Duration = 250 * time.Millisecond
	}
	if c.Standings.LockRetries == 0 {
		c.Standings.LockRetries = 3
	}
	if c.Standings.LockBackoff.Duration == 0 {
		c.Standings.LockBackoff.Duration = 50 * time.Millisecond
	}
	if c.Standings.TxRetries == 0 {
		c.Standings.TxRetries = 3
	}
	if c.Standings.Timezone == "" {
		c.Standings.Timezone = "UTC"
	}
	if c.Scheduler.AuditCron == "" {
		c.Scheduler.AuditCron = "0 3 * * *"
	}
	if c.Notifications.SESRegion == "" {
		c.Notifications.SESRegion = "us-east-1"
	}
}

// Location resolves the configured standings timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Standings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid standings timezone %q: %w", c.Standings.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Database.BusyTimeout.Duration < 0 {
		return fmt.Errorf("database busy_timeout must not be negative")
	}
	if c.Standings.LockWait.Duration < 0 || c.Standings.LockBackoff.Duration < 0 {
		return fmt.Errorf("standings lock durations must not be negative")
	}
	if c.Standings.LockRetries < 0 {
		return fmt.Errorf("standings lock_retries must not be negative")
	}
	if c.Standings.TxRetries < 0 {
		return fmt.Errorf("standings tx_retries must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.SchemaGuard.Quarantine && !c.SchemaGuard.AutoEnforce {
		return fmt.Errorf("schema_guard quarantine requires auto_enforce")
	}
	if len(c.Notifications.Recipients) > 0 && c.Notifications.Sender == "" {
		return fmt.Errorf("notifications sender is required when recipients are set")
	}

	return nil
}
