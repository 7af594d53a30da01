package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds Issuetrak connection settings and the ticket filter policy.
type Config struct {
	URL    string `yaml:"url"     mapstructure:"url"`
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	EmailDomain        string   `yaml:"email_domain"         mapstructure:"email_domain"`
	PageSize           int      `yaml:"page_size"            mapstructure:"page_size"`
	ExcludedIssueTypes []string `yaml:"excluded_issue_types" mapstructure:"excluded_issue_types"`
	AllowedSubStatuses []string `yaml:"allowed_substatuses"  mapstructure:"allowed_substatuses"`

	Timezone       string `yaml:"timezone"                 mapstructure:"timezone"`
	TimeoutSeconds int    `yaml:"timeout_seconds"          mapstructure:"timeout_seconds"`
	LogLevel       string `yaml:"log_level"                mapstructure:"log_level"`
	Template       string `yaml:"template,omitempty"       mapstructure:"template"`
}

// Defaults reproduce the morning post the support team has always received.
const (
	DefaultEmailDomain    = "auburn.edu"
	DefaultPageSize       = 100
	DefaultTimezone       = "Local"
	DefaultTimeoutSeconds = 30
	DefaultLogLevel       = "info"
)

var (
	defaultExcludedIssueTypes = []string{"Systems Administration"}
	defaultAllowedSubStatuses = []string{"Scheduled"}
)

// DefaultPath returns the default config file path (~/.required-today.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".required-today.yaml"
	}
	return filepath.Join(home, ".required-today.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// A .env file in the working directory is loaded into the environment first.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("email_domain", DefaultEmailDomain)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("excluded_issue_types", defaultExcludedIssueTypes)
	v.SetDefault("allowed_substatuses", defaultAllowedSubStatuses)
	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("log_level", DefaultLogLevel)

	// Env var overrides
	v.BindEnv("url", "ISSUETRAK_URL")
	v.BindEnv("api_key", "ISSUETRAK_API_KEY")
	v.BindEnv("email_domain", "REQUIRED_TODAY_EMAIL_DOMAIN")
	v.BindEnv("page_size", "REQUIRED_TODAY_PAGE_SIZE")
	v.BindEnv("excluded_issue_types", "REQUIRED_TODAY_EXCLUDED_ISSUE_TYPES")
	v.BindEnv("allowed_substatuses", "REQUIRED_TODAY_ALLOWED_SUBSTATUSES")
	v.BindEnv("timezone", "REQUIRED_TODAY_TIMEZONE")
	v.BindEnv("timeout_seconds", "REQUIRED_TODAY_TIMEOUT_SECONDS")
	v.BindEnv("log_level", "REQUIRED_TODAY_LOG_LEVEL")
	v.BindEnv("template", "REQUIRED_TODAY_TEMPLATE")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.ExcludedIssueTypes = trimList(cfg.ExcludedIssueTypes)
	cfg.AllowedSubStatuses = trimList(cfg.AllowedSubStatuses)

	return cfg, nil
}

// trimList strips the spaces left around comma-separated env values and
// drops empty entries.
func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks that required fields are present and usable.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("Issuetrak URL is required (set in config file or ISSUETRAK_URL env var)")
	}
	if c.APIKey == "" {
		return fmt.Errorf("Issuetrak API key is required (set in config file or ISSUETRAK_API_KEY env var)")
	}
	if c.EmailDomain == "" {
		return fmt.Errorf("email domain is required for assignee mentions")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone. An empty value means Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Timeout returns the HTTP request timeout. Zero means no timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
