package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.EmailDomain != DefaultEmailDomain || cfg.PageSize != DefaultPageSize {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ExcludedIssueTypes, []string{"Systems Administration"}) {
		t.Errorf("unexpected excluded issue types: %v", cfg.ExcludedIssueTypes)
	}
	if !reflect.DeepEqual(cfg.AllowedSubStatuses, []string{"Scheduled"}) {
		t.Errorf("unexpected allowed substatuses: %v", cfg.AllowedSubStatuses)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
url: https://helpdesk.example.edu/api/v1
api_key: file-key
email_domain: example.edu
page_size: 25
excluded_issue_types: [Networking, Telecom]
allowed_substatuses: [Scheduled, Waiting on Parts]
timezone: America/Chicago
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.URL != "https://helpdesk.example.edu/api/v1" || cfg.APIKey != "file-key" {
		t.Errorf("unexpected connection settings: %+v", cfg)
	}
	if cfg.PageSize != 25 || cfg.EmailDomain != "example.edu" {
		t.Errorf("unexpected settings: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedSubStatuses, []string{"Scheduled", "Waiting on Parts"}) {
		t.Errorf("unexpected allowed substatuses: %v", cfg.AllowedSubStatuses)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "url: https://file.example.edu\napi_key: file-key\n")
	t.Setenv("ISSUETRAK_API_KEY", "env-key")
	t.Setenv("REQUIRED_TODAY_PAGE_SIZE", "50")
	t.Setenv("REQUIRED_TODAY_EXCLUDED_ISSUE_TYPES", "Networking,Telecom")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.URL != "https://file.example.edu" {
		t.Errorf("expected URL from file, got %q", cfg.URL)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("expected API key from env, got %q", cfg.APIKey)
	}
	if cfg.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", cfg.PageSize)
	}
	if !reflect.DeepEqual(cfg.ExcludedIssueTypes, []string{"Networking", "Telecom"}) {
		t.Errorf("unexpected excluded issue types: %v", cfg.ExcludedIssueTypes)
	}
}

func TestLoadTrimsEnvLists(t *testing.T) {
	path := writeConfig(t, "url: https://file.example.edu\napi_key: file-key\n")
	t.Setenv("REQUIRED_TODAY_EXCLUDED_ISSUE_TYPES", "Networking, Telecom")
	t.Setenv("REQUIRED_TODAY_ALLOWED_SUBSTATUSES", " Scheduled ,,Waiting ")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.ExcludedIssueTypes, []string{"Networking", "Telecom"}) {
		t.Errorf("unexpected excluded issue types: %q", cfg.ExcludedIssueTypes)
	}
	if !reflect.DeepEqual(cfg.AllowedSubStatuses, []string{"Scheduled", "Waiting"}) {
		t.Errorf("unexpected allowed substatuses: %q", cfg.AllowedSubStatuses)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "url: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{URL: "https://x", APIKey: "k", EmailDomain: "auburn.edu", PageSize: 100}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing url", func(c *Config) { c.URL = "" }, true},
		{"missing key", func(c *Config) { c.APIKey = "" }, true},
		{"missing domain", func(c *Config) { c.EmailDomain = "" }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }, true},
		{"utc timezone", func(c *Config) { c.Timezone = "UTC" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Config{
		URL:                "https://helpdesk.example.edu/api/v1",
		APIKey:             "k",
		EmailDomain:        "auburn.edu",
		PageSize:           100,
		ExcludedIssueTypes: []string{"Systems Administration"},
		AllowedSubStatuses: []string{"Scheduled"},
		Timezone:           "Local",
		TimeoutSeconds:     30,
		LogLevel:           "info",
	}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, cfg)
	}
}
