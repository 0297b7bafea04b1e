package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SF_INSTANCE_URL", "")
	t.Setenv("SF_SESSION_TOKEN", "")
	t.Setenv("SF_API_VERSION", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIVersion != defaultAPIVersion {
		t.Errorf("APIVersion = %q, want default", cfg.APIVersion)
	}
	if cfg.OutputDir == "" {
		t.Error("expected a default output dir")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
instance_url = "https://test.my.salesforce.com"
session_token = "tok123"
api_version = "60.0"
output_dir = "/tmp/logs"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.InstanceURL != "https://test.my.salesforce.com" {
		t.Errorf("InstanceURL = %q", cfg.InstanceURL)
	}
	if cfg.SessionToken != "tok123" {
		t.Errorf("SessionToken = %q", cfg.SessionToken)
	}
	if cfg.APIVersion != "60.0" {
		t.Errorf("APIVersion = %q", cfg.APIVersion)
	}
	if cfg.OutputDir != "/tmp/logs" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
instance_url = "https://file.my.salesforce.com"
session_token = "filetok"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SF_INSTANCE_URL", "https://env.my.salesforce.com")
	t.Setenv("SF_SESSION_TOKEN", "envtok")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.InstanceURL != "https://env.my.salesforce.com" {
		t.Errorf("InstanceURL = %q, env should win", cfg.InstanceURL)
	}
	if cfg.SessionToken != "envtok" {
		t.Errorf("SessionToken = %q, env should win", cfg.SessionToken)
	}
}

func TestValidate(t *testing.T) {
	cfg := GetDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure with no credentials")
	}

	cfg.InstanceURL = "https://test.my.salesforce.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure with no token")
	}

	cfg.SessionToken = "tok"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation failure: %v", err)
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := SaveTemplateConfig(path); err != nil {
		t.Fatalf("SaveTemplateConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading template back: %v", err)
	}
	if !strings.Contains(string(data), "instance_url") {
		t.Error("template missing instance_url")
	}

	// The template must load as valid TOML.
	if _, err := LoadConfig(path); err != nil {
		t.Errorf("template does not load: %v", err)
	}
}
