package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/mapnotes/pkg/constants"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.RequestTimeout <= 0 {
		t.Error("RequestTimeout not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies MAPNOTES_* loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("MAPNOTES_SERVER_URL", "https://maps.example.com")
	t.Setenv("MAPNOTES_API_TOKEN", "secret")
	t.Setenv("MAPNOTES_REQUEST_TIMEOUT", "30")
	t.Setenv("MAPNOTES_PREVIEW_WIDTH", "12")
	t.Setenv("MAPNOTES_FORMAT", "yaml")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ServerURL != "https://maps.example.com" {
		t.Errorf("ServerURL = %s, want https://maps.example.com", config.ServerURL)
	}
	if config.APIToken != "secret" {
		t.Errorf("APIToken = %s, want secret", config.APIToken)
	}
	if config.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", config.RequestTimeout)
	}
	if config.PreviewWidth != 12 {
		t.Errorf("PreviewWidth = %d, want 12", config.PreviewWidth)
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}
}

// TestConfig_Defaults verifies defaults for unset or invalid values.
func TestConfig_Defaults(t *testing.T) {
	t.Setenv("MAPNOTES_REQUEST_TIMEOUT", "-5")
	t.Setenv("MAPNOTES_PREVIEW_WIDTH", "wide")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.RequestTimeout != constants.DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", config.RequestTimeout, constants.DefaultRequestTimeout)
	}
	if config.PreviewWidth != constants.DefaultPreviewWidth {
		t.Errorf("PreviewWidth = %d, want %d", config.PreviewWidth, constants.DefaultPreviewWidth)
	}
}

// TestConfig_InvalidServer verifies a bad server URL is rejected.
func TestConfig_InvalidServer(t *testing.T) {
	t.Setenv("MAPNOTES_SERVER_URL", "localhost:5000")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() succeeded with a URL lacking a scheme")
	}
}

// TestConfig_File verifies values are read from an explicit config file.
func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapnotes.yaml")
	content := "server_url: http://10.0.0.5:5000\nrequest_timeout: 2m\nlog_file: ~/mapnotes.log\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	if config.ServerURL != "http://10.0.0.5:5000" {
		t.Errorf("ServerURL = %s", config.ServerURL)
	}
	if config.RequestTimeout != 2*time.Minute {
		t.Errorf("RequestTimeout = %v, want 2m", config.RequestTimeout)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if home, err := os.UserHomeDir(); err == nil && config.LogFile != filepath.Join(home, "mapnotes.log") {
		t.Errorf("LogFile = %s, want home expanded", config.LogFile)
	}
}

// TestConfig_MissingFile verifies an explicit missing file is an error.
func TestConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loadConfig() succeeded for a missing file")
	}
}

// TestConfig_UpdateFromFlags verifies flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{ServerURL: constants.DefaultServerURL, RequestTimeout: time.Second, Format: "table"}

	err := config.UpdateFromFlags(Flags{
		Verbose: true,
		Format:  "json",
		Server:  "https://other.example.com",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("UpdateFromFlags() failed: %v", err)
	}
	if !config.Verbose || config.Format != "json" {
		t.Errorf("flags not applied: %+v", config)
	}
	if config.ServerURL != "https://other.example.com" || config.RequestTimeout != 5*time.Second {
		t.Errorf("server flags not applied: %+v", config)
	}

	if err := config.UpdateFromFlags(Flags{Server: "nope"}); err == nil {
		t.Error("UpdateFromFlags() accepted an invalid server")
	}
	if config.Format != "json" {
		t.Error("empty format flag overwrote the configured format")
	}
}
