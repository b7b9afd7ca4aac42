// Package config holds the configuration keys mapnotes reads through viper
// and the helpers that turn raw values into typed settings.
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/errors"
)

// EnvPrefix namespaces environment variables, e.g. MAPNOTES_SERVER_URL.
const EnvPrefix = "MAPNOTES"

// Configuration keys.
const (
	KeyServerURL      = "server_url"
	KeyAPIToken       = "api_token"
	KeyRequestTimeout = "request_timeout"
	KeyPreviewWidth   = "preview_width"
	KeyLogFile        = "log_file"
)

// SetDefaults registers default values for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerURL, constants.DefaultServerURL)
	v.SetDefault(KeyRequestTimeout, constants.DefaultRequestTimeout.String())
	v.SetDefault(KeyPreviewWidth, constants.DefaultPreviewWidth)
}

// GetString is a helper to get string values from Viper.
// It checks both the prefixed OS environment variable and Viper configuration.
func GetString(v *viper.Viper, key string) string {
	viperValue := v.GetString(key)
	if viperValue != "" {
		return viperValue
	}
	return os.Getenv(EnvName(key))
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Duration reads key as a duration. Bare numbers are seconds. Missing,
// malformed or non-positive values yield fallback.
func Duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(GetString(v, key))
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return fallback
		}
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Int reads key as a positive integer, or returns fallback.
func Int(v *viper.Viper, key string, fallback int) int {
	raw := strings.TrimSpace(GetString(v, key))
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// ValidateServerURL checks that s is an absolute http(s) URL.
func ValidateServerURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return errors.NewConfigError(KeyServerURL, "invalid URL "+s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewConfigError(KeyServerURL, "scheme must be http or https: "+s, nil)
	}
	if u.Host == "" {
		return errors.NewConfigError(KeyServerURL, "missing host: "+s, nil)
	}
	return nil
}
