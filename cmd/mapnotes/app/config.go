package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/mapnotes/internal/config"
	"github.com/agentstation/mapnotes/pkg/constants"
	"github.com/agentstation/mapnotes/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Backend
	ServerURL      string
	APIToken       string
	RequestTimeout time.Duration
	PreviewWidth   int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
	LogFile   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. MAPNOTES_* environment variables
//  3. .env files
//  4. Config file (~/.mapnotes.yaml or ./.mapnotes.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// loadConfig is LoadConfig with an explicit config file.
func loadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	config.SetDefaults(v)

	if configFile == "" {
		configFile = os.Getenv(config.EnvName("config"))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".mapnotes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly named file must exist; the search paths are optional.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read config file", err)
		}
	}

	serverURL := config.GetString(v, config.KeyServerURL)
	if err := config.ValidateServerURL(serverURL); err != nil {
		return nil, err
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ServerURL:      serverURL,
		APIToken:       config.GetString(v, config.KeyAPIToken),
		RequestTimeout: config.Duration(v, config.KeyRequestTimeout, constants.DefaultRequestTimeout),
		PreviewWidth:   config.Int(v, config.KeyPreviewWidth, constants.DefaultPreviewWidth),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
		LogFile:   expandHome(config.GetString(v, config.KeyLogFile)),
	}, nil
}

// Flags carries the values of the global command-line flags.
type Flags struct {
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string
	Server   string
	Timeout  time.Duration
}

// UpdateFromFlags applies parsed flag values, which take precedence over
// config files and environment variables.
func (c *Config) UpdateFromFlags(f Flags) error {
	c.Verbose = f.Verbose
	c.Quiet = f.Quiet
	c.NoColor = c.NoColor || f.NoColor
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Server != "" {
		if err := config.ValidateServerURL(f.Server); err != nil {
			return err
		}
		c.ServerURL = f.Server
	}
	if f.Timeout > 0 {
		c.RequestTimeout = f.Timeout
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set win over .env, and .env wins over .env.local.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
