package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/classbrowser/drivers/java/apidiff"
)

const (
	envConfigPath = "CLASSBROWSER_CONFIG"
	envLogLevel   = "CLASSBROWSER_LOG_LEVEL"
	envLogFormat  = "CLASSBROWSER_LOG_FORMAT"

	DefaultConfigFile = ".classbrowser.yaml"
)

// Config holds settings shared by all commands.
type Config struct {
	Log     LogConfig       `yaml:"log"`
	Compare apidiff.Options `yaml:"compare"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns the configuration used when no file or environment is set.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads .env (if present), then the YAML file at path, then the
// environment. An empty path falls back to CLASSBROWSER_CONFIG and then to
// .classbrowser.yaml; a missing default file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := strings.TrimSpace(os.Getenv(envConfigPath)); env != "" {
			path = env
			explicit = true
		} else {
			path = DefaultConfigFile
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// no config file
	default:
		return Config{}, errors.Errorf("reading config %s: %w", path, err)
	}

	if level := strings.TrimSpace(os.Getenv(envLogLevel)); level != "" {
		cfg.Log.Level = level
	}
	if format := strings.TrimSpace(os.Getenv(envLogFormat)); format != "" {
		cfg.Log.Format = format
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}
