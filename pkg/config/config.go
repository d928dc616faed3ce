// Package config loads castkit settings from config.yaml and manages the
// per-machine install ID.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/castkit-project/castkit/internal/compression"
	"github.com/castkit-project/castkit/pkg/errclass"
	"github.com/castkit-project/castkit/pkg/fsutil"
	"github.com/castkit-project/castkit/pkg/logging"
	"github.com/castkit-project/castkit/pkg/uuidutil"
)

const (
	// EnvConfigHome overrides the config directory.
	EnvConfigHome = "CASTKIT_CONFIG_HOME"
	// EnvServerURL overrides server.url.
	EnvServerURL = "CASTKIT_SERVER_URL"

	fileName      = "config.yaml"
	installIDFile = "install-id"
)

// Config represents the castkit configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig names the recording server used by auth.
type ServerConfig struct {
	URL string `yaml:"url"`
}

// ConvertConfig holds the default timeline transforms applied by convert.
type ConvertConfig struct {
	IdleTimeLimit float64 `yaml:"idle_time_limit"` // seconds, 0 disables
	Speed         float64 `yaml:"speed"`
	// Compression is none, fast, default or max. Empty picks gzip for
	// outputs ending in .gz and no compression otherwise.
	Compression string `yaml:"compression,omitempty"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{URL: "https://asciinema.org"},
		Convert: ConvertConfig{Speed: 1.0},
		Logging: LoggingConfig{Level: string(logging.LevelWarn)},
	}
}

// Dir returns the config directory: $CASTKIT_CONFIG_HOME, then
// $XDG_CONFIG_HOME/castkit, then ~/.config/castkit.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigHome); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "castkit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(home, ".config", "castkit"), nil
}

// Load reads dir/config.yaml over the defaults. A missing file is not an
// error. CASTKIT_SERVER_URL takes precedence over the file.
func Load(dir string) (*Config, error) {
	cfg, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}

	if u := os.Getenv(EnvServerURL); u != "" {
		cfg.Server.URL = u
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads dir/config.yaml over the defaults without applying
// environment overrides or validation. It is the starting point for edits
// that are saved back.
func LoadFile(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errclass.ErrConfigInvalid.Wrap(fmt.Errorf("parse config: %w", err))
	}
	return cfg, nil
}

// Save writes cfg to dir/config.yaml, creating dir when needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return fsutil.AtomicWrite(filepath.Join(dir, fileName), data, 0644)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Convert.IdleTimeLimit < 0 {
		return errclass.ErrConfigInvalid.WithMessagef("convert.idle_time_limit must not be negative, got %v", c.Convert.IdleTimeLimit)
	}
	if c.Convert.Speed <= 0 {
		return errclass.ErrConfigInvalid.WithMessagef("convert.speed must be positive, got %v", c.Convert.Speed)
	}
	if c.Convert.Compression != "" {
		if _, err := compression.NewCompressorFromString(c.Convert.Compression); err != nil {
			return errclass.ErrConfigInvalid.Wrap(err)
		}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errclass.ErrConfigInvalid.Wrap(err)
	}
	if _, err := c.ServerURL(); err != nil {
		return err
	}
	return nil
}

// Keys lists the settable keys in display order.
var Keys = []string{"server.url", "convert.idle_time_limit", "convert.speed", "convert.compression", "logging.level"}

// Get returns the value of key formatted as it would be typed on the command line.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "server.url":
		return c.Server.URL, nil
	case "convert.idle_time_limit":
		return strconv.FormatFloat(c.Convert.IdleTimeLimit, 'f', -1, 64), nil
	case "convert.speed":
		return strconv.FormatFloat(c.Convert.Speed, 'f', -1, 64), nil
	case "convert.compression":
		return c.Convert.Compression, nil
	case "logging.level":
		return c.Logging.Level, nil
	}
	return "", unknownKey(key)
}

// Set parses value into key and validates the result. On error c is left
// unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "server.url":
		next.Server.URL = value
	case "convert.idle_time_limit", "convert.speed":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("%s: not a number: %q", key, value)
		}
		if key == "convert.speed" {
			next.Convert.Speed = f
		} else {
			next.Convert.IdleTimeLimit = f
		}
	case "convert.compression":
		next.Convert.Compression = value
	case "logging.level":
		next.Logging.Level = value
	default:
		return unknownKey(key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func unknownKey(key string) error {
	return errclass.ErrConfigInvalid.WithMessagef("unknown key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
}

// ServerURL parses server.url. Only absolute http(s) URLs are accepted.
func (c *Config) ServerURL() (*url.URL, error) {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return nil, errclass.ErrConfigInvalid.Wrap(err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errclass.ErrConfigInvalid.WithMessagef("server.url must be an absolute http(s) URL, got %q", c.Server.URL)
	}
	return u, nil
}

// InstallID returns the install ID stored in dir, generating and saving a
// new one on first use.
func InstallID(dir string) (string, error) {
	path := filepath.Join(dir, installIDFile)

	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if !uuidutil.Valid(id) {
			return "", errclass.ErrConfigInvalid.WithMessagef("malformed install ID in %s", path)
		}
		return id, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read install ID: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	id := uuidutil.NewV4()
	if err := fsutil.AtomicWrite(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("save install ID: %w", err)
	}
	logging.Debug("generated install ID", logging.Fields{"path": path})
	return id, nil
}
