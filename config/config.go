package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	DefaultFileName = ".clitter.yaml"
	envPrefix       = "CLITTER_"
)

// ErrInvalidKey is returned for keys that are not of the form section.name.
var ErrInvalidKey = errors.New("config key must be section.name")

// Required keys are asked for interactively when missing and then saved.
var Required = []string{"twitter.username", "twitter.password"}

// Defaults apply when a key is neither in the file nor the environment.
var Defaults = map[string]string{
	"twitter.timeline_date_format": "2006.01.02 15:04:05",
	"twitter.api_url":              "http://twitter.com",
	"twitter.username":             "",
	"twitter.password":             "",
	"ui.separate_cached_entries":   "true",
	"cache.path":                   "~/.clitter.db",
	"http.timeout":                 "30s",
	"http.retries":                 "2",
	"http.requests_per_second":     "5",
}

// Prompter asks the user for a missing value. secret input is not echoed.
type Prompter interface {
	Ask(label string, secret bool) (string, error)
}

// Config is the user's settings file, organised as section: {name: value}.
type Config struct {
	path     string
	sections map[string]map[string]any
	prompter Prompter
	lookup   func(string) (string, bool)
}

// DefaultPath returns ~/.clitter.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

// LoadFromFile reads the config at path, creating an empty file when none
// exists yet.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{path: path, sections: map[string]map[string]any{}, lookup: os.LookupEnv}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, nil, 0600); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg.sections); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.sections == nil {
		cfg.sections = map[string]map[string]any{}
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Save writes the config back to its file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c.sections)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Path() string {
	return c.path
}

// SetPrompter enables interactive resolution of Required keys.
func (c *Config) SetPrompter(p Prompter) {
	c.prompter = p
}

func splitKey(key string) (section, name string, err error) {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" || strings.Contains(name, ".") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return section, name, nil
}

func envName(section, name string) string {
	return envPrefix + strings.ToUpper(section) + "_" + strings.ToUpper(name)
}

// Get resolves key from the file, then CLITTER_<SECTION>_<NAME>, then by
// prompting for Required keys (saving the answer), then from Defaults.
func (c *Config) Get(key string) (string, error) {
	section, name, err := splitKey(key)
	if err != nil {
		return "", err
	}

	if v, ok := c.sections[section][name]; ok && v != nil {
		return fmt.Sprint(v), nil
	}
	if v, ok := c.lookup(envName(section, name)); ok && v != "" {
		return v, nil
	}

	if c.prompter != nil && slices.Contains(Required, key) {
		val, err := c.prompter.Ask(name, strings.Contains(name, "password"))
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if val != "" {
			if err := c.Set(key, val); err != nil {
				return "", err
			}
			if err := c.Save(); err != nil {
				return "", err
			}
			return val, nil
		}
	}

	return Defaults[key], nil
}

// Set stores value under key in memory; call Save to persist.
func (c *Config) Set(key, value string) error {
	section, name, err := splitKey(key)
	if err != nil {
		return err
	}
	if c.sections[section] == nil {
		c.sections[section] = map[string]any{}
	}
	c.sections[section][name] = value
	return nil
}

func (c *Config) Bool(key string) (bool, error) {
	v, err := c.Get(key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func (c *Config) Int(key string) (int, error) {
	v, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func (c *Config) Float(key string) (float64, error) {
	v, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func (c *Config) Duration(key string) (time.Duration, error) {
	v, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
