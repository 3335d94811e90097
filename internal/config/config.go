package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/livetemplate/tourguide"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up by LoadFromDir.
const FileName = "tourguide.yaml"

// EnvPrefix prefixes every environment override, e.g. TOURGUIDE_PORT.
const EnvPrefix = "TOURGUIDE_"

// Config represents the tourguide configuration
type Config struct {
	Title    string         `yaml:"title"`
	Page     string         `yaml:"page"` // Landing page markdown, relative to the config dir
	Server   ServerConfig   `yaml:"server"`
	Tour     TourConfig     `yaml:"tour"`
	Features FeaturesConfig `yaml:"features"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port  int    `yaml:"port" env:"PORT"`
	Host  string `yaml:"host" env:"HOST"`
	Debug bool   `yaml:"debug" env:"DEBUG"`

	// Per-session limit on tour actions (next, prev, ...).
	ActionsPerSecond float64 `yaml:"actions_per_second,omitempty"` // Default: 10
	ActionBurst      int     `yaml:"action_burst,omitempty"`       // Default: 20
}

// TourConfig overrides the page's tour block. Unset fields leave the
// page frontmatter in charge.
type TourConfig struct {
	AutoStart      *bool  `yaml:"auto_start,omitempty" env:"AUTOSTART"`
	InitialStep    *int   `yaml:"initial_step,omitempty"`
	HighlightClass string `yaml:"highlight_class,omitempty"`
	ExitDuration   string `yaml:"exit_duration,omitempty"` // e.g. "200ms". Default: 200ms
}

// FeaturesConfig holds feature flags
type FeaturesConfig struct {
	HotReload bool `yaml:"hot_reload"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Title: "Product Tour",
		Page:  "index.md",
		Server: ServerConfig{
			Port:  8080,
			Host:  "localhost",
			Debug: false,
		},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// PagePath resolves the landing page against dir.
func (c *Config) PagePath(dir string) string {
	page := c.Page
	if page == "" {
		page = "index.md"
	}
	if filepath.IsAbs(page) {
		return page
	}
	return filepath.Join(dir, page)
}

// GetExitDuration returns the tooltip exit transition length (default: 200ms)
func (c TourConfig) GetExitDuration() time.Duration {
	if c.ExitDuration == "" {
		return tourguide.DefaultExitDuration
	}
	d, err := time.ParseDuration(c.ExitDuration)
	if err != nil || d < 0 {
		return tourguide.DefaultExitDuration
	}
	return d
}

// GetActionsPerSecond returns the per-session action rate (default: 10)
func (c ServerConfig) GetActionsPerSecond() float64 {
	if c.ActionsPerSecond <= 0 {
		return 10
	}
	return c.ActionsPerSecond
}

// GetActionBurst returns the per-session action burst (default: 20)
func (c ServerConfig) GetActionBurst() int {
	if c.ActionBurst <= 0 {
		return 20
	}
	return c.ActionBurst
}

// ApplyTour layers the configured tour settings over a page's own.
func (c TourConfig) ApplyTour(t *tourguide.TourConfig) {
	if c.AutoStart != nil {
		t.AutoStart = *c.AutoStart
	}
	if c.InitialStep != nil {
		t.InitialStep = *c.InitialStep
	}
	if c.HighlightClass != "" {
		t.HighlightClass = c.HighlightClass
	}
}

// ApplyEnv overrides fields from TOURGUIDE_* environment variables.
// Variables that are not set leave the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// Load loads configuration from a YAML file
// If the file doesn't exist, returns the default configuration
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromDir looks for tourguide.yaml in the given directory.
// If none is found, returns the default configuration
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// Save writes the configuration to a YAML file
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
