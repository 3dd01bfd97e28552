package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Source struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	Output         string   `yaml:"output,omitempty"`
	PerSourceLimit int      `yaml:"per_source_limit,omitempty"`
	FetchTimeout   string   `yaml:"fetch_timeout,omitempty"`
	Workers        int      `yaml:"workers,omitempty"`
	Listen         string   `yaml:"listen,omitempty"`
	Cron           string   `yaml:"cron,omitempty"`
	Sources        []Source `yaml:"sources"`
}

// GetOutput returns the HTML output path, defaulting to index.html.
func (c *Config) GetOutput() string {
	if c.Output == "" {
		return "index.html"
	}
	return c.Output
}

// GetPerSourceLimit returns the per-source entry limit, defaulting to 3.
func (c *Config) GetPerSourceLimit() int {
	if c.PerSourceLimit <= 0 {
		return 3
	}
	return c.PerSourceLimit
}

func (c *Config) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 20 * time.Second
	}
	return d
}

// GetWorkers returns the fetch worker count, defaulting to 4.
func (c *Config) GetWorkers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

func (c *Config) GetListen() string {
	if c.Listen == "" {
		return ":8080"
	}
	return c.Listen
}

func (c *Config) GetCron() string {
	if c.Cron == "" {
		return "*/30 * * * *"
	}
	return c.Cron
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.EnabledSources() {
		names = append(names, s.Name)
	}
	return names
}

// Getenv returns the value of the environment variable key, or fallback when
// it is unset or empty.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "readycatholic", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.PerSourceLimit < 0 {
		return fmt.Errorf("per_source_limit must not be negative, got %d", cfg.PerSourceLimit)
	}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
	}
	return nil
}
