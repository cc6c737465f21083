package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"carbon-intensity/internal/data"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
}

type APIConfig struct {
	// Base URL of the Carbon Intensity API. Empty means the public host.
	BaseURL string `yaml:"base_url"`
	// HTTP client timeout in seconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Widest span per request, in days. The public API caps this at 14.
	MaxRangeDays int `yaml:"max_range_days"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        data.DefaultBaseURL,
			TimeoutSeconds: 30,
			MaxRangeDays:   14,
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config with defaults applied, but does not validate.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	// Zero values fall back to defaults so partial configs stay concise.
	if c.API.BaseURL == "" {
		c.API.BaseURL = data.DefaultBaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.API.MaxRangeDays == 0 {
		c.API.MaxRangeDays = 14
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must be >= 0, got %d", c.API.TimeoutSeconds)
	}
	if c.API.MaxRangeDays < 1 {
		return fmt.Errorf("api.max_range_days must be >= 1, got %d", c.API.MaxRangeDays)
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}

// NewClient builds a CarbonIntensityClient from the API section.
func (a APIConfig) NewClient() *data.CarbonIntensityClient {
	client := data.NewCarbonIntensityClient(a.BaseURL)
	if a.TimeoutSeconds > 0 {
		client.Client.Timeout = time.Duration(a.TimeoutSeconds) * time.Second
	}
	if a.MaxRangeDays > 0 {
		client.MaxRange = time.Duration(a.MaxRangeDays) * 24 * time.Hour
	}
	return client
}
