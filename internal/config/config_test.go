package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-intensity/internal/data"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, data.DefaultBaseURL, c.API.BaseURL)
	assert.Equal(t, 30, c.API.TimeoutSeconds)
	assert.Equal(t, 14, c.API.MaxRangeDays)
	assert.Equal(t, "8080", c.Server.Port)
	assert.NoError(t, c.Validate())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "http://localhost:9000"
  timeout_seconds: 10
  max_range_days: 7
server:
  port: "3000"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", c.API.BaseURL)
	assert.Equal(t, 10, c.API.TimeoutSeconds)
	assert.Equal(t, 7, c.API.MaxRangeDays)
	assert.Equal(t, "3000", c.Server.Port)
}

func TestLoadPartialConfigBackfillsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9999"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, data.DefaultBaseURL, c.API.BaseURL)
	assert.Equal(t, 30, c.API.TimeoutSeconds)
	assert.Equal(t, 14, c.API.MaxRangeDays)
	assert.Equal(t, "9999", c.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "api: [not: a: map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "negative timeout", mutate: func(c *Config) { c.API.TimeoutSeconds = -1 }},
		{name: "zero range days", mutate: func(c *Config) { c.API.MaxRangeDays = 0 }},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilConfig *Config
	assert.Error(t, nilConfig.Validate())
}

func TestAPIConfigNewClient(t *testing.T) {
	a := APIConfig{
		BaseURL:        "http://localhost:9000",
		TimeoutSeconds: 5,
		MaxRangeDays:   7,
	}

	client := a.NewClient()
	assert.Equal(t, "http://localhost:9000", client.BaseURL)
	assert.Equal(t, 5*time.Second, client.Client.Timeout)
	assert.Equal(t, 7*24*time.Hour, client.MaxRange)
}

func TestAPIConfigNewClientDefaults(t *testing.T) {
	client := APIConfig{}.NewClient()
	assert.Equal(t, data.DefaultBaseURL, client.BaseURL)
	assert.Equal(t, data.DefaultMaxRange, client.MaxRange)
}
