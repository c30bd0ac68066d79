package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "data", config.Data.Directory)
	assert.Equal(t, "outputs", config.Output.Directory)
	assert.Equal(t, "http://d-portal.org/dquery", config.DPortal.URL)
	assert.Equal(t, 1000, config.DPortal.Limit)
	assert.Equal(t, "2020-01", config.Aggregation.StartMonth)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("C19_LOG_LEVEL", "debug")
	t.Setenv("C19_DPORTAL_LIMIT", "250")
	t.Setenv("C19_AGGREGATION_START_MONTH", "2021-03")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, 250, config.DPortal.Limit)
	assert.Equal(t, "2021-03", config.Aggregation.StartMonth)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "shout" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "limit out of range",
			mutate:  func(c *Config) { c.DPortal.Limit = 0 },
			wantErr: "dportal.limit",
		},
		{
			name:    "bad start month",
			mutate:  func(c *Config) { c.Aggregation.StartMonth = "January 2020" },
			wantErr: "start_month",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := InitializeConfig()
			require.NoError(t, err)
			tt.mutate(config)

			err = validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config, err := InitializeConfig()
	require.NoError(t, err)

	config.Log.Level = "warn"
	config.Log.Format = "json"
	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, "warning", logger.GetLevel().String())
}
