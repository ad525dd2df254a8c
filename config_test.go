package binmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())
	assert.True(t, config.Prefilter)
	assert.GreaterOrEqual(t, config.Workers, 1)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"workers_zero", func(c *Config) { c.Workers = 0 }, "Workers"},
		{"workers_huge", func(c *Config) { c.Workers = 5000 }, "Workers"},
		{"negative_threshold", func(c *Config) { c.ParallelThreshold = -1 }, "ParallelThreshold"},
		{"zero_interval", func(c *Config) { c.Tracker.CheckInterval = 0 }, "Tracker.CheckInterval"},
		{"efficiency_above_one", func(c *Config) { c.Tracker.MinEfficiency = 1.5 }, "Tracker.MinEfficiency"},
		{"tracker_ignored_without_prefilter", func(c *Config) {
			c.Prefilter = false
			c.Tracker.CheckInterval = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var configErr *ConfigError
			if assert.ErrorAs(t, err, &configErr) {
				assert.Equal(t, tt.wantField, configErr.Field)
			}
		})
	}
}
