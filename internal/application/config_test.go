package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEngineConfig(t *testing.T) {
	config := DefaultEngineConfig()

	assert.InDelta(t, 8.0, config.ThresholdForRevote, 0.001)
	assert.Equal(t, 10, config.QueryTimeoutSeconds)
	assert.Empty(t, config.RadarURL)
	assert.Empty(t, config.BaseURL)
	require.NoError(t, validate.Struct(config), "defaults must pass their own validation")
}

func TestParseEngineConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, config EngineConfig)
	}{
		{
			name: "full config",
			yaml: `
threshold_for_revote: 15
query_timeout_seconds: 30
radar_url: https://radar.example.com
base_url: https://base.example.com
`,
			check: func(t *testing.T, config EngineConfig) {
				assert.InDelta(t, 15.0, config.ThresholdForRevote, 0.001)
				assert.Equal(t, 30, config.QueryTimeoutSeconds)
				assert.Equal(t, "https://radar.example.com", config.RadarURL)
				assert.Equal(t, "https://base.example.com", config.BaseURL)
			},
		},
		{
			name: "empty document keeps defaults",
			yaml: "",
			check: func(t *testing.T, config EngineConfig) {
				assert.Equal(t, DefaultEngineConfig(), config)
			},
		},
		{
			name: "partial config keeps remaining defaults",
			yaml: "threshold_for_revote: 20\n",
			check: func(t *testing.T, config EngineConfig) {
				assert.InDelta(t, 20.0, config.ThresholdForRevote, 0.001)
				assert.Equal(t, 10, config.QueryTimeoutSeconds)
			},
		},
		{
			name:    "unknown field is rejected",
			yaml:    "treshold_for_revote: 20\n",
			wantErr: "failed to decode config",
		},
		{
			name:    "threshold above 100 fails validation",
			yaml:    "threshold_for_revote: 150\n",
			wantErr: "configuration validation failed",
		},
		{
			name:    "negative timeout fails validation",
			yaml:    "query_timeout_seconds: -1\n",
			wantErr: "configuration validation failed",
		},
		{
			name:    "malformed radar url fails validation",
			yaml:    "radar_url: not-a-url\n",
			wantErr: "configuration validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseEngineConfig([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestEngineConfig_QueryTimeout(t *testing.T) {
	config := EngineConfig{QueryTimeoutSeconds: 30}
	assert.Equal(t, 30*time.Second, config.QueryTimeout())

	assert.Zero(t, EngineConfig{}.QueryTimeout(), "zero disables the time-box")
}
