// Package application orchestrates the radar engine: it wires the
// domain pipeline (aggregate, synthesize, classify, override) to the
// external collaborators behind the ports and guards every
// state-mutating event operation.
package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package-level validator instance for configuration and input validation.
var validate = validator.New()

// EngineConfig carries the engine's tunable settings. All fields are
// validated when the config is parsed or a service is constructed.
type EngineConfig struct {
	// ThresholdForRevote is the percentage below which the weighted
	// difference between the two strongest rings marks a result as too
	// close to call. Callers may override it per calculation.
	ThresholdForRevote float64 `yaml:"threshold_for_revote" json:"threshold_for_revote" validate:"min=0,max=100"`

	// QueryTimeoutSeconds time-boxes each individual external-store
	// call. On timeout the whole operation fails; no partial update is
	// applied.
	QueryTimeoutSeconds int `yaml:"query_timeout_seconds" json:"query_timeout_seconds" validate:"min=0,max=300"`

	// RadarURL, when set, is the target for per-event hyperlinks in
	// cross-event blip descriptions.
	RadarURL string `yaml:"radar_url" json:"radar_url" validate:"omitempty,url"`

	// BaseURL is carried as a query parameter on per-event hyperlinks.
	BaseURL string `yaml:"base_url" json:"base_url" validate:"omitempty,url"`
}

// QueryTimeout returns the per-call store timeout as a duration.
// A zero setting disables the time-box.
func (c EngineConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// DefaultEngineConfig returns an EngineConfig with sensible defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ThresholdForRevote:  8,
		QueryTimeoutSeconds: 10,
	}
}

// ParseEngineConfig deserializes YAML configuration into an
// EngineConfig with strict validation. Unknown fields are rejected so
// configuration typos are not silently ignored. Omitted fields keep
// their defaults.
func ParseEngineConfig(data []byte) (EngineConfig, error) {
	config := DefaultEngineConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	// Strict decoding catches unknown fields.
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		// An empty document keeps all defaults.
		if !errors.Is(err, io.EOF) {
			return EngineConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if err := validate.Struct(config); err != nil {
		return EngineConfig{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
