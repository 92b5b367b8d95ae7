// internal/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultPublishTimeoutMs = 2000
	DefaultSourceTimeoutMs  = 1000
	DefaultScanIntervalMs   = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	a := &cfg.Adapter

	if a.LogLevel == "" {
		a.LogLevel = "info"
	}

	a.Publish.Sink = strings.ToLower(a.Publish.Sink)
	if a.Publish.Sink == "" {
		a.Publish.Sink = SinkLog
	}
	if a.Publish.TimeoutMs <= 0 {
		a.Publish.TimeoutMs = DefaultPublishTimeoutMs
	}

	for i := range a.Points {
		a.Points[i].Type = strings.ToLower(a.Points[i].Type)
		a.Points[i].As = strings.ToLower(a.Points[i].As)
	}

	if a.Source != nil {
		if a.Source.TimeoutMs <= 0 {
			a.Source.TimeoutMs = DefaultSourceTimeoutMs
		}
		if a.Source.IntervalMs <= 0 {
			a.Source.IntervalMs = DefaultScanIntervalMs
		}
		for i := range a.Source.Reads {
			a.Source.Reads[i].Type = strings.ToLower(a.Source.Reads[i].Type)
		}
	}
}
