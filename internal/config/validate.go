// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/longzhou3/openfmb-adapters/internal/dnp3"
	"github.com/longzhou3/openfmb-adapters/internal/model"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	a := cfg.Adapter

	if a.ID == "" {
		return fmt.Errorf("adapter: id required")
	}

	// ------------------------------------------------------------
	// PUBLISH SINK
	// ------------------------------------------------------------

	switch strings.ToLower(a.Publish.Sink) {
	case "", SinkLog:
		// log sink needs nothing else
	case SinkIngest:
		if a.Publish.Endpoint == "" {
			return fmt.Errorf("publish: ingest sink requires endpoint")
		}
	default:
		return fmt.Errorf("publish: unknown sink %q", a.Publish.Sink)
	}

	// ------------------------------------------------------------
	// POINT MAP
	// ------------------------------------------------------------

	if len(a.Points) == 0 {
		return fmt.Errorf("adapter %q: at least one point required", a.ID)
	}

	// key = table | type | index
	owner := make(map[string]int)

	for i, p := range a.Points {
		if _, err := dnp3.ParsePointType(p.Type); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}

		hasKey := p.Key != ""
		hasReading := p.Reading != ""
		if hasKey == hasReading {
			return fmt.Errorf("point %d (%s/%d): exactly one of key or reading required", i, p.Type, p.Index)
		}

		table := "key"
		if hasReading {
			table = "reading"
		}
		ref := fmt.Sprintf("%s|%s|%d", table, strings.ToLower(p.Type), p.Index)
		if prev, exists := owner[ref]; exists {
			return fmt.Errorf("point %d (%s/%d): duplicate %s entry, already defined by point %d",
				i, p.Type, p.Index, table, prev)
		}
		owner[ref] = i

		if p.As != "" {
			if _, err := model.ParseKind(p.As); err != nil {
				return fmt.Errorf("point %d (%s/%d): %w", i, p.Type, p.Index, err)
			}
		}
	}

	// ------------------------------------------------------------
	// SCAN SOURCE (opt-in)
	// ------------------------------------------------------------

	if a.Source == nil {
		return nil
	}
	s := a.Source

	if s.Endpoint == "" {
		return fmt.Errorf("source: endpoint required")
	}
	if len(s.Reads) == 0 {
		return fmt.Errorf("source: at least one read block required")
	}

	for i, r := range s.Reads {
		pt, err := dnp3.ParsePointType(r.Type)
		if err != nil {
			return fmt.Errorf("source read %d: %w", i, err)
		}
		if r.Quantity == 0 {
			return fmt.Errorf("source read %d (%s): quantity must be > 0", i, r.Type)
		}

		bitFC := r.FC == 1 || r.FC == 2
		regFC := r.FC == 3 || r.FC == 4
		if !bitFC && !regFC {
			return fmt.Errorf("source read %d (%s): unsupported fc %d", i, r.Type, r.FC)
		}
		if bitFC != pt.BinaryValued() {
			return fmt.Errorf("source read %d: fc %d cannot feed %s points", i, r.FC, r.Type)
		}
	}

	return nil
}
