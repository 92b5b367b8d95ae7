// internal/config/mapping.go
package config

import (
	"fmt"

	"github.com/longzhou3/openfmb-adapters/internal/dnp3"
	"github.com/longzhou3/openfmb-adapters/internal/model"
)

// BuildMapping compiles the point map into an immutable lookup table.
// Assumes config has already passed Validate and Normalize.
func BuildMapping(cfg *Config) (*dnp3.DataMapping, error) {
	b := dnp3.NewMappingBuilder()

	for i, p := range cfg.Adapter.Points {
		pt, err := dnp3.ParsePointType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}

		t, err := buildTransform(p)
		if err != nil {
			return nil, fmt.Errorf("point %d (%s/%d): %w", i, p.Type, p.Index, err)
		}

		if p.Key != "" {
			b.AddKey(pt, p.Index, p.Key, t)
		} else {
			b.AddReading(pt, p.Index, p.Reading, t)
		}
	}

	return b.Build(), nil
}

// buildTransform composes the configured transform steps.
// Order: scale, drop_zero, as. Returns nil when no step is configured so
// the mapping entry stays pass-through.
func buildTransform(p PointConfig) (model.Transform, error) {
	var steps []model.Transform

	if p.Scale != nil {
		c := p.Scale.Coefficient
		if c == 0 {
			c = 1
		}
		steps = append(steps, model.Scale(c, p.Scale.Offset))
	}

	if p.DropZero {
		// Float zero matches int zero and false via coercion.
		steps = append(steps, model.DropWhen(model.FloatValue(0)))
	}

	if p.As != "" {
		k, err := model.ParseKind(p.As)
		if err != nil {
			return nil, err
		}
		steps = append(steps, model.AsKind(k))
	}

	if len(steps) == 0 {
		return nil, nil
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return model.Chain(steps...), nil
}
