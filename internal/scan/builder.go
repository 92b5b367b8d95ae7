// internal/scan/builder.go
package scan

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	cfg "github.com/longzhou3/openfmb-adapters/internal/config"
	"github.com/longzhou3/openfmb-adapters/internal/dnp3"
	smodbus "github.com/longzhou3/openfmb-adapters/internal/scan/modbus"
)

// Build constructs a Source over a Modbus TCP client.
// Assumes config has already passed Validate and Normalize.
// Fails fast at startup if the endpoint cannot be reached.
func Build(id string, sc *cfg.SourceConfig, observer dnp3.DataObserver, log *zap.SugaredLogger) (*Source, func() error, error) {
	client, err := smodbus.New(smodbus.Config{
		Endpoint: sc.Endpoint,
		UnitID:   sc.UnitID,
		Timeout:  time.Duration(sc.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	reads := make([]ReadBlock, 0, len(sc.Reads))
	for i, r := range sc.Reads {
		pt, err := dnp3.ParsePointType(r.Type)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("scan: read %d: %w", i, err)
		}
		reads = append(reads, ReadBlock{
			Type:      pt,
			FC:        r.FC,
			Address:   r.Address,
			Quantity:  r.Quantity,
			BaseIndex: r.BaseIndex,
		})
	}

	s, err := New(
		Config{
			ID:       id,
			Interval: time.Duration(sc.IntervalMs) * time.Millisecond,
			Reads:    reads,
		},
		client,
		observer,
		log,
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return s, client.Close, nil
}
