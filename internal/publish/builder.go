// internal/publish/builder.go
package publish

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	cfg "github.com/longzhou3/openfmb-adapters/internal/config"
	"github.com/longzhou3/openfmb-adapters/internal/model"
)

// Build constructs the configured downstream observer.
// Assumes config has already passed Validate and Normalize.
func Build(pc cfg.PublishConfig, log *zap.SugaredLogger) (model.DeviceObserver, error) {
	switch pc.Sink {
	case cfg.SinkLog:
		return NewLogObserver(log), nil
	case cfg.SinkIngest:
		return NewIngestObserver(IngestConfig{
			Endpoint: pc.Endpoint,
			Timeout:  time.Duration(pc.TimeoutMs) * time.Millisecond,
		})
	default:
		return nil, fmt.Errorf("publish: unknown sink %q", pc.Sink)
	}
}
