// internal/publish/log.go
package publish

import (
	"go.uber.org/zap"

	"github.com/longzhou3/openfmb-adapters/internal/model"
)

// LogObserver writes batches to the log. Diagnostic sink; always succeeds.
type LogObserver struct {
	log *zap.SugaredLogger
}

func NewLogObserver(log *zap.SugaredLogger) *LogObserver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) Publish(readings []model.ReadingMeasUpdate, keys []model.KeyMeasUpdate) error {
	o.log.Infof("publish: %d reading updates, %d key updates", len(readings), len(keys))
	for _, r := range readings {
		o.log.Debugf("publish: reading %s = %s", r.Reading, r.Value)
	}
	for _, k := range keys {
		o.log.Debugf("publish: key %s = %s", k.Key, k.Value)
	}
	return nil
}
