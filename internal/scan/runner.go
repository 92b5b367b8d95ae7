// internal/scan/runner.go
package scan

import (
	"context"
	"time"
)

// Run starts the ticker loop. One goroutine per source. No overlap, no
// retries: a failed cycle is logged and the next tick starts fresh.
func (s *Source) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ScanOnce(); err != nil {
				s.log.Errorf("scan %s: cycle failed: %v", s.cfg.ID, err)
			}
		}
	}
}
