// internal/model/update.go
package model

// KeyMeasUpdate is one domain event addressed to a stable device key.
type KeyMeasUpdate struct {
	Key   string
	Value MeasValue
}

// ReadingMeasUpdate is one domain event addressed to a device reading.
type ReadingMeasUpdate struct {
	Reading string
	Value   MeasValue
}

// DeviceObserver receives one batch per scan cycle.
// Sequences arrive in accumulation order. Delivery semantics (retries,
// persistence, serialization) belong to the implementation.
type DeviceObserver interface {
	Publish(readings []ReadingMeasUpdate, keys []KeyMeasUpdate) error
}
