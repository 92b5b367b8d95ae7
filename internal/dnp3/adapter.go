// internal/dnp3/adapter.go
package dnp3

import (
	"go.uber.org/zap"

	"github.com/longzhou3/openfmb-adapters/internal/model"
)

// UpdateAdapter implements DataObserver. It translates native point
// updates through the mapping table, buffers the results for one scan
// cycle, and publishes the batch to the device observer exactly once at
// session end.
//
// One adapter serves one protocol session at a time. Buffers are owned by
// the adapter and never shared; concurrent sessions need separate
// adapters over the same (read-only) mapping.
type UpdateAdapter struct {
	id       string
	mapping  *DataMapping
	observer model.DeviceObserver
	log      *zap.SugaredLogger

	keyUpdates     []model.KeyMeasUpdate
	readingUpdates []model.ReadingMeasUpdate
}

// NewUpdateAdapter wires an adapter. A nil logger disables logging.
func NewUpdateAdapter(id string, mapping *DataMapping, observer model.DeviceObserver, log *zap.SugaredLogger) *UpdateAdapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UpdateAdapter{
		id:       id,
		mapping:  mapping,
		observer: observer,
		log:      log,
	}
}

// Start marks the beginning of a scan cycle. Buffers are already empty
// from the previous End; nothing to do.
func (a *UpdateAdapter) Start() {
	a.log.Debugf("adapter %s: session start", a.id)
}

func (a *UpdateAdapter) UpdateBinary(value bool, index uint32) {
	defer a.recoverUpdate(PointStatus, index)
	a.dispatch(PointStatus, index, model.BoolValue(value))
}

func (a *UpdateAdapter) UpdateAnalog(value float64, index uint32) {
	defer a.recoverUpdate(PointAnalog, index)
	a.dispatch(PointAnalog, index, model.FloatValue(value))
}

func (a *UpdateAdapter) UpdateCounter(value int64, index uint32) {
	defer a.recoverUpdate(PointCounter, index)
	a.dispatch(PointCounter, index, model.IntValue(value))
}

func (a *UpdateAdapter) UpdateControlStatus(value bool, index uint32) {
	defer a.recoverUpdate(PointControlStatus, index)
	a.dispatch(PointControlStatus, index, model.BoolValue(value))
}

func (a *UpdateAdapter) UpdateSetpointStatus(value float64, index uint32) {
	defer a.recoverUpdate(PointSetpointStatus, index)
	a.dispatch(PointSetpointStatus, index, model.FloatValue(value))
}

// End closes the scan cycle. Publishes once iff anything was buffered.
// Both buffers are reset on every exit path, including publish faults, so
// no update ever leaks into a later session.
func (a *UpdateAdapter) End() {
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorf("adapter %s: panic on publish: %v", a.id, r)
		}
		a.keyUpdates = nil
		a.readingUpdates = nil
	}()

	if len(a.keyUpdates) == 0 && len(a.readingUpdates) == 0 {
		return
	}

	a.log.Debugf("adapter %s: publishing %d reading updates, %d key updates",
		a.id, len(a.readingUpdates), len(a.keyUpdates))

	if err := a.observer.Publish(a.readingUpdates, a.keyUpdates); err != nil {
		a.log.Errorf("adapter %s: publish failed: %v", a.id, err)
	}
}

// recoverUpdate contains a fault in one point's pipeline. The session
// continues; other buffered updates are unaffected.
func (a *UpdateAdapter) recoverUpdate(pt PointType, index uint32) {
	if r := recover(); r != nil {
		a.log.Errorf("adapter %s: %s update %d failed: %v", a.id, pt, index, r)
	}
}

// dispatch resolves one update: key table first, then reading table,
// unmapped points drop. A transform returning ok=false also drops.
func (a *UpdateAdapter) dispatch(pt PointType, index uint32, value model.MeasValue) {
	a.log.Debugf("adapter %s: %s update %d = %s", a.id, pt, index, value)

	if entry, ok := a.mapping.KeyEntry(pt, index); ok {
		if v, ok := applyTransform(entry.Transform, value); ok {
			a.keyUpdates = append(a.keyUpdates, model.KeyMeasUpdate{Key: entry.Key, Value: v})
		} else {
			a.log.Debugf("adapter %s: %s update %d = %s suppressed by transform", a.id, pt, index, value)
		}
		return
	}

	if entry, ok := a.mapping.ReadingEntry(pt, index); ok {
		if v, ok := applyTransform(entry.Transform, value); ok {
			a.readingUpdates = append(a.readingUpdates, model.ReadingMeasUpdate{Reading: entry.Reading, Value: v})
		} else {
			a.log.Debugf("adapter %s: %s update %d = %s suppressed by transform", a.id, pt, index, value)
		}
		return
	}

	a.log.Debugf("adapter %s: unmapped %s update %d", a.id, pt, index)
}

func applyTransform(t model.Transform, v model.MeasValue) (model.MeasValue, bool) {
	if t == nil {
		return v, true
	}
	return t(v)
}
