// internal/dnp3/adapter_test.go
package dnp3

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longzhou3/openfmb-adapters/internal/model"
)

// ---- fake device observer ----

type publishCall struct {
	readings []model.ReadingMeasUpdate
	keys     []model.KeyMeasUpdate
}

type fakeObserver struct {
	calls   []publishCall
	err     error
	explode bool
}

func (f *fakeObserver) Publish(readings []model.ReadingMeasUpdate, keys []model.KeyMeasUpdate) error {
	f.calls = append(f.calls, publishCall{readings: readings, keys: keys})
	if f.explode {
		panic("observer exploded")
	}
	return f.err
}

// ---- tests ----

func TestAdapter_EmptySessionDoesNotPublish(t *testing.T) {
	obs := &fakeObserver{}
	a := NewUpdateAdapter("a1", NewMappingBuilder().Build(), obs, nil)

	a.Start()
	a.End()

	assert.Empty(t, obs.calls)
}

func TestAdapter_PublishesBatchOncePerSession(t *testing.T) {
	obs := &fakeObserver{}
	m := NewMappingBuilder().
		AddKey(PointStatus, 0, "breaker.closed", nil).
		AddReading(PointAnalog, 1, "pv.power", nil).
		Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	a.UpdateBinary(true, 0)
	a.UpdateAnalog(3.5, 1)
	a.End()

	require.Len(t, obs.calls, 1)
	call := obs.calls[0]
	require.Len(t, call.keys, 1)
	require.Len(t, call.readings, 1)
	assert.Equal(t, model.KeyMeasUpdate{Key: "breaker.closed", Value: model.BoolValue(true)}, call.keys[0])
	assert.Equal(t, model.ReadingMeasUpdate{Reading: "pv.power", Value: model.FloatValue(3.5)}, call.readings[0])

	// Idempotent reset: an empty follow-up session never publishes.
	a.Start()
	a.End()
	assert.Len(t, obs.calls, 1)
}

func TestAdapter_NativeKindsPerCategory(t *testing.T) {
	obs := &fakeObserver{}
	b := NewMappingBuilder()
	for _, pt := range PointTypes {
		b.AddReading(pt, 0, pt.String(), nil)
	}
	a := NewUpdateAdapter("a1", b.Build(), obs, nil)

	a.Start()
	a.UpdateBinary(true, 0)
	a.UpdateAnalog(1.5, 0)
	a.UpdateCounter(42, 0)
	a.UpdateControlStatus(false, 0)
	a.UpdateSetpointStatus(2.5, 0)
	a.End()

	require.Len(t, obs.calls, 1)
	got := obs.calls[0].readings
	require.Len(t, got, 5)
	assert.Equal(t, model.BoolValue(true), got[0].Value)
	assert.Equal(t, model.FloatValue(1.5), got[1].Value)
	assert.Equal(t, model.IntValue(42), got[2].Value)
	assert.Equal(t, model.BoolValue(false), got[3].Value)
	assert.Equal(t, model.FloatValue(2.5), got[4].Value)
}

func TestAdapter_OrderIsCallOrderNotIndexOrder(t *testing.T) {
	obs := &fakeObserver{}
	m := NewMappingBuilder().
		AddReading(PointAnalog, 1, "r1", nil).
		AddReading(PointAnalog, 2, "r2", nil).
		AddReading(PointAnalog, 3, "r3", nil).
		Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	a.UpdateAnalog(30, 3)
	a.UpdateAnalog(10, 1)
	a.UpdateAnalog(20, 2)
	a.End()

	require.Len(t, obs.calls, 1)
	got := obs.calls[0].readings
	require.Len(t, got, 3)
	assert.Equal(t, []string{"r3", "r1", "r2"}, []string{got[0].Reading, got[1].Reading, got[2].Reading})
}

func TestAdapter_KeyTableWinsOverReadingTable(t *testing.T) {
	obs := &fakeObserver{}
	m := NewMappingBuilder().
		AddKey(PointCounter, 5, "k", nil).
		AddReading(PointCounter, 5, "r", nil).
		Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	a.UpdateCounter(1, 5)
	a.End()

	require.Len(t, obs.calls, 1)
	assert.Len(t, obs.calls[0].keys, 1)
	assert.Empty(t, obs.calls[0].readings)
}

func TestAdapter_UnmappedIndexDrops(t *testing.T) {
	obs := &fakeObserver{}
	m := NewMappingBuilder().AddReading(PointAnalog, 1, "r1", nil).Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	a.UpdateAnalog(3.14, 999)
	a.End()

	assert.Empty(t, obs.calls)
}

func TestAdapter_TransformSuppressionAndRescale(t *testing.T) {
	obs := &fakeObserver{}
	m := NewMappingBuilder().
		AddReading(PointAnalog, 1, "dropped", model.DropWhen(model.FloatValue(0))).
		AddReading(PointAnalog, 2, "doubled", model.Scale(2, 0)).
		Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	a.UpdateAnalog(0, 1) // suppressed
	a.UpdateAnalog(1, 2) // doubled
	a.End()

	require.Len(t, obs.calls, 1)
	got := obs.calls[0].readings
	require.Len(t, got, 1)
	assert.Equal(t, "doubled", got[0].Reading)
	assert.Equal(t, model.FloatValue(2), got[0].Value)
}

func TestAdapter_FaultInOneUpdateDoesNotPoisonSession(t *testing.T) {
	obs := &fakeObserver{}
	bomb := func(model.MeasValue) (model.MeasValue, bool) { panic("bad transform") }
	m := NewMappingBuilder().
		AddReading(PointAnalog, 1, "a", bomb).
		AddReading(PointAnalog, 2, "b", nil).
		Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	assert.NotPanics(t, func() { a.UpdateAnalog(1, 1) })
	a.UpdateAnalog(2, 2)
	a.End()

	require.Len(t, obs.calls, 1)
	got := obs.calls[0].readings
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Reading)
}

func TestAdapter_PublishErrorDoesNotLeakState(t *testing.T) {
	obs := &fakeObserver{err: errors.New("downstream down")}
	m := NewMappingBuilder().AddReading(PointAnalog, 1, "r1", nil).Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	a.UpdateAnalog(1, 1)
	assert.NotPanics(t, func() { a.End() })
	require.Len(t, obs.calls, 1)

	// Buffers were reset despite the failure: nothing replays.
	a.Start()
	a.End()
	assert.Len(t, obs.calls, 1)
}

func TestAdapter_PublishPanicIsContained(t *testing.T) {
	obs := &fakeObserver{explode: true}
	m := NewMappingBuilder().AddKey(PointStatus, 0, "k", nil).Build()
	a := NewUpdateAdapter("a1", m, obs, nil)

	a.Start()
	a.UpdateBinary(true, 0)
	assert.NotPanics(t, func() { a.End() })

	obs.explode = false
	a.Start()
	a.End()
	assert.Len(t, obs.calls, 1)
}
