// internal/dnp3/mapping.go
package dnp3

import (
	"github.com/longzhou3/openfmb-adapters/internal/model"
)

// KeyEntry maps a point index to a device key.
type KeyEntry struct {
	Key       string
	Transform model.Transform // nil means pass-through
}

// ReadingEntry maps a point index to a device reading.
type ReadingEntry struct {
	Reading   string
	Transform model.Transform // nil means pass-through
}

// DataMapping resolves (point type, index) to a key or reading target.
// It is immutable once built and safe for concurrent read-only use by any
// number of adapters. A reload swaps the whole *DataMapping reference.
type DataMapping struct {
	keys     map[PointType]map[uint32]KeyEntry
	readings map[PointType]map[uint32]ReadingEntry
}

// KeyEntry looks up the key target for an index. A miss is a normal
// outcome, not an error.
func (m *DataMapping) KeyEntry(pt PointType, index uint32) (KeyEntry, bool) {
	e, ok := m.keys[pt][index]
	return e, ok
}

// ReadingEntry looks up the reading target for an index.
func (m *DataMapping) ReadingEntry(pt PointType, index uint32) (ReadingEntry, bool) {
	e, ok := m.readings[pt][index]
	return e, ok
}

// MappingBuilder accumulates entries and produces an immutable DataMapping.
// Not safe for concurrent use; build once at startup or reload.
type MappingBuilder struct {
	keys     map[PointType]map[uint32]KeyEntry
	readings map[PointType]map[uint32]ReadingEntry
}

func NewMappingBuilder() *MappingBuilder {
	b := &MappingBuilder{
		keys:     make(map[PointType]map[uint32]KeyEntry),
		readings: make(map[PointType]map[uint32]ReadingEntry),
	}
	for _, pt := range PointTypes {
		b.keys[pt] = make(map[uint32]KeyEntry)
		b.readings[pt] = make(map[uint32]ReadingEntry)
	}
	return b
}

// AddKey registers a key target for (pt, index). Last write wins;
// uniqueness is the loader's responsibility.
func (b *MappingBuilder) AddKey(pt PointType, index uint32, key string, t model.Transform) *MappingBuilder {
	b.keys[pt][index] = KeyEntry{Key: key, Transform: t}
	return b
}

// AddReading registers a reading target for (pt, index).
func (b *MappingBuilder) AddReading(pt PointType, index uint32, reading string, t model.Transform) *MappingBuilder {
	b.readings[pt][index] = ReadingEntry{Reading: reading, Transform: t}
	return b
}

// Build snapshots the accumulated entries. The builder may be reused;
// the returned mapping never observes later Add calls.
func (b *MappingBuilder) Build() *DataMapping {
	m := &DataMapping{
		keys:     make(map[PointType]map[uint32]KeyEntry, len(b.keys)),
		readings: make(map[PointType]map[uint32]ReadingEntry, len(b.readings)),
	}
	for pt, entries := range b.keys {
		cp := make(map[uint32]KeyEntry, len(entries))
		for idx, e := range entries {
			cp[idx] = e
		}
		m.keys[pt] = cp
	}
	for pt, entries := range b.readings {
		cp := make(map[uint32]ReadingEntry, len(entries))
		for idx, e := range entries {
			cp[idx] = e
		}
		m.readings[pt] = cp
	}
	return m
}
