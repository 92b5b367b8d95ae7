// internal/publish/ingest_test.go
package publish

import (
	"encoding/binary"
	"io"
	"math"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longzhou3/openfmb-adapters/internal/model"
)

func TestEncodeBatch_Layout(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	pkt, err := encodeBatch(id,
		[]model.ReadingMeasUpdate{{Reading: "pv", Value: model.FloatValue(2.5)}},
		[]model.KeyMeasUpdate{{Key: "br", Value: model.BoolValue(true)}},
	)
	require.NoError(t, err)

	// header
	require.True(t, len(pkt) > 23)
	assert.Equal(t, byte(0x4F), pkt[0])
	assert.Equal(t, byte(0x42), pkt[1])
	assert.Equal(t, byte(0x01), pkt[2])
	assert.Equal(t, id[:], pkt[3:19])
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(pkt[19:21]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(pkt[21:23]))

	// reading record
	rec := pkt[23:]
	assert.Equal(t, recReading, rec[0])
	assert.Equal(t, byte(2), rec[1])
	assert.Equal(t, "pv", string(rec[2:4]))
	assert.Equal(t, valFloat, rec[4])
	assert.Equal(t, math.Float64bits(2.5), binary.BigEndian.Uint64(rec[5:13]))

	// key record follows
	rec = rec[13:]
	assert.Equal(t, recKey, rec[0])
	assert.Equal(t, byte(2), rec[1])
	assert.Equal(t, "br", string(rec[2:4]))
	assert.Equal(t, valBool, rec[4])
	assert.Equal(t, byte(1), rec[5])
	assert.Len(t, rec, 6) // nothing trailing
}

func TestEncodeBatch_IntAndString(t *testing.T) {
	pkt, err := encodeBatch(uuid.Nil,
		[]model.ReadingMeasUpdate{
			{Reading: "n", Value: model.IntValue(-2)},
			{Reading: "s", Value: model.StringValue("ok")},
		},
		nil,
	)
	require.NoError(t, err)

	rec := pkt[23:]
	assert.Equal(t, valInt, rec[3])
	assert.Equal(t, uint64(math.MaxUint64-1), binary.BigEndian.Uint64(rec[4:12])) // two's complement -2

	rec = rec[12:]
	assert.Equal(t, valString, rec[3])
	assert.Equal(t, uint16(2), binary.BigEndian.Uint16(rec[4:6]))
	assert.Equal(t, "ok", string(rec[6:8]))
}

// serveOnce accepts one connection, reads size bytes and answers status.
func serveOnce(t *testing.T, ln net.Listener, size int, status byte, got chan<- []byte) {
	t.Helper()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, size)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		got <- buf
		_, _ = conn.Write([]byte{status})
	}()
}

func TestIngestObserver_DeliversAndReadsStatus(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// header(23) + record: kind(1) idlen(1) "pv"(2) tag(1) float(8)
	const pktSize = 23 + 13
	got := make(chan []byte, 1)
	serveOnce(t, ln, pktSize, respOK, got)

	o, err := NewIngestObserver(IngestConfig{Endpoint: ln.Addr().String()})
	require.NoError(t, err)

	err = o.Publish(
		[]model.ReadingMeasUpdate{{Reading: "pv", Value: model.FloatValue(1)}},
		nil,
	)
	require.NoError(t, err)

	pkt := <-got
	assert.Equal(t, byte(0x4F), pkt[0])
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(pkt[19:21]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(pkt[21:23]))
}

func TestIngestObserver_Rejected(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// header(23) + record: kind(1) idlen(1) "k"(1) tag(1) bool(1)
	const pktSize = 23 + 5
	got := make(chan []byte, 1)
	serveOnce(t, ln, pktSize, respRejected, got)

	o, err := NewIngestObserver(IngestConfig{Endpoint: ln.Addr().String()})
	require.NoError(t, err)

	err = o.Publish(nil, []model.KeyMeasUpdate{{Key: "k", Value: model.BoolValue(true)}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestNewIngestObserver_RequiresEndpoint(t *testing.T) {
	_, err := NewIngestObserver(IngestConfig{})
	assert.Error(t, err)
}
