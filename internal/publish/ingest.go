// internal/publish/ingest.go
package publish

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/longzhou3/openfmb-adapters/internal/model"
)

const (
	magicHi byte = 0x4F // 'O'
	magicLo byte = 0x42 // 'B'

	versionV1 byte = 0x01

	respOK       byte = 0x00
	respRejected byte = 0x01
)

// Record kind tags.
const (
	recReading byte = 0x00
	recKey     byte = 0x01
)

// Value kind tags.
const (
	valBool   byte = 0x00
	valInt    byte = 0x01
	valFloat  byte = 0x02
	valString byte = 0x03
)

// IngestObserver delivers each batch as one framed packet over one TCP
// connection (stateless, 1 batch = 1 connection). The receiver answers
// with a single accept/reject status byte.
type IngestObserver struct {
	endpoint string
	timeout  time.Duration
}

type IngestConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func NewIngestObserver(cfg IngestConfig) (*IngestObserver, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("publish ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &IngestObserver{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
	}, nil
}

// Publish implements model.DeviceObserver.
func (o *IngestObserver) Publish(readings []model.ReadingMeasUpdate, keys []model.KeyMeasUpdate) error {
	pkt, err := encodeBatch(uuid.New(), readings, keys)
	if err != nil {
		return fmt.Errorf("publish ingest: encode: %w", err)
	}

	conn, err := net.DialTimeout("tcp", o.endpoint, o.timeout)
	if err != nil {
		return fmt.Errorf("publish ingest: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(o.timeout))
	if err := writeAll(conn, pkt); err != nil {
		return fmt.Errorf("publish ingest: write: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(o.timeout))
	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("publish ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return errors.New("publish ingest: rejected")
	default:
		return fmt.Errorf("publish ingest: unknown status 0x%02x", resp[0])
	}
}

//
// ---- Batch Ingest v1 packet builder ----
//
// Layout (23 bytes header):
// 0–1   Magic "OB"
// 2     Version (0x01)
// 3–18  Batch ID (UUID, 16 bytes)
// 19–20 Reading record count
// 21–22 Key record count
// 23+   Records: readings first, then keys, accumulation order
//
// Record:
//   Kind(1) IDLen(1) ID(n) ValueTag(1) ValuePayload
// Payload by tag: bool 1 byte, int 8 bytes BE, float 8 bytes IEEE754 BE,
// string 2-byte BE length + bytes.
//

func encodeBatch(batchID uuid.UUID, readings []model.ReadingMeasUpdate, keys []model.KeyMeasUpdate) ([]byte, error) {
	if len(readings) > math.MaxUint16 || len(keys) > math.MaxUint16 {
		return nil, errors.New("batch too large")
	}

	pkt := make([]byte, 0, 23+16*(len(readings)+len(keys)))

	pkt = append(pkt, magicHi, magicLo, versionV1)
	pkt = append(pkt, batchID[:]...)
	pkt = binary.BigEndian.AppendUint16(pkt, uint16(len(readings)))
	pkt = binary.BigEndian.AppendUint16(pkt, uint16(len(keys)))

	var err error
	for _, r := range readings {
		pkt, err = appendRecord(pkt, recReading, r.Reading, r.Value)
		if err != nil {
			return nil, err
		}
	}
	for _, k := range keys {
		pkt, err = appendRecord(pkt, recKey, k.Key, k.Value)
		if err != nil {
			return nil, err
		}
	}
	return pkt, nil
}

func appendRecord(pkt []byte, kind byte, id string, v model.MeasValue) ([]byte, error) {
	if len(id) > math.MaxUint8 {
		return nil, fmt.Errorf("identifier too long: %q", id)
	}
	pkt = append(pkt, kind, byte(len(id)))
	pkt = append(pkt, id...)

	switch v.Kind() {
	case model.KindBool:
		b, _ := v.AsBool()
		pkt = append(pkt, valBool)
		if b {
			pkt = append(pkt, 1)
		} else {
			pkt = append(pkt, 0)
		}
	case model.KindInt:
		i, _ := v.AsInt()
		pkt = append(pkt, valInt)
		pkt = binary.BigEndian.AppendUint64(pkt, uint64(i))
	case model.KindFloat:
		f, _ := v.AsFloat()
		pkt = append(pkt, valFloat)
		pkt = binary.BigEndian.AppendUint64(pkt, math.Float64bits(f))
	case model.KindString:
		s, _ := v.AsString()
		if len(s) > math.MaxUint16 {
			return nil, fmt.Errorf("string value too long for %q", id)
		}
		pkt = append(pkt, valString)
		pkt = binary.BigEndian.AppendUint16(pkt, uint16(len(s)))
		pkt = append(pkt, s...)
	default:
		return nil, fmt.Errorf("unencodable value kind for %q", id)
	}
	return pkt, nil
}

// ---- helpers ----

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
