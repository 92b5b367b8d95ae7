// internal/scan/types.go
package scan

import (
	"time"

	"github.com/longzhou3/openfmb-adapters/internal/dnp3"
)

// Client abstracts the Modbus read operations the source needs.
// The source depends on geometry only.
type Client interface {
	ReadCoils(addr, qty uint16) ([]bool, error)              // FC 1
	ReadDiscreteInputs(addr, qty uint16) ([]bool, error)     // FC 2
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
}

// ReadBlock is one read geometry plus the point category it feeds.
// The i-th value in the block becomes point index BaseIndex+i.
type ReadBlock struct {
	Type      dnp3.PointType
	FC        uint8
	Address   uint16
	Quantity  uint16
	BaseIndex uint32
}

// Config is the minimal runtime config the source needs.
type Config struct {
	ID       string
	Interval time.Duration
	Reads    []ReadBlock
}
