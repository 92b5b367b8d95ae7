// internal/dnp3/types.go
package dnp3

import (
	"fmt"
	"strings"
)

// PointType is one of the five native point categories.
type PointType uint8

const (
	PointStatus PointType = iota
	PointAnalog
	PointCounter
	PointControlStatus
	PointSetpointStatus
)

func (p PointType) String() string {
	switch p {
	case PointStatus:
		return "status"
	case PointAnalog:
		return "analog"
	case PointCounter:
		return "counter"
	case PointControlStatus:
		return "control-status"
	case PointSetpointStatus:
		return "setpoint-status"
	default:
		return fmt.Sprintf("point-type(%d)", uint8(p))
	}
}

// BinaryValued reports whether the category's native value is a flag
// (as opposed to a register/measurement value).
func (p PointType) BinaryValued() bool {
	return p == PointStatus || p == PointControlStatus
}

// ParsePointType resolves the textual category name used in config files.
func ParsePointType(s string) (PointType, error) {
	switch strings.ToLower(s) {
	case "status":
		return PointStatus, nil
	case "analog":
		return PointAnalog, nil
	case "counter":
		return PointCounter, nil
	case "control-status":
		return PointControlStatus, nil
	case "setpoint-status":
		return PointSetpointStatus, nil
	default:
		return 0, fmt.Errorf("unknown point type %q", s)
	}
}

// PointTypes lists all categories in wire order.
var PointTypes = []PointType{
	PointStatus,
	PointAnalog,
	PointCounter,
	PointControlStatus,
	PointSetpointStatus,
}

// DataObserver is the session contract the protocol stack drives:
// Start, any number of Update calls in any order, End.
//
// Implementations must never panic out of these methods; the caller sits
// inside the protocol stack's callback path.
type DataObserver interface {
	Start()
	UpdateBinary(value bool, index uint32)
	UpdateAnalog(value float64, index uint32)
	UpdateCounter(value int64, index uint32)
	UpdateControlStatus(value bool, index uint32)
	UpdateSetpointStatus(value float64, index uint32)
	End()
}
