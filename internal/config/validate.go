// internal/config/validate.go
package config

import (
	"fmt"
)

// writeMaxQuantity is the Modbus limit for one write-multiple-registers
// request (FC 16).
const writeMaxQuantity = 123

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	b := &cfg.Bridge

	// ------------------------------------------------------------
	// ENDPOINT VALIDATION
	// ------------------------------------------------------------

	if b.Local.Endpoint == "" {
		return fmt.Errorf("bridge: local.endpoint is required")
	}
	if b.Remote.Endpoint == "" {
		return fmt.Errorf("bridge: remote.endpoint is required")
	}

	if b.TimeoutMs < 0 {
		return fmt.Errorf("bridge: timeout_ms must not be negative")
	}

	// ------------------------------------------------------------
	// DIRECTION GEOMETRY VALIDATION
	// ------------------------------------------------------------

	for _, d := range []struct {
		name string
		dir  DirectionConfig
	}{
		{"forward", b.Forward},
		{"return", b.Return},
	} {
		if d.dir.Quantity == 0 {
			return fmt.Errorf("bridge: %s.quantity must be at least 1", d.name)
		}
		if d.dir.Quantity > writeMaxQuantity {
			return fmt.Errorf(
				"bridge: %s.quantity %d exceeds write limit %d",
				d.name, d.dir.Quantity, writeMaxQuantity,
			)
		}

		// Inclusive end addresses must stay inside the 16-bit space.
		if int(d.dir.SourceAddress)+int(d.dir.Quantity)-1 > 0xFFFF {
			return fmt.Errorf(
				"bridge: %s source range %d+%d overflows the register space",
				d.name, d.dir.SourceAddress, d.dir.Quantity,
			)
		}
		if int(d.dir.DestAddress)+int(d.dir.Quantity)-1 > 0xFFFF {
			return fmt.Errorf(
				"bridge: %s dest range %d+%d overflows the register space",
				d.name, d.dir.DestAddress, d.dir.Quantity,
			)
		}
	}

	// ------------------------------------------------------------
	// CROSS-DIRECTION OVERLAP VALIDATION
	// ------------------------------------------------------------

	// The return path writes back into the local endpoint. If its
	// destination range overlaps the forward path's source range the
	// bridge would feed its own output back into itself. The mirror
	// overlap on the remote side (forward dest covering the return
	// source) is a legitimate relay layout and stays allowed.
	if overlaps(
		b.Return.DestAddress, b.Return.Quantity,
		b.Forward.SourceAddress, b.Forward.Quantity,
	) {
		return fmt.Errorf(
			"bridge: return dest range %d+%d overlaps forward source range %d+%d on local endpoint",
			b.Return.DestAddress, b.Return.Quantity,
			b.Forward.SourceAddress, b.Forward.Quantity,
		)
	}

	return nil
}

// overlaps reports whether two inclusive register ranges intersect.
func overlaps(aStart, aQty, bStart, bQty uint16) bool {
	aEnd := int(aStart) + int(aQty) - 1
	bEnd := int(bStart) + int(bQty) - 1
	return !(aEnd < int(bStart) || int(aStart) > bEnd)
}
