// internal/bus/bus.go
package bus

// Bus abstracts one connected register endpoint.
// The bridge core depends on geometry only: framing, checksums and
// transport I/O live behind this interface.
type Bus interface {
	// ReadRegisters reads quantity holding registers starting at
	// address. The returned slice may be shorter than quantity on a
	// partial response.
	ReadRegisters(address, quantity uint16) ([]uint16, error)

	// WriteRegisters writes values starting at address and returns
	// the count the endpoint acknowledged.
	WriteRegisters(address uint16, values []uint16) (int, error)

	Close() error
}
