// internal/bus/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"
)

// Client is a single TCP connection to one Modbus endpoint, adapted to
// the bus.Bus contract. Callers serialize access through the bridge's
// bus locks; the client itself holds no request-level locking.
type Client struct {
	endpoint string
	handler  *modbus.TCPClientHandler
	client   modbus.Client
	log      zerolog.Logger
}

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// New dials the endpoint and fails fast if the connection cannot be
// established. The response timeout applies to every request.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("bus modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	cfg.Logger.Debug().
		Str("endpoint", cfg.Endpoint).
		Uint8("unit_id", cfg.UnitID).
		Dur("timeout", cfg.Timeout).
		Msg("bus connected")

	return &Client{
		endpoint: cfg.Endpoint,
		handler:  h,
		client:   modbus.NewClient(h),
		log:      cfg.Logger,
	}, nil
}

// Endpoint returns the address the client was dialed against.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Close() error {
	c.log.Debug().Str("endpoint", c.endpoint).Msg("bus closed")
	return c.handler.Close()
}

// ---- bus.Bus interface ----

func (c *Client) ReadRegisters(address, quantity uint16) ([]uint16, error) {
	payload, err := c.client.ReadHoldingRegisters(address, quantity)
	if err != nil {
		return nil, err
	}
	if len(payload)%2 != 0 {
		return nil, errors.New("bus modbus: read payload byte count not even")
	}
	return unpackRegisters(payload), nil
}

func (c *Client) WriteRegisters(address uint16, values []uint16) (int, error) {
	qty := uint16(len(values))
	payload := packRegisters(values)

	resp, err := c.client.WriteMultipleRegisters(address, qty, payload)
	if err != nil {
		return 0, err
	}
	// Response data is the echoed quantity.
	if len(resp) < 2 {
		return 0, errors.New("bus modbus: short write response")
	}
	return int(binary.BigEndian.Uint16(resp)), nil
}

// ---- helpers (pure geometry) ----

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
