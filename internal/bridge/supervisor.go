// internal/bridge/supervisor.go
package bridge

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-bridge/internal/bus"
)

// Direction is the geometry of one transfer path.
type Direction struct {
	SourceAddress uint16
	DestAddress   uint16
	Quantity      uint16
}

// SupervisorConfig wires the exchange. Both buses must already be
// connected.
type SupervisorConfig struct {
	Local  bus.Bus
	Remote bus.Bus

	// Forward moves Local -> Remote, Return moves Remote -> Local.
	Forward Direction
	Return  Direction

	// Quiesce overrides the recovery stall interval; zero means the
	// default.
	Quiesce time.Duration

	Logger zerolog.Logger
}

// Supervisor owns the bus pair and the two transfer units. It wires
// the shared locks and launches the workers; it carries no transfer
// logic of its own.
type Supervisor struct {
	forward *TransferUnit
	reverse *TransferUnit
	run     *RunState
	log     zerolog.Logger
}

func NewSupervisor(cfg SupervisorConfig, stats *Recorder) (*Supervisor, error) {
	if cfg.Local == nil || cfg.Remote == nil {
		return nil, errors.New("bridge: both buses must be connected before start")
	}
	if stats == nil {
		return nil, errors.New("bridge: stats recorder required")
	}
	if cfg.Forward.Quantity == 0 || cfg.Return.Quantity == 0 {
		return nil, errors.New("bridge: direction quantity must be at least 1")
	}

	quiesce := cfg.Quiesce
	if quiesce <= 0 {
		quiesce = recoveryQuiesce
	}

	// One lock per bus handle, ranks fixed at wiring time. Both units
	// reference the same two instances with roles reversed.
	localLock := newRankedLock(0)
	remoteLock := newRankedLock(1)

	run := NewRunState()

	forward := &TransferUnit{
		label:      "forward",
		source:     cfg.Local,
		dest:       cfg.Remote,
		sourceLock: localLock,
		destLock:   remoteLock,
		sourceAddr: cfg.Forward.SourceAddress,
		destAddr:   cfg.Forward.DestAddress,
		quantity:   cfg.Forward.Quantity,
		values:     make([]uint16, cfg.Forward.Quantity),
		stats:      stats,
		run:        run,
		quiesce:    quiesce,
	}

	reverse := &TransferUnit{
		label:      "return",
		source:     cfg.Remote,
		dest:       cfg.Local,
		sourceLock: remoteLock,
		destLock:   localLock,
		sourceAddr: cfg.Return.SourceAddress,
		destAddr:   cfg.Return.DestAddress,
		quantity:   cfg.Return.Quantity,
		values:     make([]uint16, cfg.Return.Quantity),
		stats:      stats,
		run:        run,
		quiesce:    quiesce,
	}

	return &Supervisor{
		forward: forward,
		reverse: reverse,
		run:     run,
		log:     cfg.Logger,
	}, nil
}

// Start launches both transfer units as independent workers. Workers
// are registered with the run state before their goroutines start so
// the drain count can never miss one.
func (s *Supervisor) Start() {
	for _, u := range []*TransferUnit{s.forward, s.reverse} {
		s.run.register()
		s.log.Debug().Str("unit", u.label).Msg("transfer unit started")
		go u.Run()
	}
}

// Wait blocks until the keep-running flag has been cleared.
func (s *Supervisor) Wait() {
	<-s.run.Done()
}

// RunState exposes the shared run state for the shutdown coordinator.
func (s *Supervisor) RunState() *RunState {
	return s.run
}
