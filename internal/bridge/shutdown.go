// internal/bridge/shutdown.go
package bridge

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Phase is the coordinator's lifecycle state. The sequence is
// Running -> Stopping -> Draining -> Closed and is not re-entrant.
type Phase int32

const (
	PhaseRunning Phase = iota
	PhaseStopping
	PhaseDraining
	PhaseClosed
)

// StopReason distinguishes the user interrupt from a programmatic
// termination request. Cleanup is identical; only the closing output
// differs.
type StopReason int32

const (
	StopProgrammatic StopReason = iota
	StopInterrupt
)

const defaultDrainTimeout = 2 * time.Second

// CoordinatorConfig wires the shutdown coordinator.
type CoordinatorConfig struct {
	Run   *RunState
	Stats *Recorder

	// Closers are released after the final report (the bus handles).
	Closers []io.Closer

	// Label names the bridge in the statistics banner.
	Label string

	// DrainTimeout bounds the wait for worker quiescence; it should
	// cover one worst-case transport timeout plus the recovery stall.
	DrainTimeout time.Duration

	Out    io.Writer
	ErrOut io.Writer
	Logger zerolog.Logger
}

// Coordinator is the only entry point that transitions the exchange
// to a stopped state.
type Coordinator struct {
	phase  atomic.Int32
	reason atomic.Int32

	run          *RunState
	stats        *Recorder
	closers      []io.Closer
	label        string
	drainTimeout time.Duration
	out          io.Writer
	errOut       io.Writer
	log          zerolog.Logger
}

func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	timeout := cfg.DrainTimeout
	if timeout <= 0 {
		timeout = defaultDrainTimeout
	}
	return &Coordinator{
		run:          cfg.Run,
		stats:        cfg.Stats,
		closers:      cfg.Closers,
		label:        cfg.Label,
		drainTimeout: timeout,
		out:          cfg.Out,
		errOut:       cfg.ErrOut,
		log:          cfg.Logger,
	}
}

// Phase returns the current lifecycle state.
func (c *Coordinator) Phase() Phase {
	return Phase(c.phase.Load())
}

// RequestStop moves Running -> Stopping and clears the keep-running
// flag. It is safe to call from the signal-handling goroutine: it
// flips state and returns, no blocking cleanup. A second request
// during Stopping or Draining is a no-op.
func (c *Coordinator) RequestStop(reason StopReason) {
	if !c.phase.CompareAndSwap(int32(PhaseRunning), int32(PhaseStopping)) {
		return
	}
	c.reason.Store(int32(reason))
	c.run.Stop()
}

// Finalize runs the Stopping -> Draining -> Closed sequence in the
// main control context: wait for the workers to quiesce, print final
// statistics, release the bus handles, and return the process exit
// code (0 iff the error counter is zero).
func (c *Coordinator) Finalize() int {
	c.RequestStop(StopProgrammatic)

	c.phase.Store(int32(PhaseDraining))
	if !c.run.Drain(c.drainTimeout) {
		// Best effort: report and proceed rather than hang forever.
		live := c.run.Live()
		fmt.Fprintf(c.errOut, "Threads not closed properly, still %d running\n", live)
		c.log.Warn().Int("live", live).Dur("timeout", c.drainTimeout).
			Msg("workers did not quiesce before the drain deadline")
	}

	c.stats.WriteSummary(c.label)

	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			c.log.Warn().Err(err).Msg("bus close failed")
		}
	}

	c.phase.Store(int32(PhaseClosed))

	if StopReason(c.reason.Load()) == StopInterrupt {
		fmt.Fprint(c.out, "\nEverything was closed neatly.\nHave a nice day!\n")
	} else {
		fmt.Fprintln(c.out)
	}

	if c.stats.Errors() == 0 {
		return 0
	}
	return 1
}
