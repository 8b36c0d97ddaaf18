// internal/bridge/runstate.go
package bridge

import (
	"sync"
	"sync/atomic"
	"time"
)

// RunState is the shared one-shot keep-running flag plus the
// live-worker accounting used for cooperative shutdown. Once the flag
// is cleared it is never set again: the run is non-restartable.
type RunState struct {
	running  atomic.Bool
	live     atomic.Int32
	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

func NewRunState() *RunState {
	rs := &RunState{done: make(chan struct{})}
	rs.running.Store(true)
	return rs
}

// KeepRunning reports whether workers should begin another cycle.
// Checked at loop top only; a worker mid-cycle finishes that cycle.
func (rs *RunState) KeepRunning() bool {
	return rs.running.Load()
}

// Stop clears the flag. Idempotent and signal-goroutine safe: it
// flips state and nothing else.
func (rs *RunState) Stop() {
	rs.stopOnce.Do(func() {
		rs.running.Store(false)
		close(rs.done)
	})
}

// Done is closed once Stop has been called.
func (rs *RunState) Done() <-chan struct{} {
	return rs.done
}

// register must be called before the worker goroutine is launched.
func (rs *RunState) register() {
	rs.wg.Add(1)
	rs.live.Add(1)
}

// deregister is deferred by each worker on exit.
func (rs *RunState) deregister() {
	rs.live.Add(-1)
	rs.wg.Done()
}

// Live returns the number of workers that have not exited yet.
func (rs *RunState) Live() int {
	return int(rs.live.Load())
}

// Drain waits for all registered workers to exit, bounded by timeout.
// It returns true if the workers quiesced in time.
func (rs *RunState) Drain(timeout time.Duration) bool {
	quiet := make(chan struct{})
	go func() {
		rs.wg.Wait()
		close(quiet)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-quiet:
		return true
	case <-timer.C:
		return false
	}
}
