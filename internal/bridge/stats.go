// internal/bridge/stats.go
package bridge

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/tamzrod/modbus-bridge/internal/numfmt"
)

// reportLockRank orders the report lock after every bus lock.
const reportLockRank = 1 << 30

// Recorder holds the process-wide transfer counters and the report
// lock that serializes status output from both workers. Counters are
// unsigned, monotonic, never reset during a run.
type Recorder struct {
	lk      *rankedLock
	out     io.Writer
	errOut  io.Writer
	verbose bool
	order   numfmt.WordOrder

	transmitted atomic.Uint64
	received    atomic.Uint64
	errCount    atomic.Uint64
}

func NewRecorder(out, errOut io.Writer, verbose bool, order numfmt.WordOrder) *Recorder {
	return &Recorder{
		lk:      newRankedLock(reportLockRank),
		out:     out,
		errOut:  errOut,
		verbose: verbose,
		order:   order,
	}
}

// AddReceived counts a read attempt. Incremented before the call:
// attempts are counted optimistically and reconciled through the
// error counter, never by decrementing.
func (r *Recorder) AddReceived() {
	r.received.Add(1)
}

// AddTransmitted counts a write attempt.
func (r *Recorder) AddTransmitted() {
	r.transmitted.Add(1)
}

// ReportOutcome reports one transfer call under the report lock so
// concurrent workers never interleave output. A count mismatch or
// transport error increments the shared error counter. Report-channel
// I/O failures are swallowed: reporting never fails the process.
func (r *Recorder) ReportOutcome(label string, actual, expected int, err error) {
	r.lk.lock()
	defer r.lk.unlock()

	if err == nil && actual == expected {
		if r.verbose {
			fmt.Fprintf(r.out, "%s %d references.\n", label, actual)
		}
		return
	}

	r.errCount.Add(1)

	desc := "unexpected transfer count"
	if err != nil {
		desc = err.Error()
	}
	fmt.Fprintf(r.errOut, "%s %d values failed: %s, returned %d\n",
		label, expected, desc, actual)
}

// ReportValues prints a successfully transferred block in verbose
// mode, formatted as 32-bit integers in the configured word order.
func (r *Recorder) ReportValues(label string, regs []uint16) {
	if !r.verbose {
		return
	}

	r.lk.lock()
	defer r.lk.unlock()

	fmt.Fprintf(r.out, "%s values: %s\n", label, numfmt.FormatRegisters32(regs, r.order))
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Transmitted uint64
	Received    uint64
	Errors      uint64
}

func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{
		Transmitted: r.transmitted.Load(),
		Received:    r.received.Load(),
		Errors:      r.errCount.Load(),
	}
}

// Errors returns the cumulative error count.
func (r *Recorder) Errors() uint64 {
	return r.errCount.Load()
}

// FrameLossPercent is errors relative to read attempts. Zero attempts
// reports 0 rather than dividing by zero.
func (s Snapshot) FrameLossPercent() float64 {
	if s.Received == 0 {
		return 0
	}
	return float64(s.Errors) * 100 / float64(s.Received)
}

// WriteSummary prints the final statistics block under the report lock.
func (r *Recorder) WriteSummary(label string) {
	snap := r.Snapshot()

	r.lk.lock()
	defer r.lk.unlock()

	fmt.Fprintf(r.out,
		"--- %s bridge statistics ---\n%d frames written, %d read, %d errors, %.1f%% frame loss\n",
		label, snap.Transmitted, snap.Received, snap.Errors, snap.FrameLossPercent())
}
