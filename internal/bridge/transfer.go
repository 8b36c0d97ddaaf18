// internal/bridge/transfer.go
package bridge

import (
	"runtime"
	"time"

	"github.com/tamzrod/modbus-bridge/internal/bus"
)

// recoveryQuiesce is how long the auto-balancing stall holds every
// lock a unit can reach.
const recoveryQuiesce = 1024 * time.Microsecond

// TransferUnit moves one direction of the exchange: each cycle reads a
// block of registers from the source bus and writes it to the
// destination bus. Two units exist, sharing the two buses with
// reversed roles.
type TransferUnit struct {
	label string

	source     bus.Bus
	dest       bus.Bus
	sourceLock *rankedLock
	destLock   *rankedLock

	sourceAddr uint16
	destAddr   uint16
	quantity   uint16

	// values is owned exclusively by this unit, never shared with the
	// other direction. len(values) == quantity at all times.
	values []uint16

	stats   *Recorder
	run     *RunState
	quiesce time.Duration

	// test hooks, nil in production; called from the unit's own
	// goroutine around ranked-lock acquisition in multi-lock paths
	onAcquire func(rank int)
	onRelease func(rank int)
}

// Run loops until the keep-running flag clears. The flag is checked
// at loop top only, so a unit mid-cycle (or mid-recovery-sleep)
// finishes before observing the stop.
func (u *TransferUnit) Run() {
	defer u.run.deregister()
	for u.run.KeepRunning() {
		u.cycle()
		// The cycle has no blocking point of its own when the buses
		// answer from memory; yield so the peer direction gets the
		// processor on a single-CPU runtime.
		runtime.Gosched()
	}
}

// cycle performs one read-then-write pass.
func (u *TransferUnit) cycle() {
	u.lockRanked(u.sourceLock)
	u.stats.AddReceived()
	got, err := u.source.ReadRegisters(u.sourceAddr, u.quantity)
	u.unlockRanked(u.sourceLock)

	copy(u.values, got)
	u.stats.ReportOutcome(u.label+" read", len(got), int(u.quantity), err)
	ok := err == nil && len(got) == int(u.quantity)

	if ok && u.run.KeepRunning() {
		u.lockRanked(u.destLock)
		u.stats.AddTransmitted()
		written, werr := u.dest.WriteRegisters(u.destAddr, u.values)
		u.unlockRanked(u.destLock)

		u.stats.ReportOutcome(u.label+" write", written, int(u.quantity), werr)
		ok = werr == nil && written == int(u.quantity)
		if ok {
			u.stats.ReportValues(u.label, u.values)
		}
	}

	if !ok {
		u.recover()
	}
}

// recover is the auto-balancing stall: take every lock this unit can
// reach in ascending rank order (report lock last), hold them through
// a short quiescence interval, then release. Any worker touching the
// same buses or the report channel stalls with us, which gives a
// transient fault time to clear before either side issues new traffic.
func (u *TransferUnit) recover() {
	first, second := orderedPair(u.sourceLock, u.destLock)

	u.lockRanked(first)
	u.lockRanked(second)
	u.lockRanked(u.stats.lk)

	time.Sleep(u.quiesce)

	u.unlockRanked(u.stats.lk)
	u.unlockRanked(second)
	u.unlockRanked(first)
}

func (u *TransferUnit) lockRanked(l *rankedLock) {
	l.lock()
	if u.onAcquire != nil {
		u.onAcquire(l.rank)
	}
}

func (u *TransferUnit) unlockRanked(l *rankedLock) {
	if u.onRelease != nil {
		u.onRelease(l.rank)
	}
	l.unlock()
}
