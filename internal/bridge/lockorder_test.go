// internal/bridge/lockorder_test.go
package bridge

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// orderTracker records ranked-lock acquisitions made by one unit's
// goroutine and flags any acquisition that is not in ascending rank
// order relative to the locks already held.
type orderTracker struct {
	mu         sync.Mutex
	held       []int
	violations int
	sawNested  bool
}

func (t *orderTracker) acquire(rank int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, h := range t.held {
		if h >= rank {
			t.violations++
		}
	}
	if len(t.held) > 0 {
		t.sawNested = true
	}
	t.held = append(t.held, rank)
}

func (t *orderTracker) release(rank int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.held) - 1; i >= 0; i-- {
		if t.held[i] == rank {
			t.held = append(t.held[:i], t.held[i+1:]...)
			return
		}
	}
}

// alwaysShortBus forces the recovery path on every cycle.
type alwaysShortBus struct{}

func (alwaysShortBus) ReadRegisters(addr, qty uint16) ([]uint16, error) {
	return make([]uint16, qty-1), nil
}

func (alwaysShortBus) WriteRegisters(addr uint16, values []uint16) (int, error) {
	return len(values) - 1, nil
}

func (alwaysShortBus) Close() error { return nil }

func TestLockOrder_NoReversedPairAcrossUnits(t *testing.T) {
	rec := quietRecorder()

	sup, err := NewSupervisor(SupervisorConfig{
		Local:   alwaysShortBus{},
		Remote:  alwaysShortBus{},
		Forward: Direction{SourceAddress: 4, DestAddress: 135, Quantity: 6},
		Return:  Direction{SourceAddress: 20, DestAddress: 50, Quantity: 4},
		Quiesce: 50 * time.Microsecond,
		Logger:  zerolog.Nop(),
	}, rec)
	if err != nil {
		t.Fatalf("NewSupervisor() err=%v", err)
	}

	fwdTrack := &orderTracker{}
	retTrack := &orderTracker{}
	sup.forward.onAcquire = fwdTrack.acquire
	sup.forward.onRelease = fwdTrack.release
	sup.reverse.onAcquire = retTrack.acquire
	sup.reverse.onRelease = retTrack.release

	// Both units share both bus locks with reversed roles and every
	// cycle fails, so the triple-lock recovery path runs constantly
	// in both workers at once.
	sup.Start()
	time.Sleep(50 * time.Millisecond)
	sup.RunState().Stop()

	if !sup.RunState().Drain(time.Second) {
		t.Fatal("workers did not drain: likely deadlocked in recovery")
	}

	for name, tr := range map[string]*orderTracker{"forward": fwdTrack, "return": retTrack} {
		if !tr.sawNested {
			t.Fatalf("%s unit never entered the multi-lock recovery path", name)
		}
		if tr.violations != 0 {
			t.Fatalf("%s unit acquired locks out of rank order %d times", name, tr.violations)
		}
	}
}

func TestOrderedPair(t *testing.T) {
	a := newRankedLock(0)
	b := newRankedLock(1)

	if f, s := orderedPair(a, b); f != a || s != b {
		t.Fatal("orderedPair(a,b) reordered an already ascending pair")
	}
	if f, s := orderedPair(b, a); f != a || s != b {
		t.Fatal("orderedPair(b,a) did not sort by rank")
	}
}
