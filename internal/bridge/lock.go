// internal/bridge/lock.go
package bridge

import "sync"

// rankedLock is a mutex with a wiring-time rank. Every code path that
// holds more than one lock acquires them in ascending rank order, the
// same order in both workers, so the two units sharing both bus locks
// with reversed roles can never form a circular wait.
//
// Each bus handle gets exactly one rankedLock: a bus used as a read
// source by one unit and a write destination by the other shares the
// same instance on both sides. The report lock carries the highest
// rank and is always taken last.
type rankedLock struct {
	mu   sync.Mutex
	rank int
}

func newRankedLock(rank int) *rankedLock {
	return &rankedLock{rank: rank}
}

func (l *rankedLock) lock()   { l.mu.Lock() }
func (l *rankedLock) unlock() { l.mu.Unlock() }

// orderedPair returns the two locks in ascending rank order.
func orderedPair(a, b *rankedLock) (first, second *rankedLock) {
	if a.rank <= b.rank {
		return a, b
	}
	return b, a
}
