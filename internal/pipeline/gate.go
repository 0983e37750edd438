package pipeline

import (
	"errors"
	"sync"

	"github.com/gofrs/flock"
)

// ErrBusy reports that a pull cycle is already in flight. Callers get
// an immediate rejection, never queueing.
var ErrBusy = errors.New("pipeline: a pull cycle is already running")

// Gate serializes pull cycles against one storage target. The mutex
// covers goroutines in this process; the file lock covers other
// processes pointed at the same data dir.
type Gate struct {
	mu sync.Mutex
	fl *flock.Flock
}

// NewGate builds a gate. lockPath may be empty to skip cross-process
// locking (tests, in-memory setups).
func NewGate(lockPath string) *Gate {
	g := &Gate{}
	if lockPath != "" {
		g.fl = flock.New(lockPath)
	}
	return g
}

// TryAcquire takes the gate without blocking. ErrBusy means another
// cycle holds it, here or in another process.
func (g *Gate) TryAcquire() error {
	if !g.mu.TryLock() {
		return ErrBusy
	}
	if g.fl != nil {
		ok, err := g.fl.TryLock()
		if err != nil {
			g.mu.Unlock()
			return err
		}
		if !ok {
			g.mu.Unlock()
			return ErrBusy
		}
	}
	return nil
}

func (g *Gate) Release() {
	if g.fl != nil {
		_ = g.fl.Unlock()
	}
	g.mu.Unlock()
}

// Busy reports whether a cycle currently holds the gate. Only the
// in-process mutex is probed; a holder in another process shows up as
// ErrBusy on TryAcquire instead.
func (g *Gate) Busy() bool {
	if !g.mu.TryLock() {
		return true
	}
	g.mu.Unlock()
	return false
}
