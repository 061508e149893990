// Package spinlock provides a test-and-test-and-set spin lock.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// spinsBeforeYield bounds how long a waiter reads the flag before it
// lets the scheduler run someone else, possibly the lock holder.
const spinsBeforeYield = 64

// SpinLock is a busy-wait mutex for very short critical sections.
// The zero value is unlocked. A SpinLock must not be copied after use.
//
// Waiters only read the flag while it is set and attempt the atomic
// claim once it reads clear, so a contended lock does not keep the
// cache line bouncing between cores.
type SpinLock struct {
	_    noCopy
	flag atomic.Uint32
}

// Lock acquires the lock, spinning until it is available.
func (l *SpinLock) Lock() {
	for {
		if l.flag.Swap(1) == 0 {
			return
		}
		spins := 0
		for l.flag.Load() != 0 {
			spins++
			if spins == spinsBeforeYield {
				spins = 0
				runtime.Gosched()
			}
		}
	}
}

// TryLock makes at most one claim attempt and never spins.
func (l *SpinLock) TryLock() bool {
	if l.flag.Load() != 0 {
		return false
	}
	return l.flag.Swap(1) == 0
}

// Unlock releases the lock. Writes made while holding it are visible
// to the next goroutine that acquires it.
func (l *SpinLock) Unlock() {
	if l.flag.Swap(0) == 0 {
		panic("spinlock: unlock of unlocked lock")
	}
}

// noCopy lets go vet flag copies of a SpinLock.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
