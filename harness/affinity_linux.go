//go:build linux

package harness

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// lockToCore wires the calling goroutine to its OS thread and pins that
// thread to cpu. The thread stays locked even if pinning fails.
func lockToCore(cpu int) error {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu % runtime.NumCPU())
	return unix.SchedSetaffinity(0, &set)
}
