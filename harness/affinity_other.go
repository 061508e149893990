//go:build !linux

package harness

import "runtime"

// lockToCore wires the calling goroutine to its OS thread. Thread
// affinity is only available on Linux.
func lockToCore(cpu int) error {
	runtime.LockOSThread()
	return nil
}
