// Package cpu pins worker goroutines to OS threads and, where the platform
// allows it, to a single core.
package cpu

import "runtime"

// Count returns the number of logical CPUs usable by the process.
func Count() int {
	return runtime.NumCPU()
}

// Pin locks the calling goroutine to its OS thread and tries to bind that
// thread to core workerID mod Count(). The returned release func must run on
// the same goroutine, usually deferred. Pinning failures are reported but the
// thread stays locked either way.
//
// release restores the thread's previous core mask before unlocking it. If
// the mask cannot be restored the thread is left locked, so the runtime
// retires it when the goroutine exits instead of reusing a narrowed thread.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()

	n := Count()
	core := workerID % n
	if core < 0 {
		core += n
	}

	restore, err := bindToCore(core)
	if err != nil {
		return runtime.UnlockOSThread, err
	}

	return func() {
		if restore() == nil {
			runtime.UnlockOSThread()
		}
	}, nil
}
