//go:build linux

package cpu

import "golang.org/x/sys/unix"

// bindToCore restricts the current thread to core and returns a func that
// puts back the mask the thread had before.
func bindToCore(core int) (restore func() error, err error) {
	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil { // 0 = calling thread
		return nil, err
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return nil, err
	}

	return func() error {
		return unix.SchedSetaffinity(0, &prev)
	}, nil
}
