//go:build !linux

package cpu

// bindToCore is a no-op: core binding is only implemented on linux.
// The thread is still locked by Pin.
func bindToCore(int) (restore func() error, err error) {
	return func() error { return nil }, nil
}
