package matrix

import "testing"

// setCellHooks installs compute and start for the rest of the test.
// Tests that use it must not run in parallel.
func setCellHooks(t *testing.T, compute func(row, column int) error, start func(worker, row, column int)) {
	t.Helper()

	prev := testHooks
	testHooks = cellHooks{compute: compute, start: start}
	t.Cleanup(func() { testHooks = prev })
}
