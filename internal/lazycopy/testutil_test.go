//go:build linux

package lazycopy

import "testing"

// reinit tears down any previous engine state and initializes a fresh one
// for the duration of the test, the same isolation purpose spec.md §4.F
// gives Reset "between independent test runs" — except tests also need a
// clean arena, which Reset alone does not provide.
func reinit(t *testing.T, opts Options) {
	t.Helper()
	eng.mu.Lock()
	if eng.ar != nil {
		_ = eng.ar.close()
	}
	eng.ar = nil
	eng.pl = nil
	eng.inited = false
	eng.mu.Unlock()

	if err := InitWithOptions(opts); err != nil {
		t.Fatalf("InitWithOptions: %v", err)
	}
	t.Cleanup(Reset)
}

func newTestRegion(t *testing.T, size int) *Region {
	t.Helper()
	r, err := NewRegion(size)
	if err != nil {
		t.Fatalf("NewRegion(%d): %v", size, err)
	}
	return r
}
