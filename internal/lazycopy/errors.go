package lazycopy

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ErrOutOfBounds is returned by Region accessors and LazyCopy when an
// offset/size argument falls outside the region's extent. This is an
// ordinary caller-bug error return, not the fault path.
var ErrOutOfBounds = errors.New("lazycopy: offset/size out of bounds")

// ErrNotInitialized is returned when the package-level API is used before
// Init.
var ErrNotInitialized = errors.New("lazycopy: not initialized, call Init first")

// unmanagedFaultMessage is written raw to stderr — no fmt, no allocation —
// matching spec.md §5/§7's requirement that the diagnostic path use only a
// raw write to the error file descriptor.
var unmanagedFaultMessage = []byte("lazycopy: unmanaged fault, terminating\n")

// unmanagedFault is spec.md §4.D step 1 / §7 UnmanagedFault: a fault address
// that belongs to no pending record is a genuine program bug. There is no
// attempt to chain to a previous handler (installation is last-writer-wins
// by design); the process is terminated with an unmaskable signal after a
// short diagnostic.
func (e *engine) unmanagedFault(addr uintptr) {
	_, _ = unix.Write(2, unmanagedFaultMessage)
	_ = unix.Kill(unix.Getpid(), unix.SIGKILL)
	// SIGKILL cannot be caught or ignored; block here so this goroutine
	// does not keep running in the interval before delivery.
	select {}
}
