package lazycopy

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mode is a page protection mode: one of ModeNone, ModeRead, ModeReadWrite.
type Mode int

const (
	ModeNone Mode = iota
	ModeRead
	ModeReadWrite
)

func (m Mode) unixProt() int {
	switch m {
	case ModeNone:
		return unix.PROT_NONE
	case ModeRead:
		return unix.PROT_READ
	case ModeReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE
	default:
		return unix.PROT_NONE
	}
}

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "NONE"
	case ModeRead:
		return "READ"
	case ModeReadWrite:
		return "READ|WRITE"
	default:
		return "UNKNOWN"
	}
}

// protect applies mode to the page-aligned superset of [addr, addr+size),
// i.e. it widens the call to cover the full first and last page the byte
// range touches — mirroring mprotect_full_page in the C original.
func protect(addr uintptr, size int, mode Mode) error {
	base := pageBase(addr)
	length := int(addr-base) + size
	// Round length up to a whole number of pages.
	if rem := length % pageSize; rem != 0 {
		length += pageSize - rem
	}
	view := unsafe.Slice((*byte)(unsafe.Pointer(base)), length)
	if err := unix.Mprotect(view, mode.unixProt()); err != nil {
		return &ProtectionCallFailure{Addr: base, Size: length, Mode: mode, Err: err}
	}
	return nil
}

// ProtectionCallFailure reports that a protection change the caller asked
// for (directly, or as a consequence of LazyCopy/Reset) was rejected by the
// kernel. Per spec this is treated as a caller address-argument bug; a
// conforming implementation may abort, but an ordinary call site (not the
// fault path) gets an error return instead.
type ProtectionCallFailure struct {
	Addr uintptr
	Size int
	Mode Mode
	Err  error
}

func (e *ProtectionCallFailure) Error() string {
	return fmt.Sprintf("mprotect(0x%x, %d, %s): %v", e.Addr, e.Size, e.Mode, e.Err)
}

func (e *ProtectionCallFailure) Unwrap() error { return e.Err }
