package lazycopy

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Region is a page-aligned byte range carved out of the package's shared
// mmap arena. It is the concrete stand-in for "arbitrary user code that
// reads and writes the managed regions" (spec.md §1): every access goes
// through Byte/Set/CopyOut so a deferred copy materializes transparently.
type Region struct {
	base uintptr
	size int
}

// Base reports the starting address of the region within the arena. It
// exists so LazyCopy callers (and tests) can reason about page boundaries;
// it is not a license to bypass Byte/Set with raw pointer arithmetic.
func (r *Region) Base() uintptr { return r.base }

// Size reports the region's length in bytes.
func (r *Region) Size() int { return r.size }

// arena is the single anonymous mapping every Region is carved from. Like
// the reference CLI's uffdHandler mmap, it is created once, by the first
// successful Init; Reset leaves it mapped. Unlike that mmap (which is a read-only view of a snapshot
// file) this one is read-write and owns the memory it serves.
type arena struct {
	data []byte
	base uintptr
	next int
}

func newArena(size int) (*arena, error) {
	if rem := size % pageSize; rem != 0 {
		size += pageSize - rem
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmap arena: %w", err)
	}
	return &arena{data: data, base: uintptr(unsafe.Pointer(&data[0]))}, nil
}

// alloc carves size bytes, rounded up to a whole number of pages so every
// Region starts on its own page (the coverage⇒protection invariant is only
// meaningful when distinct regions never share a page).
func (a *arena) alloc(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region size must be > 0, got %d", size)
	}
	aligned := size
	if rem := aligned % pageSize; rem != 0 {
		aligned += pageSize - rem
	}
	if a.next+aligned > len(a.data) {
		return nil, fmt.Errorf("arena exhausted: need %d more bytes, %d available", aligned, len(a.data)-a.next)
	}
	base := a.base + uintptr(a.next)
	a.next += aligned
	return &Region{base: base, size: size}, nil
}

func (a *arena) close() error {
	if a.data == nil {
		return nil
	}
	err := unix.Munmap(a.data)
	a.data = nil
	return err
}
