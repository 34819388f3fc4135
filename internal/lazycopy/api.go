package lazycopy

import (
	"fmt"
	"sync"
	"unsafe"
)

// DefaultMaxPending is the pool capacity spec.md §3.1 calls out as the
// design default.
const DefaultMaxPending = 50

// DefaultArenaBytes sizes the shared mmap arena Regions are carved from.
const DefaultArenaBytes = 64 * 1024 * 1024

// Options configures Init. Zero values fall back to the package defaults.
type Options struct {
	MaxPending int
	ArenaBytes int
}

// DefaultOptions returns the options Init() uses.
func DefaultOptions() Options {
	return Options{MaxPending: DefaultMaxPending, ArenaBytes: DefaultArenaBytes}
}

// engine is the single process-wide instance backing the package-level API.
// Its pool and arena are inherently process-wide, the same way the
// reference CLI's UFFD handler is one instance per VM (spec.md §9 "Global
// mutable state"); mu serializes the public entry points against each
// other and against concurrent Stats() reads, matching spec.md §5's
// "mutated only by user-request entry points and by the fault handler,
// never concurrently" — touch/handleFault assume the caller already holds
// mu and never take it themselves.
type engine struct {
	mu     sync.Mutex
	pl     *pool
	ar     *arena
	opts   Options
	inited bool
}

var eng = &engine{}

// Init installs the package for use: queries the page size (already cached
// at package load, see page.go), and allocates the pending-copy pool and
// backing arena with default capacity/size. Idempotent.
func Init() {
	if err := InitWithOptions(DefaultOptions()); err != nil {
		panic(fmt.Errorf("lazycopy: Init: %w", err))
	}
}

// InitWithOptions is Init with an explicit pool capacity / arena size, the
// same quantities as internal/config's pool_capacity / arena_bytes keys. The
// CLI's demo and watch commands call Init, so those keys are not applied
// there. Idempotent: a second call is a no-op as long as the package is already
// initialized.
func InitWithOptions(opts Options) error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.inited {
		return nil
	}
	if opts.MaxPending <= 0 {
		opts.MaxPending = DefaultMaxPending
	}
	if opts.ArenaBytes <= 0 {
		opts.ArenaBytes = DefaultArenaBytes
	}
	ar, err := newArena(opts.ArenaBytes)
	if err != nil {
		return err
	}
	eng.ar = ar
	eng.pl = newPool(opts.MaxPending)
	eng.opts = opts
	eng.inited = true
	return nil
}

// Reset restores every in-use record's source and destination pages to
// READ|WRITE and frees its slot (spec.md §4.E "reset"). Idempotent: calling
// it twice in a row has the same effect as once.
func Reset() {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.inited {
		return
	}
	for i := range eng.pl.records {
		r := &eng.pl.records[i]
		if !r.inUse {
			continue
		}
		_ = protect(r.src, r.size, ModeReadWrite)
		_ = protect(r.dst, r.size, ModeReadWrite)
	}
	eng.pl.reset()
}

// Stats is a read-only snapshot of pool occupancy, for the CLI/TUI. It is
// never consulted by the fault path.
type Stats struct {
	InUse    int
	Capacity int
	ChainLen int
}

// GetStats reports current pool occupancy.
func GetStats() Stats {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.inited {
		return Stats{}
	}
	return Stats{
		InUse:    eng.pl.inUseCount(),
		Capacity: eng.pl.capacity,
		ChainLen: eng.pl.chainLen(),
	}
}

// Pressure buckets pool occupancy into a coarse level a caller can key
// rendering or log severity off of, without exposing the raw ratio. The
// pending-copy pool has no way to reject an insert (insertRecord always
// forcibly flushes the head rather than fail), so pressure is purely
// informational — but a pool running near capacity is one already forcing
// a materializeFull flush on every new split, which is the condition
// finding A's regression test exercises at Pressure == High.
type Pressure int

const (
	PressureLow Pressure = iota
	PressureMedium
	PressureHigh
)

func (p Pressure) String() string {
	switch p {
	case PressureLow:
		return "low"
	case PressureMedium:
		return "medium"
	case PressureHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Pressure reports how close s is to forcing a flush-on-insert: High means
// the pool is already at capacity (the next insert evicts the chain head),
// Medium means it's at least half full. Thresholds are deliberately coarse
// rather than tied to a specific capacity, since capacity is a
// user-configurable quantity (internal/config's pool_capacity key).
func (s Stats) Pressure() Pressure {
	if s.Capacity <= 0 {
		return PressureLow
	}
	switch {
	case s.InUse >= s.Capacity:
		return PressureHigh
	case s.InUse*2 >= s.Capacity:
		return PressureMedium
	default:
		return PressureLow
	}
}

// NewRegion carves a page-aligned byte range out of the shared arena. This
// is the Go-native stand-in for "arbitrary user code" declaring its own
// global arrays (spec.md §1); see SPEC_FULL.md §4.E.
func NewRegion(size int) (*Region, error) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.inited {
		return nil, ErrNotInitialized
	}
	return eng.ar.alloc(size)
}

// LazyCopy requests that size bytes at offset in src be copied to the same
// offset in dst. It returns immediately; transfer is deferred until either
// region is next touched through Byte/Set/CopyOut (spec.md §1, §4.E).
func LazyCopy(dst, src *Region, offset, size int) error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if !eng.inited {
		return ErrNotInitialized
	}
	if size <= 0 {
		return fmt.Errorf("lazycopy: size must be > 0, got %d", size)
	}
	if offset < 0 || offset+size > src.size || offset+size > dst.size {
		return ErrOutOfBounds
	}

	srcAddr := src.base + uintptr(offset)
	dstAddr := dst.base + uintptr(offset)

	// Volatile single-byte read of every source page: this is not
	// incidental (spec.md §9). It forces materialization of any earlier
	// pending copy that still owes a write into src — without it, the
	// protect(srcAddr, ModeRead) below would mask that pending write and
	// later readers of src would observe stale bytes (see scenario S7).
	for p := pageBase(srcAddr); p <= pageBase(srcAddr+uintptr(size)-1); p += uintptr(pageSize) {
		addr := p
		eng.touch(func() {
			_ = *(*byte)(unsafe.Pointer(addr))
		})
	}

	if err := protect(srcAddr, size, ModeRead); err != nil {
		return err
	}
	if err := protect(dstAddr, size, ModeNone); err != nil {
		return err
	}

	eng.insertRecord(srcAddr, dstAddr, size, noIndex)
	return nil
}

// Byte reads byte i of the region, transparently materializing a pending
// copy that covers it if necessary.
func (r *Region) Byte(i int) (byte, error) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if i < 0 || i >= r.size {
		return 0, ErrOutOfBounds
	}
	addr := r.base + uintptr(i)
	var v byte
	eng.touch(func() { v = *(*byte)(unsafe.Pointer(addr)) })
	return v, nil
}

// Set writes byte i of the region, transparently materializing a pending
// copy that covers it if necessary.
func (r *Region) Set(i int, val byte) error {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if i < 0 || i >= r.size {
		return ErrOutOfBounds
	}
	addr := r.base + uintptr(i)
	eng.touch(func() { *(*byte)(unsafe.Pointer(addr)) = val })
	return nil
}

// CopyOut reads min(len(dst), r.Size()) bytes out of the region into dst,
// one guarded access at a time, and returns how many bytes were copied.
func (r *Region) CopyOut(dst []byte) (int, error) {
	n := len(dst)
	if n > r.size {
		n = r.size
	}
	for i := 0; i < n; i++ {
		b, err := r.Byte(i)
		if err != nil {
			return i, err
		}
		dst[i] = b
	}
	return n, nil
}

// Fill writes min(len(data), r.Size()) bytes of data into the region
// starting at offset 0, one guarded access at a time.
func (r *Region) Fill(data []byte) (int, error) {
	n := len(data)
	if n > r.size {
		n = r.size
	}
	for i := 0; i < n; i++ {
		if err := r.Set(i, data[i]); err != nil {
			return i, err
		}
	}
	return n, nil
}
