package lazycopy

import (
	"runtime/debug"
	"unsafe"
)

// touch runs fn, trapping any page-protection fault it raises and
// materializing just enough of the pending-copy table to make the access
// legal, then retries fn. This is the Go-native realization of "kernel
// delivers fault, handler runs, instruction retries" (spec.md §4.D step 4,
// §5) — see SPEC_FULL.md §1.1 for why debug.SetPanicOnFault is the right
// substitute for a raw SIGSEGV handler in a cgo-free program.
func (e *engine) touch(fn func()) {
	for {
		addr, faulted := e.tryRun(fn)
		if !faulted {
			return
		}
		e.handleFault(addr)
	}
}

// faultAddr is satisfied by the runtime's fault panic value; it is how a
// recovered hardware fault carries the equivalent of siginfo_t.si_addr.
type faultAddr interface {
	Addr() uintptr
}

func (e *engine) tryRun(fn func()) (addr uintptr, faulted bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if fa, ok := r.(faultAddr); ok {
			addr, faulted = fa.Addr(), true
			return
		}
		// Not a fault we understand (a genuine nil pointer bug, etc.) —
		// this is not ours to handle, let it propagate.
		panic(r)
	}()
	debug.SetPanicOnFault(true)
	fn()
	return 0, false
}

// handleFault is spec.md §4.D steps 1–3: locate the covering record (fatal
// if none), then iterate materializing one page at a time until no record
// covers addr anymore. The loop is bounded by the current chain length,
// since each iteration eliminates at least one page's worth of coverage
// from some record.
func (e *engine) handleFault(addr uintptr) {
	if _, ok := e.pl.findCovering(addr); !ok {
		e.unmanagedFault(addr)
		return
	}
	for {
		idx, ok := e.pl.findCovering(addr)
		if !ok {
			return
		}
		e.materializeOnePage(idx, addr)
	}
}

// materializeOnePage performs spec.md §4.D.2: classify which page of record
// idx contains addr, copy exactly that page's worth of bytes, and rewrite
// (shrink, split, or remove) the record accordingly.
func (e *engine) materializeOnePage(idx int, addr uintptr) {
	r := e.pl.records[idx]

	sideBase := r.dst
	if inPageRange(r.src, r.size, addr) {
		sideBase = r.src
	}
	k := addr - sideBase

	firstPage := pageBase(r.src) == pageBase(r.src+k)
	lastPage := pageBase(r.src+uintptr(r.size)-1) == pageBase(r.src+k)

	var cs, cd uintptr
	var cn int

	switch {
	case firstPage && lastPage:
		// Single-page record: the whole thing goes in one shot.
		cs, cd, cn = r.src, r.dst, r.size

	case firstPage:
		cs, cd = r.src, r.dst
		cn = pageSize - int(r.src-pageBase(r.src))

	case lastPage:
		cs = pageBase(r.src + uintptr(r.size) - 1)
		cd = pageBase(r.dst + uintptr(r.size) - 1)
		cn = int((r.src + uintptr(r.size)) - cs)

	default: // middle page
		cs = pageBase(r.src + k)
		cd = pageBase(r.dst + k)
		cn = pageSize
	}

	e.realCopy(cd, cs, cn)

	switch {
	case firstPage && lastPage:
		e.pl.remove(idx)

	case firstPage:
		nr := &e.pl.records[idx]
		nr.src += uintptr(cn)
		nr.dst += uintptr(cn)
		nr.size -= cn

	case lastPage:
		nr := &e.pl.records[idx]
		nr.size -= cn

	default: // middle: split into [r.src, cs) and [cs+cn, r.src+r.size)
		tailSrc := cs + uintptr(cn)
		tailDst := cd + uintptr(cn)
		tailSize := int((r.src + uintptr(r.size)) - tailSrc)
		headSize := int(cs - r.src)

		nr := &e.pl.records[idx]
		nr.size = headSize
		e.insertRecord(tailSrc, tailDst, tailSize, idx)
	}
}

// insertRecord implements spec.md §4.C "insert": find a free slot, forcibly
// flushing the chain head to make room if the pool is full, then link the
// new record at chain end (after == noIndex) or immediately after afterIdx.
//
// The forced flush always evicts e.pl.head. A middle-page split (the only
// caller that passes a non-noIndex after) passes the record it just split —
// which, when that record is also the chain head, is the exact same slot
// the flush is about to evict. remove() has already unlinked that slot from
// the chain by the time linkAfter would run, so afterIdx no longer names a
// live chain position; linking after it would write records[idx].next = idx,
// a self-loop that leaves the new record allocated but unreachable from
// p.head. Handle that case by splicing the new record directly into the
// vacated head position instead of linking after a now-stale index.
func (e *engine) insertRecord(src, dst uintptr, size int, after int) int {
	idx := e.pl.freeSlot()
	if idx == -1 {
		victim := e.pl.head
		victimNext := e.pl.records[victim].next
		e.materializeFull(victim)
		e.pl.remove(victim)
		if victim == after {
			e.pl.records[victim] = record{src: src, dst: dst, size: size, inUse: true, next: victimNext}
			e.pl.head = victim
			return victim
		}
		idx = victim
	}
	e.pl.records[idx] = record{src: src, dst: dst, size: size, inUse: true, next: noIndex}
	e.pl.linkAfter(after, idx)
	return idx
}

// materializeFull copies an entire record's range in one shot — used only
// to force room in a full pool (spec.md §4.F "PoolFull").
func (e *engine) materializeFull(idx int) {
	r := e.pl.records[idx]
	e.realCopy(r.dst, r.src, r.size)
}

// realCopy is spec.md §4.D.2.d: widen both sides to writable, then transfer
// cn bytes. Both sides are left writable; the source's contents are
// untouched by the widening.
func (e *engine) realCopy(dst, src uintptr, n int) {
	_ = protect(src, n, ModeReadWrite)
	_ = protect(dst, n, ModeReadWrite)
	srcView := unsafe.Slice((*byte)(unsafe.Pointer(src)), n)
	dstView := unsafe.Slice((*byte)(unsafe.Pointer(dst)), n)
	copy(dstView, srcView)
}
