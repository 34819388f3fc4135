//go:build linux

package lazycopy

import "testing"

// These exercise pool bookkeeping directly with fabricated addresses; no
// record here is ever dereferenced, so no real mapping is required.

func TestPoolInsertAppendsAtTail(t *testing.T) {
	p := newPool(4)
	a := mustSlot(t, p, 0x1000, 0x2000, 0x100)
	p.records[a] = record{src: 0x1000, dst: 0x2000, size: 0x100, inUse: true, next: noIndex}
	p.linkAfter(noIndex, a)
	b := mustSlot(t, p, 0x3000, 0x4000, 0x100)
	p.records[b] = record{src: 0x3000, dst: 0x4000, size: 0x100, inUse: true, next: noIndex}
	p.linkAfter(noIndex, b)

	if p.head != a {
		t.Fatalf("head = %d, want %d (insertion order)", p.head, a)
	}
	if p.records[a].next != b {
		t.Fatalf("records[a].next = %d, want %d", p.records[a].next, b)
	}
	if got := p.chainLen(); got != 2 {
		t.Fatalf("chainLen() = %d, want 2", got)
	}
}

func TestPoolInsertAfterSplicesMiddle(t *testing.T) {
	p := newPool(4)
	a := 0
	b := 1
	p.records[a] = record{src: 0x1000, dst: 0x2000, size: 0x100, inUse: true, next: noIndex}
	p.head = a
	p.records[b] = record{src: 0x5000, dst: 0x6000, size: 0x100, inUse: true, next: noIndex}
	p.linkAfter(a, b)

	if p.records[a].next != b {
		t.Fatalf("records[a].next = %d, want %d", p.records[a].next, b)
	}
	if p.records[b].next != noIndex {
		t.Fatalf("records[b].next = %d, want noIndex", p.records[b].next)
	}
}

func TestPoolRemoveUnlinksHead(t *testing.T) {
	p := newPool(4)
	p.records[0] = record{src: 0x1000, dst: 0x2000, size: 0x100, inUse: true, next: 1}
	p.records[1] = record{src: 0x3000, dst: 0x4000, size: 0x100, inUse: true, next: noIndex}
	p.head = 0

	p.remove(0)

	if p.head != 1 {
		t.Fatalf("head = %d, want 1 after removing old head", p.head)
	}
	if p.records[0].inUse {
		t.Fatal("removed slot should be marked free")
	}
}

func TestPoolRemoveUnlinksMiddle(t *testing.T) {
	p := newPool(4)
	p.records[0] = record{src: 0x1000, size: 0x100, inUse: true, next: 1}
	p.records[1] = record{src: 0x2000, size: 0x100, inUse: true, next: 2}
	p.records[2] = record{src: 0x3000, size: 0x100, inUse: true, next: noIndex}
	p.head = 0

	p.remove(1)

	if p.records[0].next != 2 {
		t.Fatalf("records[0].next = %d, want 2", p.records[0].next)
	}
	if got := p.chainLen(); got != 2 {
		t.Fatalf("chainLen() = %d, want 2", got)
	}
}

func TestPoolFindCoveringFirstMatchWins(t *testing.T) {
	p := newPool(4)
	// Two overlapping records touching the same page at 0x1000; R1 (index
	// 0) was inserted first and must be the one returned.
	p.records[0] = record{src: 0x1000, size: pageSize, inUse: true, next: 1}
	p.records[1] = record{src: 0x1000, size: pageSize, inUse: true, next: noIndex}
	p.head = 0

	idx, ok := p.findCovering(0x1000)
	if !ok || idx != 0 {
		t.Fatalf("findCovering = (%d, %v), want (0, true): insertion-order match required", idx, ok)
	}
}

func TestPoolFindCoveringNoMatch(t *testing.T) {
	p := newPool(4)
	p.records[0] = record{src: 0x1000, size: 0x10, inUse: true, next: noIndex}
	p.head = 0

	if _, ok := p.findCovering(0x50000); ok {
		t.Fatal("expected no covering record for an unrelated address")
	}
}

func TestPoolFreeSlotExhaustion(t *testing.T) {
	p := newPool(2)
	p.records[0] = record{inUse: true}
	p.records[1] = record{inUse: true}
	if slot := p.freeSlot(); slot != -1 {
		t.Fatalf("freeSlot() = %d, want -1 when pool is full", slot)
	}
}

// mustSlot is a tiny helper that just asserts a pool has room; it exists to
// keep the append tests above free of repeated capacity checks.
func mustSlot(t *testing.T, p *pool, src, dst uintptr, size int) int {
	t.Helper()
	idx := p.freeSlot()
	if idx == -1 {
		t.Fatalf("pool unexpectedly full (capacity %d)", p.capacity)
	}
	return idx
}
