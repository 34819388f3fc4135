//go:build linux

package lazycopy

import "testing"

func TestPageBase(t *testing.T) {
	base := uintptr(0x10000)
	tests := []struct {
		addr uintptr
		want uintptr
	}{
		{base, base},
		{base + 1, base},
		{base + uintptr(pageSize) - 1, base},
		{base + uintptr(pageSize), base + uintptr(pageSize)},
	}
	for _, tt := range tests {
		if got := pageBase(tt.addr); got != tt.want {
			t.Errorf("pageBase(0x%x) = 0x%x, want 0x%x", tt.addr, got, tt.want)
		}
	}
}

func TestInByteRange(t *testing.T) {
	start := uintptr(0x1000)
	size := 0x100
	if !inByteRange(start, size, start) {
		t.Error("start should be in range")
	}
	if !inByteRange(start, size, start+uintptr(size)-1) {
		t.Error("last byte should be in range")
	}
	if inByteRange(start, size, start+uintptr(size)) {
		t.Error("start+size should be exclusive")
	}
	if inByteRange(start, size, start-1) {
		t.Error("byte before start should not be in range")
	}
}

func TestInPageRange(t *testing.T) {
	base := pageBase(0x20000)
	start := base + 0x400
	size := 0x200 // entirely within one page

	if !inPageRange(start, size, base) {
		t.Error("page base should be in page range of a sub-page byte range")
	}
	if !inPageRange(start, size, base+uintptr(pageSize)-1) {
		t.Error("last byte of the same page should be in page range")
	}
	if inPageRange(start, size, base+uintptr(pageSize)) {
		t.Error("next page should not be in page range")
	}

	// A range spanning two pages touches both.
	twoPageStart := base + uintptr(pageSize) - 0x10
	twoPageSize := 0x20
	if !inPageRange(twoPageStart, twoPageSize, base) {
		t.Error("should touch the first page")
	}
	if !inPageRange(twoPageStart, twoPageSize, base+uintptr(pageSize)) {
		t.Error("should touch the second page")
	}
}

func TestPageCount(t *testing.T) {
	base := pageBase(0x30000)
	if got := pageCount(base, pageSize); got != 1 {
		t.Errorf("pageCount(one page) = %d, want 1", got)
	}
	if got := pageCount(base, pageSize+1); got != 2 {
		t.Errorf("pageCount(one page + 1 byte) = %d, want 2", got)
	}
	if got := pageCount(base+uintptr(pageSize)-1, 2); got != 2 {
		t.Errorf("pageCount(straddling two pages) = %d, want 2", got)
	}
}
