// Package lazycopy implements a lazy, copy-on-access memory copy: LazyCopy
// returns immediately and the byte transfer is deferred until the next touch
// of either region, materialized a page at a time by a fault handler.
package lazycopy

import "golang.org/x/sys/unix"

// pageSize is queried once, at package load, and never changes afterward.
var pageSize = unix.Getpagesize()

// PageSize reports the host page size lazycopy materializes in units of.
func PageSize() int { return pageSize }

// pageBase rounds addr down to the start of its containing page.
func pageBase(addr uintptr) uintptr {
	mask := uintptr(pageSize - 1)
	return addr &^ mask
}

// inByteRange reports whether a lies in [start, start+size).
func inByteRange(start uintptr, size int, a uintptr) bool {
	return a >= start && a < start+uintptr(size)
}

// inPageRange reports whether a lies on any page touched by the byte range
// [start, start+size). Equivalently: the page containing a lies between the
// page containing start and the page containing the range's last byte.
func inPageRange(start uintptr, size int, a uintptr) bool {
	if size <= 0 {
		return false
	}
	lastByte := start + uintptr(size) - 1
	pa := pageBase(a)
	return pageBase(start) <= pa && pa <= pageBase(lastByte)
}

// pageCount returns how many pages the byte range [start, start+size) spans.
func pageCount(start uintptr, size int) int {
	if size <= 0 {
		return 0
	}
	lastByte := start + uintptr(size) - 1
	return int((pageBase(lastByte)-pageBase(start))/uintptr(pageSize)) + 1
}
