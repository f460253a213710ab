// Package alloc is the scratch-capacity seam between pipecodec and its
// allocator. Callers request spans for the duration of one operation and
// release them on every exit path.
package alloc

import "github.com/bytedance/gopkg/lang/mcache"

// Scratch returns a span of exactly size bytes backed by the shared malloc
// cache.
func Scratch(size int) []byte {
	return mcache.Malloc(size)
}

// Grow returns a span of at least size bytes holding buf's contents and
// releases buf.
func Grow(buf []byte, size int) []byte {
	if cap(buf) >= size {
		return buf[:size]
	}
	next := mcache.Malloc(size)
	copy(next, buf)
	mcache.Free(buf)
	return next
}

// Release returns a span obtained from Scratch or Grow.
func Release(buf []byte) {
	mcache.Free(buf)
}
