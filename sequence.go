package pipecodec

import "bytes"

// ByteSequence is an ordered view over currently buffered, unconsumed bytes.
// The bytes may live in several non-contiguous segments; the sequence never
// copies them. A sequence is only valid until the read that produced it is
// committed with Advance.
type ByteSequence struct {
	segs [][]byte
	size int
}

// NewByteSequence builds a sequence over segs. The segments are aliased,
// not copied.
func NewByteSequence(segs ...[]byte) ByteSequence {
	s := ByteSequence{}
	for _, seg := range segs {
		if len(seg) == 0 {
			continue
		}
		s.segs = append(s.segs, seg)
		s.size += len(seg)
	}
	return s
}

// Len returns the total byte count across all segments.
func (s ByteSequence) Len() int { return s.size }

// Segments returns the underlying segments in order. Callers must not
// retain them past the current read.
func (s ByteSequence) Segments() [][]byte { return s.segs }

// Slice returns the prefix of n bytes as a new sequence. n beyond Len
// returns the whole sequence.
func (s ByteSequence) Slice(n int) ByteSequence {
	if n >= s.size {
		return s
	}
	out := ByteSequence{size: n}
	for _, seg := range s.segs {
		if n <= 0 {
			break
		}
		if n < len(seg) {
			out.segs = append(out.segs, seg[:n])
			break
		}
		out.segs = append(out.segs, seg)
		n -= len(seg)
	}
	return out
}

// IndexByte returns the offset of the first occurrence of c, or -1.
// Used for terminator scanning.
func (s ByteSequence) IndexByte(c byte) int {
	base := 0
	for _, seg := range s.segs {
		if i := bytes.IndexByte(seg, c); i >= 0 {
			return base + i
		}
		base += len(seg)
	}
	return -1
}

// CopyTo copies up to len(dst) bytes from the front of the sequence into
// dst and returns the count copied.
func (s ByteSequence) CopyTo(dst []byte) int {
	n := 0
	for _, seg := range s.segs {
		if n == len(dst) {
			break
		}
		n += copy(dst[n:], seg)
	}
	return n
}
