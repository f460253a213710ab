package pipecodec

import (
	"bytes"
	"slices"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/rawbytedev/pipecodec/internal/alloc"
)

// textConverter accumulates decoded UTF-8 output from a streaming
// transformer. A trailing split multi-byte sequence is never buffered here;
// it is declined back to the driver and re-delivered together with its
// continuation bytes.
type textConverter struct {
	dec *encoding.Decoder
	out []byte
}

// convert feeds src through the decoder, growing out as needed. It returns
// transform.ErrShortSrc when src ends inside a multi-byte sequence and
// atEOF is false.
func (c *textConverter) convert(src []byte, atEOF bool) (int, error) {
	consumed := 0
	for {
		if cap(c.out)-len(c.out) < utf8.UTFMax {
			c.out = slices.Grow(c.out, len(src)+utf8.UTFMax)
		}
		nDst, nSrc, err := c.dec.Transform(c.out[len(c.out):cap(c.out)], src, atEOF)
		c.out = c.out[:len(c.out)+nDst]
		consumed += nSrc
		src = src[nSrc:]
		switch err {
		case nil:
			if len(src) == 0 {
				return consumed, nil
			}
		case transform.ErrShortDst:
			// grow and retry
		default:
			return consumed, err
		}
	}
}

// textParser decodes a length-framed character region. The final Append
// (when cumulative consumed bytes reach the frame length) flushes the
// decoder so a malformed trailing sequence decodes to the replacement rune
// instead of stalling.
type textParser struct {
	textConverter
	remaining int
}

// NewTextParser returns a parser that decodes exactly byteLen encoded bytes
// of enc into a string.
func NewTextParser(enc encoding.Encoding, byteLen int) Parser[string] {
	return &textParser{
		textConverter: textConverter{dec: enc.NewDecoder()},
		remaining:     byteLen,
	}
}

func (p *textParser) Remaining() int { return p.remaining }

func (p *textParser) Append(chunk []byte) (int, error) {
	if len(chunk) > p.remaining {
		chunk = chunk[:p.remaining]
	}
	atEOF := len(chunk) == p.remaining
	n, err := p.convert(chunk, atEOF)
	p.remaining -= n
	if err == transform.ErrShortSrc && !atEOF {
		// Split multi-byte sequence: decline, the driver re-delivers it
		// once the continuation bytes arrive.
		return n, nil
	}
	return n, err
}

func (p *textParser) EndOfStream() error {
	if p.remaining > 0 {
		return ErrTruncated
	}
	return nil
}

func (p *textParser) Complete() (string, error) {
	if p.remaining > 0 {
		return "", ErrIncomplete
	}
	return string(p.out), nil
}

// cstringParser decodes until a single zero byte. The terminator is
// consumed but not decoded. Pipe completion without a terminator finishes
// normally with the content decoded so far; this is intentional streaming
// semantics, not an error.
type cstringParser struct {
	textConverter
	done bool
}

// NewCStringParser returns a parser for a zero-terminated character region
// in enc.
func NewCStringParser(enc encoding.Encoding) Parser[string] {
	return &cstringParser{textConverter: textConverter{dec: enc.NewDecoder()}}
}

func (p *cstringParser) Remaining() int {
	if p.done {
		return 0
	}
	return Unbounded
}

func (p *cstringParser) Append(chunk []byte) (int, error) {
	i := bytes.IndexByte(chunk, 0)
	if i < 0 {
		n, err := p.convert(chunk, false)
		if err == transform.ErrShortSrc {
			return n, nil
		}
		return n, err
	}
	n, err := p.convert(chunk[:i], true)
	if err != nil {
		return n, err
	}
	if n < i {
		return n, nil
	}
	p.done = true
	return i + 1, nil
}

func (p *cstringParser) EndOfStream() error {
	p.done = true
	return nil
}

func (p *cstringParser) Complete() (string, error) {
	if !p.done {
		return "", ErrIncomplete
	}
	return string(p.out), nil
}

// encodeText converts s into enc's byte representation using scratch
// capacity from the allocator. release must be called once the bytes have
// been written out.
func encodeText(enc encoding.Encoding, s string) (buf []byte, release func(), err error) {
	src := stringBytes(s)
	t := enc.NewEncoder()
	dst := alloc.Scratch(len(s) + utf8.UTFMax)
	n := 0
	for {
		nDst, nSrc, err := t.Transform(dst[n:], src, true)
		n += nDst
		src = src[nSrc:]
		switch err {
		case nil:
			if len(src) == 0 {
				return dst[:n], func() { alloc.Release(dst) }, nil
			}
		case transform.ErrShortDst:
			dst = alloc.Grow(dst, 2*cap(dst)+utf8.UTFMax)
		default:
			alloc.Release(dst)
			return nil, nil, err
		}
	}
}

// stringBytes aliases the bytes of s without copying; the result must not
// be written to or retained.
func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
