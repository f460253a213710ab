package pipecodec

import (
	"context"
	"encoding/binary"
	"math/big"

	"golang.org/x/text/encoding"

	"github.com/rawbytedev/pipecodec/internal/alloc"
)

// bigIntParser collects a known number of raw magnitude bytes and
// constructs an arbitrary-precision integer honoring the requested byte
// order. No text representation is involved.
type bigIntParser struct {
	buf       []byte
	off       int
	remaining int
	little    bool
}

// NewBigIntParser returns a parser for a byteLen-byte unsigned magnitude in
// the given order.
func NewBigIntParser(byteLen int, order binary.ByteOrder) Parser[*big.Int] {
	return &bigIntParser{
		buf:       alloc.Scratch(byteLen),
		remaining: byteLen,
		little:    isLittle(order),
	}
}

func (p *bigIntParser) Remaining() int { return p.remaining }

func (p *bigIntParser) Append(chunk []byte) (int, error) {
	if len(chunk) > p.remaining {
		chunk = chunk[:p.remaining]
	}
	copy(p.buf[p.off:], chunk)
	p.off += len(chunk)
	p.remaining -= len(chunk)
	return len(chunk), nil
}

func (p *bigIntParser) EndOfStream() error {
	if p.remaining > 0 {
		alloc.Release(p.buf)
		return ErrTruncated
	}
	return nil
}

func (p *bigIntParser) Complete() (*big.Int, error) {
	if p.remaining > 0 {
		return nil, ErrIncomplete
	}
	if p.little {
		reverse(p.buf[:p.off])
	}
	v := new(big.Int).SetBytes(p.buf[:p.off])
	alloc.Release(p.buf)
	p.buf = nil
	return v, nil
}

// isLittle probes whether order maps the first byte to the low-order bits.
func isLittle(order binary.ByteOrder) bool {
	return order.Uint16([]byte{1, 0}) == 1
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// ReadFormatted reads a length-framed string in enc and hands it to parse.
// The text-to-value grammar (number formats, temporal layouts, culture
// rules) belongs entirely to parse; only framing and buffer lifetime are
// handled here.
func ReadFormatted[T any](ctx context.Context, pr PipeReader, format LengthFormat, enc encoding.Encoding, parse func(string) (T, error)) (T, error) {
	var zero T
	s, err := readFramedString(ctx, pr, format, enc)
	if err != nil {
		return zero, err
	}
	return parse(s)
}

func readFramedString(ctx context.Context, pr PipeReader, format LengthFormat, enc encoding.Encoding) (string, error) {
	n, err := readLength(ctx, pr, format)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return ReadValue(ctx, pr, NewTextParser(enc, n))
}
