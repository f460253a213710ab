package pipecodec

import (
	"encoding/binary"
	"math"
)

// fixedParser decodes a value of known byte width into a scratch array and
// reinterprets it once filled. The ByteOrder given to the constructor picks
// the interpretation; binary.NativeEndian selects the host order.
type fixedParser[T any] struct {
	buf    [8]byte
	width  int
	filled int
	decode func([]byte) T
}

func newFixedParser[T any](width int, decode func([]byte) T) *fixedParser[T] {
	return &fixedParser[T]{width: width, decode: decode}
}

func (p *fixedParser[T]) Remaining() int { return p.width - p.filled }

func (p *fixedParser[T]) Append(chunk []byte) (int, error) {
	n := copy(p.buf[p.filled:p.width], chunk)
	p.filled += n
	return n, nil
}

func (p *fixedParser[T]) EndOfStream() error {
	if p.filled < p.width {
		return ErrTruncated
	}
	return nil
}

func (p *fixedParser[T]) Complete() (T, error) {
	if p.filled < p.width {
		var zero T
		return zero, ErrIncomplete
	}
	return p.decode(p.buf[:p.width]), nil
}

// NewUint8Parser returns a parser for a single unsigned byte.
func NewUint8Parser() Parser[uint8] {
	return newFixedParser(1, func(b []byte) uint8 { return b[0] })
}

// NewUint16Parser returns a parser for a 16-bit unsigned value in order.
func NewUint16Parser(order binary.ByteOrder) Parser[uint16] {
	return newFixedParser(2, order.Uint16)
}

// NewUint32Parser returns a parser for a 32-bit unsigned value in order.
func NewUint32Parser(order binary.ByteOrder) Parser[uint32] {
	return newFixedParser(4, order.Uint32)
}

// NewUint64Parser returns a parser for a 64-bit unsigned value in order.
func NewUint64Parser(order binary.ByteOrder) Parser[uint64] {
	return newFixedParser(8, order.Uint64)
}

// NewInt8Parser returns a parser for a signed byte.
func NewInt8Parser() Parser[int8] {
	return newFixedParser(1, func(b []byte) int8 { return int8(b[0]) })
}

// NewInt16Parser returns a parser for a 16-bit signed value in order.
func NewInt16Parser(order binary.ByteOrder) Parser[int16] {
	return newFixedParser(2, func(b []byte) int16 { return int16(order.Uint16(b)) })
}

// NewInt32Parser returns a parser for a 32-bit signed value in order.
func NewInt32Parser(order binary.ByteOrder) Parser[int32] {
	return newFixedParser(4, func(b []byte) int32 { return int32(order.Uint32(b)) })
}

// NewInt64Parser returns a parser for a 64-bit signed value in order.
func NewInt64Parser(order binary.ByteOrder) Parser[int64] {
	return newFixedParser(8, func(b []byte) int64 { return int64(order.Uint64(b)) })
}

// NewFloat32Parser returns a parser for an IEEE 754 single in order.
func NewFloat32Parser(order binary.ByteOrder) Parser[float32] {
	return newFixedParser(4, func(b []byte) float32 { return math.Float32frombits(order.Uint32(b)) })
}

// NewFloat64Parser returns a parser for an IEEE 754 double in order.
func NewFloat64Parser(order binary.ByteOrder) Parser[float64] {
	return newFixedParser(8, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) })
}

// NewBoolParser returns a parser for a single byte where nonzero is true.
func NewBoolParser() Parser[bool] {
	return newFixedParser(1, func(b []byte) bool { return b[0] != 0 })
}
