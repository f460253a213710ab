package pipecodec

import (
	"context"
	"encoding/binary"
	"hash"
	"math/big"

	"golang.org/x/text/encoding"
)

// Reader is the binary reader surface over a PipeReader. Every call names
// its byte order or length format explicitly; nothing is implicit state.
// A Reader is bound to a single logical consumer; concurrent calls are
// undefined behavior.
type Reader struct {
	pr PipeReader
}

// NewReader returns a Reader over pr.
func NewReader(pr PipeReader) *Reader {
	return &Reader{pr: pr}
}

// Pipe returns the underlying PipeReader for use with the generic
// package-level entry points.
func (r *Reader) Pipe() PipeReader { return r.pr }

func (r *Reader) ReadUint8(ctx context.Context) (uint8, error) {
	return ReadValue(ctx, r.pr, NewUint8Parser())
}

func (r *Reader) ReadUint16(ctx context.Context, order binary.ByteOrder) (uint16, error) {
	return ReadValue(ctx, r.pr, NewUint16Parser(order))
}

func (r *Reader) ReadUint32(ctx context.Context, order binary.ByteOrder) (uint32, error) {
	return ReadValue(ctx, r.pr, NewUint32Parser(order))
}

func (r *Reader) ReadUint64(ctx context.Context, order binary.ByteOrder) (uint64, error) {
	return ReadValue(ctx, r.pr, NewUint64Parser(order))
}

func (r *Reader) ReadInt8(ctx context.Context) (int8, error) {
	return ReadValue(ctx, r.pr, NewInt8Parser())
}

func (r *Reader) ReadInt16(ctx context.Context, order binary.ByteOrder) (int16, error) {
	return ReadValue(ctx, r.pr, NewInt16Parser(order))
}

func (r *Reader) ReadInt32(ctx context.Context, order binary.ByteOrder) (int32, error) {
	return ReadValue(ctx, r.pr, NewInt32Parser(order))
}

func (r *Reader) ReadInt64(ctx context.Context, order binary.ByteOrder) (int64, error) {
	return ReadValue(ctx, r.pr, NewInt64Parser(order))
}

func (r *Reader) ReadFloat32(ctx context.Context, order binary.ByteOrder) (float32, error) {
	return ReadValue(ctx, r.pr, NewFloat32Parser(order))
}

func (r *Reader) ReadFloat64(ctx context.Context, order binary.ByteOrder) (float64, error) {
	return ReadValue(ctx, r.pr, NewFloat64Parser(order))
}

func (r *Reader) ReadBool(ctx context.Context) (bool, error) {
	return ReadValue(ctx, r.pr, NewBoolParser())
}

// ReadUvarint32 reads one 7-bit grouped varint.
func (r *Reader) ReadUvarint32(ctx context.Context) (uint32, error) {
	return ReadValue(ctx, r.pr, NewUvarint32Parser())
}

// ReadBlock reads a length-framed byte block. A zero length returns an
// empty slice without touching the payload path.
func (r *Reader) ReadBlock(ctx context.Context, format LengthFormat) ([]byte, error) {
	n, err := readLength(ctx, r.pr, format)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	dst := make([]byte, n)
	if _, err := ReadValue(ctx, r.pr, NewCopyParser(dst)); err != nil {
		return nil, err
	}
	return dst, nil
}

// ReadString reads a length-framed string in enc. Zero length is the empty
// string and short-circuits the payload codec.
func (r *Reader) ReadString(ctx context.Context, format LengthFormat, enc encoding.Encoding) (string, error) {
	return readFramedString(ctx, r.pr, format, enc)
}

// ReadCString reads a zero-terminated string in enc. The terminator is
// consumed but excluded; if the pipe completes with no terminator the
// content decoded so far is returned without error.
func (r *Reader) ReadCString(ctx context.Context, enc encoding.Encoding) (string, error) {
	return ReadValue(ctx, r.pr, NewCStringParser(enc))
}

// ReadBigInt reads a length-framed arbitrary-precision unsigned magnitude
// whose raw bytes are laid out in order.
func (r *Reader) ReadBigInt(ctx context.Context, format LengthFormat, order binary.ByteOrder) (*big.Int, error) {
	n, err := readLength(ctx, r.pr, format)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(big.Int), nil
	}
	return ReadValue(ctx, r.pr, NewBigIntParser(n, order))
}

// Hash feeds the next n bytes into h and returns the digest.
func (r *Reader) Hash(ctx context.Context, n int, h hash.Hash) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	return ReadValue(ctx, r.pr, NewHashParser(h, n))
}

// HashToEnd feeds every remaining byte of the pipe into h and returns the
// digest once the pipe completes.
func (r *Reader) HashToEnd(ctx context.Context, h hash.Hash) ([]byte, error) {
	return ReadValue(ctx, r.pr, NewHashToEndParser(h))
}

// CopyTo fills dst from the pipe, failing with ErrTruncated if the pipe
// completes first.
func (r *Reader) CopyTo(ctx context.Context, dst []byte) error {
	_, err := ReadValue(ctx, r.pr, NewCopyParser(dst))
	return err
}

// CopyFunc feeds exactly n bytes to consume, one pipe segment at a time,
// without intermediate buffering.
func (r *Reader) CopyFunc(ctx context.Context, n int, consume func([]byte) error) error {
	if n < 0 {
		return ErrNegativeCount
	}
	_, err := ReadValue(ctx, r.pr, NewConsumeParser(n, consume))
	return err
}

// Skip discards exactly n bytes.
func (r *Reader) Skip(ctx context.Context, n int) error {
	if n < 0 {
		return ErrNegativeCount
	}
	_, err := ReadValue(ctx, r.pr, NewSkipParser(n))
	return err
}
