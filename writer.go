package pipecodec

import (
	"context"
	"encoding/binary"
	"math"
	"math/big"

	"golang.org/x/text/encoding"

	"github.com/rawbytedev/pipecodec/internal/alloc"
)

// BlockSource supplies memory blocks for streaming writes. An empty block
// signals no more data.
type BlockSource func() ([]byte, error)

// Writer is the binary writer surface over a PipeWriter. Encodes are
// single-shot: the caller supplies the whole value and backpressure at
// Flush is the only suspension point.
type Writer struct {
	pw PipeWriter
}

// NewWriter returns a Writer over pw.
func NewWriter(pw PipeWriter) *Writer {
	return &Writer{pw: pw}
}

// Pipe returns the underlying PipeWriter.
func (w *Writer) Pipe() PipeWriter { return w.pw }

// writeBytes copies p into the pipe's writable capacity in as many rounds
// as the grant size allows, flushing each round. It fails with
// ErrPipeClosed when the reader is gone before p is exhausted; completed
// reports a reader gone after the final flush, for callers with more data
// to send.
func (w *Writer) writeBytes(ctx context.Context, p []byte) (completed bool, err error) {
	for len(p) > 0 {
		buf := w.pw.Malloc(len(p))
		n := copy(buf, p)
		w.pw.MallocAck(n)
		p = p[n:]
		res, err := w.pw.Flush(ctx)
		if err != nil {
			return false, err
		}
		if res.Canceled {
			return false, ErrWriteCanceled
		}
		if res.Completed {
			if len(p) > 0 {
				return true, ErrPipeClosed
			}
			return true, nil
		}
	}
	return false, nil
}

// write is the single-shot form: the value either lands fully or errors.
func (w *Writer) write(ctx context.Context, p []byte) error {
	_, err := w.writeBytes(ctx, p)
	return err
}

func (w *Writer) WriteUint8(ctx context.Context, v uint8) error {
	return w.write(ctx, []byte{v})
}

func (w *Writer) WriteUint16(ctx context.Context, v uint16, order binary.ByteOrder) error {
	var b [2]byte
	order.PutUint16(b[:], v)
	return w.write(ctx, b[:])
}

func (w *Writer) WriteUint32(ctx context.Context, v uint32, order binary.ByteOrder) error {
	var b [4]byte
	order.PutUint32(b[:], v)
	return w.write(ctx, b[:])
}

func (w *Writer) WriteUint64(ctx context.Context, v uint64, order binary.ByteOrder) error {
	var b [8]byte
	order.PutUint64(b[:], v)
	return w.write(ctx, b[:])
}

func (w *Writer) WriteInt8(ctx context.Context, v int8) error {
	return w.WriteUint8(ctx, uint8(v))
}

func (w *Writer) WriteInt16(ctx context.Context, v int16, order binary.ByteOrder) error {
	return w.WriteUint16(ctx, uint16(v), order)
}

func (w *Writer) WriteInt32(ctx context.Context, v int32, order binary.ByteOrder) error {
	return w.WriteUint32(ctx, uint32(v), order)
}

func (w *Writer) WriteInt64(ctx context.Context, v int64, order binary.ByteOrder) error {
	return w.WriteUint64(ctx, uint64(v), order)
}

func (w *Writer) WriteFloat32(ctx context.Context, v float32, order binary.ByteOrder) error {
	return w.WriteUint32(ctx, math.Float32bits(v), order)
}

func (w *Writer) WriteFloat64(ctx context.Context, v float64, order binary.ByteOrder) error {
	return w.WriteUint64(ctx, math.Float64bits(v), order)
}

func (w *Writer) WriteBool(ctx context.Context, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return w.WriteUint8(ctx, b)
}

// WriteUvarint32 writes the 7-bit grouped encoding of v.
func (w *Writer) WriteUvarint32(ctx context.Context, v uint32) error {
	var b [MaxVarintLen32]byte
	return w.write(ctx, AppendUvarint32(b[:0], v))
}

// WriteBlock writes a length prefix in format followed by p.
func (w *Writer) WriteBlock(ctx context.Context, format LengthFormat, p []byte) error {
	var scratch [MaxVarintLen32]byte
	prefix, err := appendLength(scratch[:0], format, len(p))
	if err != nil {
		return err
	}
	if err := w.write(ctx, prefix); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	return w.write(ctx, p)
}

// WriteString writes s length-framed in enc. The encoded byte count is
// computed in a pre-pass so the prefix precedes the payload.
func (w *Writer) WriteString(ctx context.Context, format LengthFormat, s string, enc encoding.Encoding) error {
	encoded, release, err := encodeText(enc, s)
	if err != nil {
		return err
	}
	defer release()
	return w.WriteBlock(ctx, format, encoded)
}

// WriteCString writes s in enc followed by a zero terminator.
func (w *Writer) WriteCString(ctx context.Context, s string, enc encoding.Encoding) error {
	encoded, release, err := encodeText(enc, s)
	if err != nil {
		return err
	}
	defer release()
	if err := w.write(ctx, encoded); err != nil {
		return err
	}
	return w.WriteUint8(ctx, 0)
}

// WriteBigInt writes v's magnitude length-framed with its raw bytes laid
// out in order. The sign is not encoded.
func (w *Writer) WriteBigInt(ctx context.Context, format LengthFormat, v *big.Int, order binary.ByteOrder) error {
	raw := v.Bytes() // big-endian magnitude
	if len(raw) > 0 && isLittle(order) {
		buf := alloc.Scratch(len(raw))
		defer alloc.Release(buf)
		for i, b := range raw {
			buf[len(raw)-1-i] = b
		}
		raw = buf
	}
	return w.WriteBlock(ctx, format, raw)
}

// CopyFrom pulls blocks from src until an empty block, writing and flushing
// each in turn. It returns the bytes written; a reader gone mid-stream
// surfaces as ErrPipeClosed.
func (w *Writer) CopyFrom(ctx context.Context, src BlockSource) (int64, error) {
	var total int64
	for {
		block, err := src()
		if err != nil {
			return total, err
		}
		if len(block) == 0 {
			return total, nil
		}
		completed, err := w.writeBytes(ctx, block)
		if err != nil {
			return total, err
		}
		total += int64(len(block))
		if completed {
			return total, ErrPipeClosed
		}
	}
}

// WriteFormatted formats v with render and writes the result length-framed
// in enc. The value-to-text grammar belongs entirely to render.
func WriteFormatted[T any](ctx context.Context, w *Writer, format LengthFormat, enc encoding.Encoding, render func(T) string, v T) error {
	return w.WriteString(ctx, format, render(v), enc)
}
