package pipecodec

import (
	"context"
	"encoding/binary"
	"math"
)

// LengthFormat selects how a length prefix is framed.
type LengthFormat uint8

const (
	// Len32LE is a raw 32-bit little-endian prefix.
	Len32LE LengthFormat = iota
	// Len32BE is a raw 32-bit big-endian prefix.
	Len32BE
	// Len32Native is a raw 32-bit prefix in host byte order.
	Len32Native
	// LenUvarint is a 7-bit grouped varint prefix.
	LenUvarint
)

func (f LengthFormat) String() string {
	switch f {
	case Len32LE:
		return "len32le"
	case Len32BE:
		return "len32be"
	case Len32Native:
		return "len32native"
	case LenUvarint:
		return "lenuvarint"
	}
	return "unknown"
}

func (f LengthFormat) valid() bool { return f <= LenUvarint }

func (f LengthFormat) order() binary.ByteOrder {
	switch f {
	case Len32BE:
		return binary.BigEndian
	case Len32Native:
		return binary.NativeEndian
	default:
		return binary.LittleEndian
	}
}

// readLength decodes one length prefix. A malformed or negative length is an
// error, never clamped; an unsupported format is rejected before any I/O.
func readLength(ctx context.Context, pr PipeReader, format LengthFormat) (int, error) {
	if !format.valid() {
		return 0, ErrUnknownLengthFormat
	}
	if format == LenUvarint {
		v, err := ReadValue(ctx, pr, NewUvarint32Parser())
		if err != nil {
			return 0, err
		}
		if v > math.MaxInt32 {
			return 0, ErrNegativeLength
		}
		return int(v), nil
	}
	v, err := ReadValue(ctx, pr, NewInt32Parser(format.order()))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, ErrNegativeLength
	}
	return int(v), nil
}

// appendLength appends the prefix encoding of n to dst.
func appendLength(dst []byte, format LengthFormat, n int) ([]byte, error) {
	if !format.valid() {
		return dst, ErrUnknownLengthFormat
	}
	if n < 0 || n > math.MaxInt32 {
		return dst, ErrNegativeLength
	}
	if format == LenUvarint {
		return AppendUvarint32(dst, uint32(n)), nil
	}
	var scratch [4]byte
	format.order().PutUint32(scratch[:], uint32(n))
	return append(dst, scratch[:]...), nil
}

// lengthSize returns the encoded prefix size for n.
func lengthSize(format LengthFormat, n int) int {
	if format == LenUvarint {
		return Uvarint32Len(uint32(n))
	}
	return 4
}
