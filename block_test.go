package pipecodec_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/pipecodec"
)

func TestCopyAcrossFragments(t *testing.T) {
	ctx := context.Background()
	data := []byte("copied across many fragments")
	forEachSplit(t, data, func(t *testing.T, r *pipecodec.Reader) {
		dst := make([]byte, len(data))
		require.NoError(t, r.CopyTo(ctx, dst))
		assert.Equal(t, data, dst)
	})
}

func TestCopyFuncSeesSegments(t *testing.T) {
	ctx := context.Background()
	data := []byte("abcdefghij")
	r := pipecodec.NewReader(prefill(data[:3], data[3:7], data[7:]))

	var got []byte
	var calls int
	require.NoError(t, r.CopyFunc(ctx, len(data), func(chunk []byte) error {
		calls++
		got = append(got, chunk...)
		return nil
	}))
	assert.Equal(t, data, got)
	// one call per pipe segment, no intermediate re-buffering
	assert.Equal(t, 3, calls)
}

func TestSkipThenRead(t *testing.T) {
	ctx := context.Background()
	junk := []byte{9, 9, 9, 9, 9}
	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], 0xCAFEBABE)
	data := append(append([]byte{}, junk...), tail[:]...)

	forEachSplit(t, data, func(t *testing.T, r *pipecodec.Reader) {
		require.NoError(t, r.Skip(ctx, len(junk)))
		v, err := r.ReadUint32(ctx, binary.BigEndian)
		require.NoError(t, err)
		assert.Equal(t, uint32(0xCAFEBABE), v)
	})
}

func TestSkipZero(t *testing.T) {
	ctx := context.Background()
	r := pipecodec.NewReader(prefill([]byte{0x07}))
	require.NoError(t, r.Skip(ctx, 0))
	v, err := r.ReadUint8(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x07), v)
}

func TestSkipTruncated(t *testing.T) {
	ctx := context.Background()
	err := pipecodec.NewReader(prefill([]byte{1, 2})).Skip(ctx, 5)
	require.ErrorIs(t, err, pipecodec.ErrTruncated)
}

func TestNegativeCountRejectedBeforeIO(t *testing.T) {
	ctx := context.Background()
	r := pipecodec.NewReader(prefill([]byte{1, 2, 3}))
	require.ErrorIs(t, r.Skip(ctx, -1), pipecodec.ErrNegativeCount)
	require.ErrorIs(t, r.CopyFunc(ctx, -1, func([]byte) error { return nil }), pipecodec.ErrNegativeCount)

	// the pipe was not touched
	v, err := r.ReadUint8(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)
}

func TestCopyFuncConsumerError(t *testing.T) {
	ctx := context.Background()
	boom := assert.AnError
	err := pipecodec.NewReader(prefill([]byte("abcdef"))).CopyFunc(ctx, 6, func([]byte) error { return boom })
	require.ErrorIs(t, err, boom)
}
