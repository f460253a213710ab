package pipecodec_test

import (
	"context"
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/pipecodec"
)

func TestVarint300(t *testing.T) {
	encoded := pipecodec.AppendUvarint32(nil, 300)
	require.Equal(t, []byte{0xAC, 0x02}, encoded)

	ctx := context.Background()
	forEachSplit(t, encoded, func(t *testing.T, r *pipecodec.Reader) {
		v, err := r.ReadUvarint32(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(300), v)
	})
}

func TestVarintBounds(t *testing.T) {
	ctx := context.Background()
	for _, v := range []uint32{0, 1, 127, 128, 300, 16383, 16384, math.MaxUint32} {
		encoded := pipecodec.AppendUvarint32(nil, v)
		require.LessOrEqual(t, len(encoded), pipecodec.MaxVarintLen32)
		require.Equal(t, pipecodec.Uvarint32Len(v), len(encoded))

		got, err := pipecodec.NewReader(prefill(encoded)).ReadUvarint32(ctx)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarintTooLong(t *testing.T) {
	ctx := context.Background()
	// five continuation bytes and no terminator
	r := pipecodec.NewReader(prefill([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}))
	_, err := r.ReadUvarint32(ctx)
	require.ErrorIs(t, err, pipecodec.ErrVarIntTooLong)
}

func TestVarintStopsAtTerminator(t *testing.T) {
	ctx := context.Background()
	// the varint ends after one byte even though more bytes are buffered;
	// the leftover byte belongs to the next read
	r := pipecodec.NewReader(prefill([]byte{0x01, 0xFF}))
	v, err := r.ReadUvarint32(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)

	next, err := r.ReadUint8(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), next)
}

func TestVarintTruncated(t *testing.T) {
	ctx := context.Background()
	r := pipecodec.NewReader(prefill([]byte{0x80}))
	_, err := r.ReadUvarint32(ctx)
	require.ErrorIs(t, err, pipecodec.ErrTruncated)
}

func TestVarintQuickRoundTrip(t *testing.T) {
	ctx := context.Background()
	condition := func(v uint32) bool {
		got, err := pipecodec.NewReader(prefill(pipecodec.AppendUvarint32(nil, v))).ReadUvarint32(ctx)
		return err == nil && got == v
	}
	require.NoError(t, quick.Check(condition, nil))
}

func FuzzVarintRoundTrip(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(300))
	f.Add(uint32(math.MaxUint32))
	f.Fuzz(func(t *testing.T, v uint32) {
		got, err := pipecodec.NewReader(prefill(pipecodec.AppendUvarint32(nil, v))).ReadUvarint32(context.Background())
		require.NoError(t, err)
		require.Equal(t, v, got)
	})
}
