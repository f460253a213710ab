package mempipe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/pipecodec"
)

var (
	_ pipecodec.PipeReader = (*Pipe)(nil)
	_ pipecodec.PipeWriter = (*Pipe)(nil)
)

func flatten(seq pipecodec.ByteSequence) []byte {
	out := make([]byte, seq.Len())
	seq.CopyTo(out)
	return out
}

func TestExaminedNotReoffered(t *testing.T) {
	p := New()
	p.WriteBytes([]byte{1, 2, 3})

	res, ok := p.TryRead()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, flatten(res.Seq))

	// consume one byte, examine the rest
	p.Advance(1, 3)
	_, ok = p.TryRead()
	assert.False(t, ok, "examined bytes must not be re-offered")

	// new data makes the retained bytes visible again
	p.WriteBytes([]byte{4})
	res, ok = p.TryRead()
	require.True(t, ok)
	assert.Equal(t, []byte{2, 3, 4}, flatten(res.Seq))
}

func TestSegmentBoundariesPreserved(t *testing.T) {
	p := New()
	p.WriteBytes([]byte{1, 2})
	p.WriteBytes([]byte{3})

	res, ok := p.TryRead()
	require.True(t, ok)
	segs := res.Seq.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, []byte{1, 2}, segs[0])
	assert.Equal(t, []byte{3}, segs[1])
}

func TestAdvancePartialSegment(t *testing.T) {
	p := New()
	p.WriteBytes([]byte{1, 2, 3, 4})
	res, _ := p.TryRead()
	require.Equal(t, 4, res.Seq.Len())

	p.Advance(2, 2)
	p.WriteBytes([]byte{5})
	res, ok := p.TryRead()
	require.True(t, ok)
	assert.Equal(t, []byte{3, 4, 5}, flatten(res.Seq))
}

func TestCancelIsOneShot(t *testing.T) {
	p := New()
	p.WriteBytes([]byte{9})
	p.CancelRead()

	res, ok := p.TryRead()
	require.True(t, ok)
	assert.True(t, res.Canceled)
	p.Advance(0, 0)

	res, ok = p.TryRead()
	require.True(t, ok)
	assert.False(t, res.Canceled)
	assert.Equal(t, []byte{9}, flatten(res.Seq))
}

func TestCompleteDrain(t *testing.T) {
	p := New()
	p.WriteBytes([]byte{1, 2})
	p.Complete()

	res, ok := p.TryRead()
	require.True(t, ok)
	assert.True(t, res.Completed)
	assert.Equal(t, 2, res.Seq.Len())
	p.Advance(2, 2)

	// still reports completion once drained
	res, ok = p.TryRead()
	require.True(t, ok)
	assert.True(t, res.Completed)
	assert.Zero(t, res.Seq.Len())
}

func TestReadWakesOnWrite(t *testing.T) {
	p := New()
	done := make(chan pipecodec.ReadResult, 1)
	go func() {
		res, err := p.Read(context.Background())
		if err == nil {
			done <- res
		}
	}()
	time.Sleep(5 * time.Millisecond)
	p.WriteBytes([]byte{7})

	select {
	case res := <-done:
		assert.Equal(t, []byte{7}, flatten(res.Seq))
	case <-time.After(time.Second):
		t.Fatal("read did not wake")
	}
}

func TestMallocAckPartial(t *testing.T) {
	p := New()
	buf := p.Malloc(10)
	require.GreaterOrEqual(t, len(buf), 10)
	copy(buf, "abcd")
	p.MallocAck(4)
	_, err := p.Flush(context.Background())
	require.NoError(t, err)

	res, ok := p.TryRead()
	require.True(t, ok)
	assert.Equal(t, []byte("abcd"), flatten(res.Seq))
}

func TestMallocGrantCapped(t *testing.T) {
	p := NewOptions(Options{MaxChunk: 8})
	buf := p.Malloc(100)
	assert.Equal(t, 8, len(buf))
}

func TestFlushAfterReaderGone(t *testing.T) {
	p := New()
	p.CompleteReader()
	buf := p.Malloc(4)
	copy(buf, "data")
	p.MallocAck(4)
	res, err := p.Flush(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Completed)

	_, ok := p.TryRead()
	assert.False(t, ok, "discarded data must not surface")
}
