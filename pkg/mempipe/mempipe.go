// Package mempipe is an in-memory, single-reader/single-writer pipe
// implementing the pipecodec channel contracts. Data published by the
// writer stays segmented exactly as flushed, so tests and loopback callers
// can control how a stream is fragmented.
package mempipe

import (
	"context"
	"sync"

	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/rawbytedev/pipecodec"
)

const defaultChunk = 4096

// Options configures a Pipe.
type Options struct {
	// MaxChunk caps the capacity granted by one Malloc call. Zero means
	// defaultChunk. Small values force chunked writes, which is useful to
	// exercise write-side backpressure paths.
	MaxChunk int
}

type segment struct {
	buf   []byte // unconsumed portion
	alloc []byte // original allocation, freed once fully consumed
}

// Pipe implements pipecodec.PipeReader and pipecodec.PipeWriter. One
// logical reader and one logical writer; concurrent readers or concurrent
// writers are undefined behavior, matching the channel contract.
type Pipe struct {
	mu         sync.Mutex
	segs       []segment
	buffered   int
	examined   int // bytes already offered to and examined by the reader
	staged     []segment
	malloced   []byte
	completed  bool
	readerDone bool
	cancel     bool
	maxChunk   int

	trigger chan struct{}
}

// New returns a pipe with default options.
func New() *Pipe {
	return NewOptions(Options{})
}

// NewOptions returns a pipe configured by o.
func NewOptions(o Options) *Pipe {
	if o.MaxChunk <= 0 {
		o.MaxChunk = defaultChunk
	}
	return &Pipe{
		maxChunk: o.MaxChunk,
		trigger:  make(chan struct{}, 1),
	}
}

// ------------------------------- reader side -------------------------------

// TryRead is the non-suspending fast path.
func (p *Pipe) TryRead() (pipecodec.ReadResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Read suspends until new data arrives, the writer completes, or the
// pending read is canceled.
func (p *Pipe) Read(ctx context.Context) (pipecodec.ReadResult, error) {
	for {
		p.mu.Lock()
		res, ok := p.snapshotLocked()
		p.mu.Unlock()
		if ok {
			return res, nil
		}
		select {
		case <-ctx.Done():
			return pipecodec.ReadResult{}, ctx.Err()
		case <-p.trigger:
		}
	}
}

// snapshotLocked offers every buffered byte when there is anything new to
// report: unexamined data, completion, or a cancellation request.
func (p *Pipe) snapshotLocked() (pipecodec.ReadResult, bool) {
	if p.cancel {
		p.cancel = false
		return pipecodec.ReadResult{Seq: p.sequenceLocked(), Canceled: true}, true
	}
	if p.buffered > p.examined || p.completed {
		return pipecodec.ReadResult{Seq: p.sequenceLocked(), Completed: p.completed}, true
	}
	return pipecodec.ReadResult{}, false
}

func (p *Pipe) sequenceLocked() pipecodec.ByteSequence {
	bufs := make([][]byte, 0, len(p.segs))
	for _, s := range p.segs {
		bufs = append(bufs, s.buf)
	}
	return pipecodec.NewByteSequence(bufs...)
}

// Advance commits the previous read. Bytes before consumed are released;
// bytes in [consumed, examined) are retained but not re-offered until more
// data arrives.
func (p *Pipe) Advance(consumed, examined int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := consumed
	for n > 0 && len(p.segs) > 0 {
		s := &p.segs[0]
		if n < len(s.buf) {
			s.buf = s.buf[n:]
			n = 0
			break
		}
		n -= len(s.buf)
		if s.alloc != nil {
			mcache.Free(s.alloc)
		}
		p.segs = p.segs[1:]
	}
	p.buffered -= consumed - n
	p.examined = examined - consumed
	if p.examined > p.buffered {
		p.examined = p.buffered
	}
	if p.examined < 0 {
		p.examined = 0
	}
}

// CancelRead cancels the pending read, or the next one if none is pending.
// The read position is unaffected.
func (p *Pipe) CancelRead() {
	p.mu.Lock()
	p.cancel = true
	p.mu.Unlock()
	p.wake()
}

// CompleteReader marks the reader as gone. Subsequent flushes report
// Completed and their data is discarded.
func (p *Pipe) CompleteReader() {
	p.mu.Lock()
	p.readerDone = true
	p.mu.Unlock()
}

// ------------------------------- writer side -------------------------------

// Malloc grants writable capacity of min(hint, MaxChunk) bytes; hint <= 0
// requests a default-sized span. Only one grant may be outstanding.
func (p *Pipe) Malloc(hint int) []byte {
	if hint <= 0 || hint > p.maxChunk {
		hint = p.maxChunk
	}
	p.malloced = mcache.Malloc(hint)
	return p.malloced
}

// MallocAck stages the first written bytes of the last granted span. The
// rest of the grant is returned to the allocator.
func (p *Pipe) MallocAck(written int) {
	buf := p.malloced
	p.malloced = nil
	if buf == nil {
		return
	}
	if written <= 0 {
		mcache.Free(buf)
		return
	}
	if written > len(buf) {
		written = len(buf)
	}
	p.staged = append(p.staged, segment{buf: buf[:written], alloc: buf})
}

// Flush publishes staged segments to the reader.
func (p *Pipe) Flush(ctx context.Context) (pipecodec.FlushResult, error) {
	if err := ctx.Err(); err != nil {
		return pipecodec.FlushResult{}, err
	}
	p.mu.Lock()
	if p.readerDone {
		for _, s := range p.staged {
			if s.alloc != nil {
				mcache.Free(s.alloc)
			}
		}
		p.staged = nil
		p.mu.Unlock()
		return pipecodec.FlushResult{Completed: true}, nil
	}
	for _, s := range p.staged {
		p.segs = append(p.segs, s)
		p.buffered += len(s.buf)
	}
	p.staged = nil
	p.mu.Unlock()
	p.wake()
	return pipecodec.FlushResult{}, nil
}

// Complete marks the writer as finished; no more data will arrive.
func (p *Pipe) Complete() {
	p.mu.Lock()
	p.completed = true
	p.mu.Unlock()
	p.wake()
}

// WriteBytes copies b into the pipe as one segment and flushes. It is a
// convenience for tests and loopback callers that need exact fragmentation
// control: each call becomes one segment.
func (p *Pipe) WriteBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	buf := mcache.Malloc(len(b))
	copy(buf, b)
	p.mu.Lock()
	if p.readerDone {
		mcache.Free(buf)
		p.mu.Unlock()
		return
	}
	p.segs = append(p.segs, segment{buf: buf, alloc: buf})
	p.buffered += len(b)
	p.mu.Unlock()
	p.wake()
}

func (p *Pipe) wake() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}
