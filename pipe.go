package pipecodec

import "context"

// ReadResult is the outcome of one fetch from a PipeReader.
type ReadResult struct {
	// Seq holds every buffered, unconsumed byte at the time of the read,
	// including bytes previously marked examined.
	Seq ByteSequence
	// Completed reports that the writer finished; no more data will arrive
	// beyond Seq.
	Completed bool
	// Canceled reports that a pending read was canceled via the pipe
	// (CancelPendingRead style). Bytes in Seq must be rolled back, never
	// treated as consumed.
	Canceled bool
}

// FlushResult is the outcome of one flush on a PipeWriter.
type FlushResult struct {
	// Completed reports that the reader is gone; further writes are futile.
	Completed bool
	// Canceled reports that the flush was canceled.
	Canceled bool
}

// PipeReader is the consumed half of the external channel contract.
// pipecodec assumes a single logical reader per pipe; concurrent reads are
// undefined behavior, not defended against.
type PipeReader interface {
	// TryRead is the non-suspending fast path. It reports false when no
	// new data is available beyond what was already examined.
	TryRead() (ReadResult, bool)
	// Read suspends until data arrives, the writer completes, or the read
	// is canceled. Context cancellation is returned as ctx.Err().
	Read(ctx context.Context) (ReadResult, error)
	// Advance commits the previous read. Bytes before consumed are
	// released and never re-delivered; bytes in [consumed, examined) stay
	// buffered but are not re-offered until more data arrives.
	// 0 <= consumed <= examined <= Seq.Len() of the previous read.
	Advance(consumed, examined int)
}

// PipeWriter is the produced half of the external channel contract.
type PipeWriter interface {
	// Malloc returns writable capacity of at least 1 and at most the
	// pipe's grant size. hint <= 0 requests a default-sized span.
	Malloc(hint int) []byte
	// MallocAck marks the first written bytes of the last Malloc span as
	// filled.
	MallocAck(written int)
	// Flush publishes advanced bytes to the reader.
	Flush(ctx context.Context) (FlushResult, error)
}
