// Package pipecodec implements incremental, allocation-conscious codecs over
// a fragmented byte pipe. Values may arrive split across arbitrarily small
// chunks; every codec tolerates a chunk boundary falling in the middle of a
// value and produces bit-exact results regardless of fragmentation.
//
// All read-side codecs implement Parser and are driven by ReadValue, the
// only place that talks to the pipe. Length prefix formats and endianness
// are explicit arguments on every call, never implicit state.
package pipecodec

import "context"

// Unbounded is the Remaining value of streaming parsers that consume until
// the pipe completes.
const Unbounded = -1

// stitchMax bounds the scratch used to rejoin a logical unit split across
// segment boundaries. The largest unit any codec declines is a multi-byte
// character sequence.
const stitchMax = 16

// Parser is the unit of incremental decoding. It is stateless about I/O and
// stateful about decode progress.
type Parser[T any] interface {
	// Remaining returns the bytes still required, or Unbounded.
	Remaining() int
	// Append consumes up to Remaining bytes from chunk, advances internal
	// progress and returns the count actually used. It may return less
	// than len(chunk) when a logical unit's boundary falls inside the
	// chunk; declined bytes are re-delivered on a later call.
	Append(chunk []byte) (int, error)
	// EndOfStream is invoked when the pipe completes while the parser is
	// unsatisfied. Unbounded parsers finish normally and return nil;
	// bounded parsers return ErrTruncated.
	EndOfStream() error
	// Complete returns the decoded value. Valid only once Remaining is
	// zero or EndOfStream returned nil.
	Complete() (T, error)
}

// ReadValue drives p against pr until the parser is satisfied, the pipe
// completes, or the read is canceled.
//
// Each batch is walked segment by segment; when a chunk holds more bytes
// than the parser needs, only the needed prefix is offered, so leftover
// bytes stay unconsumed for the next logical read. On cancellation the
// batch is rolled back (nothing consumed, nothing examined) so a later read
// re-observes the same bytes.
func ReadValue[T any](ctx context.Context, pr PipeReader, p Parser[T]) (T, error) {
	var zero T
	if p.Remaining() == 0 {
		return p.Complete()
	}
	for {
		res, ok := pr.TryRead()
		if !ok {
			var err error
			res, err = pr.Read(ctx)
			if err != nil {
				return zero, err
			}
		}
		if res.Canceled {
			pr.Advance(0, 0)
			return zero, ErrReadCanceled
		}

		consumed, done, err := feed(p, res.Seq)
		if err != nil {
			// Format errors leave the position well-defined: bytes the
			// parser consumed before detecting the error are committed.
			pr.Advance(consumed, consumed)
			return zero, err
		}
		if done {
			pr.Advance(consumed, consumed)
			return p.Complete()
		}
		// Examine the whole batch so the pipe only wakes us once more
		// data arrives.
		pr.Advance(consumed, res.Seq.Len())
		if res.Completed {
			if err := p.EndOfStream(); err != nil {
				return zero, err
			}
			return p.Complete()
		}
	}
}

// feed offers the sequence to p, honoring Remaining as an upper bound per
// Append call and rejoining units that straddle segment boundaries.
func feed[T any](p Parser[T], seq ByteSequence) (consumed int, done bool, err error) {
	segs := seq.Segments()
	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		for len(seg) > 0 {
			rem := p.Remaining()
			if rem == 0 {
				return consumed, true, nil
			}
			span := seg
			capped := false
			if rem != Unbounded && rem < len(span) {
				span = span[:rem]
				capped = true
			}
			n, appErr := p.Append(span)
			consumed += n
			if appErr != nil {
				return consumed, false, appErr
			}
			if n == len(span) {
				seg = seg[n:]
				continue
			}
			if p.Remaining() == 0 {
				// Finished early; leftover bytes belong to the next
				// logical read.
				return consumed, true, nil
			}
			if capped || i+1 == len(segs) {
				// The declined bytes end at the frame boundary or at the
				// end of the batch; more data must arrive first.
				return consumed, false, nil
			}
			// A unit is split across a segment boundary: rejoin the
			// declined tail with upcoming bytes and retry.
			tail := len(span) - n
			m, stitchErr := appendStitched(p, span[n:], segs[i+1:])
			consumed += m
			if stitchErr != nil {
				return consumed, false, stitchErr
			}
			if m < tail {
				// Still declined: the continuation has not arrived.
				return consumed, p.Remaining() == 0, nil
			}
			// The tail plus spill bytes of following segments were
			// consumed; resume past them.
			spill := m - tail
			seg = nil
			for spill > 0 {
				i++
				if spill < len(segs[i]) {
					seg = segs[i][spill:]
					break
				}
				spill -= len(segs[i])
			}
		}
	}
	return consumed, p.Remaining() == 0, nil
}

// appendStitched copies the declined tail plus the next buffered bytes into
// a small scratch span and offers it to p. The copy never exceeds stitchMax
// bytes or the parser's remaining budget.
func appendStitched[T any](p Parser[T], tail []byte, rest [][]byte) (int, error) {
	var buf [stitchMax]byte
	k := copy(buf[:], tail)
	for _, seg := range rest {
		if k == len(buf) {
			break
		}
		k += copy(buf[k:], seg)
	}
	span := buf[:k]
	if rem := p.Remaining(); rem != Unbounded && rem < k {
		span = span[:rem]
	}
	total := 0
	for len(span) > 0 {
		n, err := p.Append(span)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 || n == len(span) || p.Remaining() == 0 {
			return total, nil
		}
		span = span[n:]
	}
	return total, nil
}
