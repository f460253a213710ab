package pipecodec

import "hash"

// hashParser streams bytes into an incremental hash without materializing
// the full input. Bounded mode hashes a known count; unbounded mode hashes
// until the pipe completes.
type hashParser struct {
	h         hash.Hash
	remaining int
	finished  bool
}

// NewHashParser returns a parser that feeds exactly n bytes into h and
// yields the digest.
func NewHashParser(h hash.Hash, n int) Parser[[]byte] {
	return &hashParser{h: h, remaining: n, finished: n == 0}
}

// NewHashToEndParser returns a parser that feeds every remaining byte of
// the pipe into h and yields the digest when the pipe completes.
func NewHashToEndParser(h hash.Hash) Parser[[]byte] {
	return &hashParser{h: h, remaining: Unbounded}
}

func (p *hashParser) Remaining() int { return p.remaining }

func (p *hashParser) Append(chunk []byte) (int, error) {
	if p.remaining != Unbounded && len(chunk) > p.remaining {
		chunk = chunk[:p.remaining]
	}
	// hash.Hash.Write never returns an error.
	p.h.Write(chunk)
	if p.remaining != Unbounded {
		p.remaining -= len(chunk)
	}
	if p.remaining == 0 {
		p.finished = true
	}
	return len(chunk), nil
}

func (p *hashParser) EndOfStream() error {
	if p.remaining == Unbounded {
		p.remaining = 0
		p.finished = true
		return nil
	}
	if p.remaining > 0 {
		return ErrTruncated
	}
	return nil
}

func (p *hashParser) Complete() ([]byte, error) {
	if !p.finished {
		return nil, ErrIncomplete
	}
	return p.h.Sum(nil), nil
}

// DigestInto writes h's current digest into dst, failing with ErrDigestSize
// when dst is smaller than the digest.
func DigestInto(h hash.Hash, dst []byte) (int, error) {
	if len(dst) < h.Size() {
		return 0, ErrDigestSize
	}
	copy(dst, h.Sum(nil))
	return h.Size(), nil
}
