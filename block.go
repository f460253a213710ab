package pipecodec

// blockParser streams a fixed byte count into a destination buffer or a
// per-chunk consumer without intermediate buffering beyond the pipe's own
// segments. The decoded value is the byte count transferred.
type blockParser struct {
	remaining int
	dst       []byte
	consume   func([]byte) error
	off       int
}

// NewCopyParser returns a parser that copies exactly len(dst) bytes into
// dst. The pipe completing early is a truncation error.
func NewCopyParser(dst []byte) Parser[int] {
	return &blockParser{remaining: len(dst), dst: dst}
}

// NewConsumeParser returns a parser that feeds exactly n bytes to consume,
// one pipe segment at a time.
func NewConsumeParser(n int, consume func([]byte) error) Parser[int] {
	return &blockParser{remaining: n, consume: consume}
}

func (p *blockParser) Remaining() int { return p.remaining }

func (p *blockParser) Append(chunk []byte) (int, error) {
	if len(chunk) > p.remaining {
		chunk = chunk[:p.remaining]
	}
	if p.dst != nil {
		copy(p.dst[p.off:], chunk)
	} else if p.consume != nil {
		if err := p.consume(chunk); err != nil {
			return 0, err
		}
	}
	p.off += len(chunk)
	p.remaining -= len(chunk)
	return len(chunk), nil
}

func (p *blockParser) EndOfStream() error {
	if p.remaining > 0 {
		return ErrTruncated
	}
	return nil
}

func (p *blockParser) Complete() (int, error) {
	if p.remaining > 0 {
		return p.off, ErrIncomplete
	}
	return p.off, nil
}

// skipParser discards a fixed byte count without materializing it.
type skipParser struct {
	remaining int
	skipped   int
}

// NewSkipParser returns a parser that discards exactly n bytes.
func NewSkipParser(n int) Parser[int] {
	return &skipParser{remaining: n}
}

func (p *skipParser) Remaining() int { return p.remaining }

func (p *skipParser) Append(chunk []byte) (int, error) {
	n := len(chunk)
	if n > p.remaining {
		n = p.remaining
	}
	p.remaining -= n
	p.skipped += n
	return n, nil
}

func (p *skipParser) EndOfStream() error {
	if p.remaining > 0 {
		return ErrTruncated
	}
	return nil
}

func (p *skipParser) Complete() (int, error) {
	if p.remaining > 0 {
		return p.skipped, ErrIncomplete
	}
	return p.skipped, nil
}
