package pipecodec

// MaxVarintLen32 is the largest encoded size of a 32-bit varint: five
// 7-bit groups.
const MaxVarintLen32 = 5

// varintParser decodes a non-negative integer from 7-bit groups with a
// continuation bit. Decoding stops at the first byte without the
// continuation bit; a fifth byte that still carries it is a format error.
type varintParser struct {
	value  uint32
	shift  uint
	budget int
	done   bool
}

// NewUvarint32Parser returns a parser for a 7-bit grouped unsigned varint
// of at most MaxVarintLen32 bytes.
func NewUvarint32Parser() Parser[uint32] {
	return &varintParser{budget: MaxVarintLen32}
}

func (p *varintParser) Remaining() int {
	if p.done {
		return 0
	}
	return p.budget
}

func (p *varintParser) Append(chunk []byte) (int, error) {
	for i, c := range chunk {
		p.value |= uint32(c&0x7f) << p.shift
		p.shift += 7
		p.budget--
		if c&0x80 == 0 {
			p.done = true
			return i + 1, nil
		}
		if p.budget == 0 {
			return i + 1, ErrVarIntTooLong
		}
	}
	return len(chunk), nil
}

func (p *varintParser) EndOfStream() error {
	if !p.done {
		return ErrTruncated
	}
	return nil
}

func (p *varintParser) Complete() (uint32, error) {
	if !p.done {
		return 0, ErrIncomplete
	}
	return p.value, nil
}

// AppendUvarint32 appends the varint encoding of x to dst: 7 payload bits
// per byte, continuation bit set on all but the last, ascending order.
// At most MaxVarintLen32 bytes are emitted.
func AppendUvarint32(dst []byte, x uint32) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

// Uvarint32Len returns the encoded size of x in bytes.
func Uvarint32Len(x uint32) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}
