package pipecodec_test

import (
	"testing"

	"github.com/rawbytedev/pipecodec"
	"github.com/rawbytedev/pipecodec/pkg/mempipe"
)

// prefill returns a completed pipe holding data split into the given
// fragments. Each fragment becomes its own segment.
func prefill(fragments ...[]byte) *mempipe.Pipe {
	p := mempipe.New()
	for _, f := range fragments {
		p.WriteBytes(f)
	}
	p.Complete()
	return p
}

// forEachSplit re-runs fn with data pre-split at every possible byte
// offset, then once fragmented into single bytes. Decoding must be
// bit-exact regardless of fragmentation.
func forEachSplit(t *testing.T, data []byte, fn func(t *testing.T, r *pipecodec.Reader)) {
	t.Helper()
	for cut := 0; cut <= len(data); cut++ {
		p := prefill(data[:cut], data[cut:])
		fn(t, pipecodec.NewReader(p))
		if t.Failed() {
			t.Fatalf("failed with split at offset %d", cut)
		}
	}
	p := mempipe.New()
	for _, b := range data {
		p.WriteBytes([]byte{b})
	}
	p.Complete()
	fn(t, pipecodec.NewReader(p))
	if t.Failed() {
		t.Fatal("failed with single-byte fragmentation")
	}
}

// encodeErr runs fn against a fresh pipe writer and returns its error.
func encodeErr(t *testing.T, fn func(w *pipecodec.Writer) error) error {
	t.Helper()
	return fn(pipecodec.NewWriter(mempipe.New()))
}

// encodeAll runs fn against a fresh pipe writer and returns every byte it
// produced.
func encodeAll(t *testing.T, fn func(w *pipecodec.Writer) error) []byte {
	t.Helper()
	p := mempipe.New()
	if err := fn(pipecodec.NewWriter(p)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	p.Complete()
	res, ok := p.TryRead()
	if !ok {
		return nil
	}
	out := make([]byte, res.Seq.Len())
	res.Seq.CopyTo(out)
	p.Advance(len(out), len(out))
	return out
}
