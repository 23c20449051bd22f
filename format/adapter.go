package format

import (
	"iter"

	"github.com/poiesic/pagestream/core"
)

// Fragment is one unit of text extracted by an adapter.
type Fragment struct {
	Text string
	// Source is the 1-based position of the source unit (page, sheet,
	// section) the text came from, or 0 if the adapter has none.
	Source int
}

// Adapter decodes one content type.
//
// Ingest must be lazy: the k-th fragment is extracted only when the consumer
// asks for it. Units that produce no usable text are skipped silently. A
// payload that cannot be opened yields a single *DecodeError and no
// fragments. Implementations must be safe for concurrent use.
type Adapter interface {
	Ingest(payload core.Payload) iter.Seq2[Fragment, error]
}

// AdapterFunc adapts an ordinary function to the Adapter interface.
type AdapterFunc func(payload core.Payload) iter.Seq2[Fragment, error]

// Ingest calls f(payload).
func (f AdapterFunc) Ingest(payload core.Payload) iter.Seq2[Fragment, error] {
	return f(payload)
}

// Fail returns a sequence that yields err once and ends.
func Fail(err error) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		yield(Fragment{}, err)
	}
}

// Open opens payload for a binary container adapter. Text payloads are
// rejected with ErrWrongRepresentation.
func Open(ct core.ContentType, payload core.Payload) (core.Source, error) {
	if payload.Kind() == core.PayloadText {
		return nil, NewDecodeError(ct, ErrWrongRepresentation)
	}
	src, err := payload.Open()
	if err != nil {
		return nil, NewDecodeError(ct, err)
	}
	return src, nil
}
