// Package loader adapts langchaingo document loaders to format.Adapter.
//
// A langchaingo loader returns every document of its source at once, so the
// load happens when the consumer first pulls. Each loaded document becomes a
// fragment; documents with blank content are skipped.
package loader

import (
	"context"
	"io"
	"iter"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

// Factory builds a loader over an opened payload.
type Factory func(r io.Reader) documentloaders.Loader

// Adapter wraps a Factory for one content type.
type Adapter struct {
	contentType core.ContentType
	factory     Factory
}

var _ format.Adapter = (*Adapter)(nil)

// New creates an adapter that decodes ct with loaders built by factory.
func New(ct core.ContentType, factory Factory) *Adapter {
	return &Adapter{contentType: ct, factory: factory}
}

// NewCSV creates a CSV adapter producing one fragment per data row, rendered
// as "column: value" lines. When columns is non-empty only those columns are
// kept.
func NewCSV(columns ...string) *Adapter {
	return New(core.ContentTypeCSV, func(r io.Reader) documentloaders.Loader {
		return documentloaders.NewCSV(r, columns...)
	})
}

// Ingest accepts any payload representation.
func (a *Adapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		src, err := payload.Open()
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(a.contentType, err))
			return
		}
		defer src.Close()

		docs, err := a.factory(src).Load(context.Background())
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(a.contentType, err))
			return
		}

		for i, doc := range docs {
			text := strings.TrimSpace(doc.PageContent)
			if text == "" {
				continue
			}
			source := i + 1
			if row, ok := doc.Metadata["row"].(int); ok {
				source = row
			}
			if !yield(format.Fragment{Text: text, Source: source}, nil) {
				return
			}
		}
	}
}
