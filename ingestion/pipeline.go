package ingestion

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

// Pipeline dispatches payloads to format adapters by content type and
// numbers the fragments they produce.
// It is safe for concurrent use; registration normally happens at setup.
type Pipeline struct {
	mu       sync.RWMutex
	adapters map[core.ContentType]format.Adapter
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithAdapter registers adapter for ct, replacing any earlier registration.
func WithAdapter(ct core.ContentType, adapter format.Adapter) Option {
	return func(p *Pipeline) error {
		if err := core.ValidateContentType(ct); err != nil {
			return err
		}
		if adapter == nil {
			return fmt.Errorf("%w: %s", ErrAdapterRequired, ct)
		}
		p.adapters[ct] = adapter
		return nil
	}
}

// NewPipeline creates a pipeline with an empty registry.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		adapters: make(map[core.ContentType]format.Adapter),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Register installs adapter for ct. A later registration for the same type
// replaces the earlier one; adapters are never chained.
// Register panics if ct is not a valid content type or adapter is nil.
func (p *Pipeline) Register(ct core.ContentType, adapter format.Adapter) {
	if !ct.Valid() {
		panic(fmt.Sprintf("ingestion: register invalid content type %d", int(ct)))
	}
	if adapter == nil {
		panic("ingestion: register nil adapter for " + ct.String())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.adapters[ct] = adapter
}

// Adapter returns the adapter registered for ct.
func (p *Pipeline) Adapter(ct core.ContentType) (format.Adapter, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := p.adapters[ct]
	return a, ok
}

// ContentTypes lists the registered content types in enumeration order.
func (p *Pipeline) ContentTypes() []core.ContentType {
	p.mu.RLock()
	defer p.mu.RUnlock()

	types := make([]core.ContentType, 0, len(p.adapters))
	for ct := range p.adapters {
		types = append(types, ct)
	}
	slices.Sort(types)
	return types
}

// Process resolves the adapter for ct and returns a lazy sequence of pages.
//
// If ct has no registered adapter Process returns an *UnsupportedTypeError
// and the adapter is never invoked. Otherwise each range over the returned
// sequence runs the adapter from the start: fragments are pulled one at a
// time, wrapped with documentID, metadata and the next page number, and
// yielded. An adapter error is yielded as is and ends the sequence.
// metadata is shared by every page and never modified.
func (p *Pipeline) Process(
	ct core.ContentType,
	payload core.Payload,
	documentID string,
	metadata map[string]string,
) (iter.Seq2[core.Page, error], error) {
	adapter, ok := p.Adapter(ct)
	if !ok {
		return nil, &UnsupportedTypeError{ContentType: ct}
	}

	logger := p.logger.With("document_id", documentID, "content_type", ct.String())

	return func(yield func(core.Page, error) bool) {
		pageNumber := 0
		defer func() {
			logger.Debug("document processed", "pages", pageNumber)
		}()

		for frag, err := range adapter.Ingest(payload) {
			if err != nil {
				logger.Debug("adapter failed", "pages", pageNumber, "err", err)
				yield(core.Page{}, err)
				return
			}

			page := core.Page{
				DocumentID:  documentID,
				PageNumber:  pageNumber,
				Text:        frag.Text,
				Metadata:    metadata,
				SourceIndex: frag.Source,
			}
			pageNumber++

			if !yield(page, nil) {
				return
			}
		}
	}, nil
}

// Collect drains seq. It returns the pages yielded before the first error
// together with that error.
func Collect(seq iter.Seq2[core.Page, error]) ([]core.Page, error) {
	var pages []core.Page
	for page, err := range seq {
		if err != nil {
			return pages, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}
