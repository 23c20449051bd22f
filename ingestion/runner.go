package ingestion

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/pagestream/core"
)

// Document is one unit of work for a Runner.
type Document struct {
	ID          string
	ContentType core.ContentType
	Payload     core.Payload
	Metadata    map[string]string
}

// Sink receives pages from a Runner. Accept is called from pool workers
// and must be safe for concurrent use. Returning an error stops the
// document the page belongs to.
type Sink interface {
	Accept(ctx context.Context, page core.Page) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, page core.Page) error

// Accept calls f(ctx, page).
func (f SinkFunc) Accept(ctx context.Context, page core.Page) error {
	return f(ctx, page)
}

// Result is the outcome of one document.
type Result struct {
	DocumentID string
	Pages      int
	Err        error
}

// Runner processes documents concurrently through a Pipeline.
// Pages of one document are always consumed in order by a single worker.
type Runner struct {
	pipeline         *Pipeline
	pool             *ants.Pool
	logger           *slog.Logger
	progress         io.Writer
	progressInterval int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner) error

// WithPoolSize sets the number of documents processed at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) RunnerOption {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}

		if r.pool != nil {
			r.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithRunnerLogger sets a custom logger.
// Default is slog.Default().
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithProgress reports progress to w every interval finished documents.
func WithProgress(w io.Writer, interval int) RunnerOption {
	return func(r *Runner) error {
		r.progress = w
		r.progressInterval = interval
		return nil
	}
}

// NewRunner creates a runner over p.
func NewRunner(p *Pipeline, opts ...RunnerOption) (*Runner, error) {
	if p == nil {
		return nil, ErrPipelineRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		pipeline: p,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// Run processes docs and blocks until all have finished. Results are
// returned in the order of docs. A nil sink drains pages without keeping
// them. Cancelling ctx stops each document before its next page is handed to
// sink; a document whose last page was already accepted still succeeds.
func (r *Runner) Run(ctx context.Context, docs []Document, sink Sink) []Result {
	results := make([]Result, len(docs))

	var tracker *ProgressTracker
	if r.progress != nil {
		tracker = NewProgressTracker(r.progress, len(docs), r.progressInterval)
		tracker.Start()
		defer tracker.Finish()
	}

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.runOne(ctx, doc, sink)
			if tracker != nil {
				tracker.Done(results[i].Pages, results[i].Err)
			}
		})
		if err != nil {
			wg.Done()
			results[i] = Result{DocumentID: doc.ID, Err: err}
			r.logger.Error("error submitting document", "document_id", doc.ID, "err", err)
		}
	}
	wg.Wait()

	return results
}

func (r *Runner) runOne(ctx context.Context, doc Document, sink Sink) Result {
	result := Result{DocumentID: doc.ID}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	seq, err := r.pipeline.Process(doc.ContentType, doc.Payload, doc.ID, doc.Metadata)
	if err != nil {
		result.Err = err
		return result
	}

	for page, err := range seq {
		if err != nil {
			result.Err = err
			break
		}
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}
		if sink != nil {
			if err := sink.Accept(ctx, page); err != nil {
				result.Err = err
				break
			}
		}
		result.Pages++
	}

	if result.Err != nil {
		r.logger.Warn("document failed", "document_id", doc.ID, "pages", result.Pages, "err", result.Err)
	}
	return result
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
