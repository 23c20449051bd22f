// Package pdf is the reference adapter for paginated binary documents.
//
// The container is opened when the consumer first pulls, then the page tree
// is walked depth first in document order. Each page that yields non-blank
// text becomes one fragment whose Source is its 1-based position among the
// page leaves. Pages whose text cannot be extracted and pages with only
// whitespace are skipped. Kids that are not page dictionaries, repeated
// references and subtrees nested deeper than maxTreeDepth are ignored, so a
// corrupt tree ends the document instead of looping. /Count is never
// trusted.
package pdf

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

// ErrEmptyDocument is wrapped in the DecodeError for a zero-length payload.
var ErrEmptyDocument = errors.New("empty pdf content")

// Adapter extracts text page by page.
type Adapter struct {
	password string
	logger   *slog.Logger
}

var _ format.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithPassword sets the user password tried for encrypted documents.
func WithPassword(password string) Option {
	return func(a *Adapter) { a.password = password }
}

// WithLogger sets the logger used to report skipped pages.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates a PDF adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ingest reads bytes or file payloads. Text payloads are rejected.
func (a *Adapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		src, err := format.Open(core.ContentTypePDF, payload)
		if err != nil {
			yield(format.Fragment{}, err)
			return
		}
		defer src.Close()

		if src.Size() == 0 {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypePDF, ErrEmptyDocument))
			return
		}

		reader, err := a.open(src, src.Size())
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypePDF, err))
			return
		}

		w := &pageWalker{logger: a.logger, visited: make(map[objectRef]bool)}
		root, ok := w.root(reader)
		if !ok {
			return
		}
		w.walk(root, 0, func(leaf pdf.Value, ordinal int) bool {
			text, ok := a.pageText(leaf, ordinal)
			if !ok {
				return true
			}
			return yield(format.Fragment{Text: text, Source: ordinal}, nil)
		})
	}
}

func (a *Adapter) open(src core.Source, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	if a.password == "" {
		return pdf.NewReader(src, size)
	}
	tried := false
	return pdf.NewReaderEncrypted(src, size, func() string {
		if tried {
			return ""
		}
		tried = true
		return a.password
	})
}

// pageText extracts the text of the leaf page dictionary. ok is false when
// the page should be skipped.
func (a *Adapter) pageText(leaf pdf.Value, num int) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Debug("skipping unreadable pdf page", "page", num, "panic", r)
			text, ok = "", false
		}
	}()

	raw, err := pdf.Page{V: leaf}.GetPlainText(nil)
	if err != nil {
		a.logger.Debug("skipping pdf page", "page", num, "error", err)
		return "", false
	}

	if strings.TrimSpace(raw) == "" {
		a.logger.Debug("skipping empty pdf page", "page", num)
		return "", false
	}
	return raw, true
}
