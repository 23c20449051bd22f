// Package text decodes plain UTF-8 text into paragraph fragments.
//
// Paragraphs are separated by one or more blank lines. Input is streamed
// line by line, so a paragraph is only read once the consumer asks for it.
package text

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

const (
	initialBufferSize = 64 * 1024
	// DefaultMaxLineSize bounds a single line; longer lines fail the scan.
	DefaultMaxLineSize = 1 << 20
)

// Adapter splits plain text on blank lines.
type Adapter struct {
	maxLineSize int
}

var _ format.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxLineSize raises or lowers the longest accepted line.
func WithMaxLineSize(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxLineSize = n
		}
	}
}

// New creates a plain text adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{maxLineSize: DefaultMaxLineSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ingest accepts any payload representation; bytes and files are read as UTF-8.
func (a *Adapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		src, err := payload.Open()
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypePlainText, err))
			return
		}
		defer src.Close()

		for frag, err := range Paragraphs(src, a.maxLineSize) {
			if !yield(frag, err) || err != nil {
				return
			}
		}
	}
}

// Paragraphs streams blank-line separated paragraphs from r. Each fragment's
// Source is the 1-based paragraph position. Whitespace-only paragraphs never
// form, so nothing is skipped after the fact.
func Paragraphs(r io.Reader, maxLineSize int) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, min(initialBufferSize, maxLineSize)), maxLineSize)

		var para strings.Builder
		index := 0
		flush := func() bool {
			if para.Len() == 0 {
				return true
			}
			index++
			text := strings.ToValidUTF8(para.String(), "�")
			para.Reset()
			return yield(format.Fragment{Text: text, Source: index}, nil)
		}

		for sc.Scan() {
			line := strings.TrimRight(sc.Text(), " \t\r")
			if strings.TrimSpace(line) == "" {
				if !flush() {
					return
				}
				continue
			}
			if para.Len() > 0 {
				para.WriteByte('\n')
			}
			para.WriteString(line)
		}
		if err := sc.Err(); err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypePlainText, err))
			return
		}
		flush()
	}
}
