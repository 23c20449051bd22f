// Package html decodes HTML documents into heading-delimited fragments.
//
// The document is sanitised with a bluemonday UGC policy, converted to
// Markdown and then split with markdown.Sections, so each heading of the
// page becomes one fragment.
package html

import (
	"io"
	"iter"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
	"github.com/poiesic/pagestream/format/markdown"
)

// Adapter converts HTML to Markdown sections.
type Adapter struct {
	policy      *bluemonday.Policy
	mdConverter *converter.Converter
	domain      string
}

var _ format.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithDomain resolves relative links against domain.
func WithDomain(domain string) Option {
	return func(a *Adapter) { a.domain = domain }
}

// WithPolicy replaces the default UGC sanitising policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(a *Adapter) {
		if policy != nil {
			a.policy = policy
		}
	}
}

// New creates an HTML adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		policy: bluemonday.UGCPolicy(),
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ingest accepts any payload representation.
func (a *Adapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		md, err := a.toMarkdown(payload)
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypeHTML, err))
			return
		}

		for frag, err := range markdown.Sections(core.ContentTypeHTML, strings.NewReader(md)) {
			if !yield(frag, err) || err != nil {
				return
			}
		}
	}
}

func (a *Adapter) toMarkdown(payload core.Payload) (string, error) {
	src, err := payload.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	clean := a.policy.Sanitize(string(raw))

	var opts []converter.ConvertOptionFunc
	if a.domain != "" {
		opts = append(opts, converter.WithDomain(a.domain))
	}
	return a.mdConverter.ConvertString(clean, opts...)
}
