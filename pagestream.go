// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pagestream assembles an ingestion pipeline with every built-in
// format adapter registered.
//
//	p, err := pagestream.NewPipeline()
//	seq, err := p.Process(core.ContentTypePDF, core.FilePayload("report.pdf"), "report", nil)
//	for page, err := range seq { ... }
package pagestream

import (
	"log/slog"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
	"github.com/poiesic/pagestream/format/docx"
	"github.com/poiesic/pagestream/format/html"
	"github.com/poiesic/pagestream/format/loader"
	"github.com/poiesic/pagestream/format/markdown"
	"github.com/poiesic/pagestream/format/pdf"
	"github.com/poiesic/pagestream/format/text"
	"github.com/poiesic/pagestream/format/xlsx"
	"github.com/poiesic/pagestream/ingestion"
	"github.com/poiesic/pagestream/storage"
	"github.com/poiesic/pagestream/storage/badger"
)

// Option configures the built-in adapters.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	pdfPassword   string
	xlsxPassword  string
	csvColumns    []string
	htmlDomain    string
	ingestionOpts []ingestion.Option
}

// WithLogger sets the logger for the pipeline and the adapters that log.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPDFPassword sets the password tried for encrypted PDFs.
func WithPDFPassword(password string) Option {
	return func(o *options) { o.pdfPassword = password }
}

// WithXLSXPassword sets the password for encrypted workbooks.
func WithXLSXPassword(password string) Option {
	return func(o *options) { o.xlsxPassword = password }
}

// WithCSVColumns restricts CSV pages to the named columns.
func WithCSVColumns(columns ...string) Option {
	return func(o *options) { o.csvColumns = columns }
}

// WithHTMLDomain resolves relative links in HTML documents against domain.
func WithHTMLDomain(domain string) Option {
	return func(o *options) { o.htmlDomain = domain }
}

// WithIngestionOptions passes options through to ingestion.NewPipeline.
// They are applied after the built-in adapters, so ingestion.WithAdapter
// replaces a default.
func WithIngestionOptions(opts ...ingestion.Option) Option {
	return func(o *options) { o.ingestionOpts = append(o.ingestionOpts, opts...) }
}

// DefaultAdapters returns a fresh adapter for every built-in content type.
func DefaultAdapters(opts ...Option) map[core.ContentType]format.Adapter {
	o := resolve(opts)
	return defaultAdapters(o)
}

func resolve(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

func defaultAdapters(o *options) map[core.ContentType]format.Adapter {
	return map[core.ContentType]format.Adapter{
		core.ContentTypePlainText: text.New(),
		core.ContentTypeMarkdown:  markdown.New(),
		core.ContentTypeHTML:      html.New(html.WithDomain(o.htmlDomain)),
		core.ContentTypePDF: pdf.New(
			pdf.WithPassword(o.pdfPassword),
			pdf.WithLogger(o.logger.With("adapter", "pdf")),
		),
		core.ContentTypeDOCX: docx.New(),
		core.ContentTypeXLSX: xlsx.New(
			xlsx.WithPassword(o.xlsxPassword),
			xlsx.WithLogger(o.logger.With("adapter", "xlsx")),
		),
		core.ContentTypeCSV: loader.NewCSV(o.csvColumns...),
	}
}

// NewPipeline creates an ingestion pipeline with all built-in adapters.
func NewPipeline(opts ...Option) (*ingestion.Pipeline, error) {
	o := resolve(opts)

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(o.logger)}
	for ct, adapter := range defaultAdapters(o) {
		pipelineOpts = append(pipelineOpts, ingestion.WithAdapter(ct, adapter))
	}
	pipelineOpts = append(pipelineOpts, o.ingestionOpts...)

	return ingestion.NewPipeline(pipelineOpts...)
}

// OpenLedger opens a persistent ingestion ledger in directory path.
func OpenLedger(path string, logger *slog.Logger) (storage.LedgerRepository, error) {
	backend, err := badger.OpenBackend(path, false, badger.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return badger.NewLedgerRepository(backend), nil
}
