// Package xlsx decodes spreadsheets into one fragment per worksheet.
package xlsx

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

// Adapter extracts worksheets in workbook order. Rows are streamed and
// joined with newlines; cells within a row are joined with tabs. Trailing
// empty cells are dropped and sheets without any text are skipped.
type Adapter struct {
	password string
	logger   *slog.Logger
}

var _ format.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithPassword opens encrypted workbooks.
func WithPassword(password string) Option {
	return func(a *Adapter) { a.password = password }
}

// WithLogger sets the logger used for skipped sheets.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates a spreadsheet adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ingest reads bytes or file payloads.
func (a *Adapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		src, err := format.Open(core.ContentTypeXLSX, payload)
		if err != nil {
			yield(format.Fragment{}, err)
			return
		}
		defer src.Close()

		var opts []excelize.Options
		if a.password != "" {
			opts = append(opts, excelize.Options{Password: a.password})
		}
		book, err := excelize.OpenReader(src, opts...)
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypeXLSX, err))
			return
		}
		defer book.Close()

		for i, sheet := range book.GetSheetList() {
			text, err := sheetText(book, sheet)
			if err != nil {
				a.logger.Debug("skipping unreadable sheet", "sheet", sheet, "error", err)
				continue
			}
			if text == "" {
				continue
			}
			if !yield(format.Fragment{Text: text, Source: i + 1}, nil) {
				return
			}
		}
	}
}

func sheetText(book *excelize.File, sheet string) (string, error) {
	rows, err := book.Rows(sheet)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var b strings.Builder
	pendingBlank := 0
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return "", err
		}
		for len(cols) > 0 && strings.TrimSpace(cols[len(cols)-1]) == "" {
			cols = cols[:len(cols)-1]
		}
		if len(cols) == 0 {
			pendingBlank++
			continue
		}
		if b.Len() > 0 {
			b.WriteString(strings.Repeat("\n", pendingBlank+1))
		}
		pendingBlank = 0
		b.WriteString(strings.Join(cols, "\t"))
	}
	if err := rows.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
