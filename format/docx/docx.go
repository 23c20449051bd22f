// Package docx decodes Office Open XML word processing documents.
//
// word/document.xml is streamed token by token. Text is split into one
// fragment per page, where pages end at explicit page breaks
// (<w:br w:type="page"/>) and at the page breaks Word records when it last
// rendered the document (<w:lastRenderedPageBreak/>). Documents saved
// without either produce a single fragment.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

const (
	documentPart = "word/document.xml"
	// MaxDepth bounds XML element nesting.
	MaxDepth = 256
)

var (
	// ErrMissingDocument indicates an archive without word/document.xml.
	ErrMissingDocument = errors.New("word/document.xml not found in archive")

	// ErrTooDeep indicates XML nesting beyond MaxDepth.
	ErrTooDeep = fmt.Errorf("xml nesting depth exceeds %d", MaxDepth)
)

// Adapter extracts DOCX text page by page.
type Adapter struct{}

var _ format.Adapter = (*Adapter)(nil)

// New creates a DOCX adapter.
func New() *Adapter { return &Adapter{} }

// Ingest reads bytes or file payloads.
func (a *Adapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		src, err := format.Open(core.ContentTypeDOCX, payload)
		if err != nil {
			yield(format.Fragment{}, err)
			return
		}
		defer src.Close()

		archive, err := zip.NewReader(src, src.Size())
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypeDOCX, err))
			return
		}

		part, err := archive.Open(documentPart)
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypeDOCX, ErrMissingDocument))
			return
		}
		defer part.Close()

		for frag, err := range pages(part) {
			if !yield(frag, err) || err != nil {
				return
			}
		}
	}
}

func pages(r io.Reader) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		decoder := xml.NewDecoder(r)

		var page strings.Builder
		var para strings.Builder
		index := 0
		depth := 0
		inText := false
		sawContent := false

		endParagraph := func() {
			if text := strings.TrimSpace(para.String()); text != "" {
				if page.Len() > 0 {
					page.WriteByte('\n')
				}
				page.WriteString(text)
			}
			para.Reset()
		}
		flush := func() bool {
			endParagraph()
			index++
			text := page.String()
			page.Reset()
			sawContent = false
			if text == "" {
				return true
			}
			return yield(format.Fragment{Text: text, Source: index}, nil)
		}

		for {
			tok, err := decoder.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				yield(format.Fragment{}, format.NewDecodeError(core.ContentTypeDOCX, err))
				return
			}

			switch t := tok.(type) {
			case xml.StartElement:
				depth++
				if depth > MaxDepth {
					yield(format.Fragment{}, format.NewDecodeError(core.ContentTypeDOCX, ErrTooDeep))
					return
				}
				switch t.Name.Local {
				case "t":
					inText = true
				case "tab":
					para.WriteByte('\t')
				case "br", "cr":
					if t.Name.Local == "br" && attr(t, "type") == "page" {
						if sawContent && !flush() {
							return
						}
						continue
					}
					para.WriteByte('\n')
				case "lastRenderedPageBreak":
					if sawContent && !flush() {
						return
					}
				}
			case xml.EndElement:
				depth--
				switch t.Name.Local {
				case "t":
					inText = false
				case "p":
					endParagraph()
				}
			case xml.CharData:
				if inText {
					para.Write(t)
					sawContent = true
				}
			}
		}
		flush()
	}
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
