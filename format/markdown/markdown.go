// Package markdown decodes Markdown into one fragment per heading section.
package markdown

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

const maxLineSize = 1 << 20

// Adapter splits Markdown at ATX headings (# through ######).
type Adapter struct{}

var _ format.Adapter = (*Adapter)(nil)

// New creates a Markdown adapter.
func New() *Adapter { return &Adapter{} }

// Ingest accepts any payload representation.
func (a *Adapter) Ingest(payload core.Payload) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		src, err := payload.Open()
		if err != nil {
			yield(format.Fragment{}, format.NewDecodeError(core.ContentTypeMarkdown, err))
			return
		}
		defer src.Close()

		for frag, err := range Sections(core.ContentTypeMarkdown, src) {
			if !yield(frag, err) || err != nil {
				return
			}
		}
	}
}

// Sections streams r as heading sections. A section is a heading line plus
// everything up to the next heading; text before the first heading is its
// own section. Headings inside fenced code blocks do not split. Sections with
// no visible text are skipped. Source is the 1-based section position,
// counting skipped sections. A read failure is reported as a DecodeError
// for ct, the content type of the document r was derived from.
func Sections(ct core.ContentType, r io.Reader) iter.Seq2[format.Fragment, error] {
	return func(yield func(format.Fragment, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		var section strings.Builder
		index := 0
		started := false
		fence := ""

		flush := func() bool {
			text := strings.TrimSpace(section.String())
			section.Reset()
			if !started {
				return true
			}
			index++
			if text == "" {
				return true
			}
			return yield(format.Fragment{Text: text, Source: index}, nil)
		}

		for sc.Scan() {
			line := strings.TrimRight(sc.Text(), "\r")

			if marker := fenceMarker(line); marker != "" {
				switch {
				case fence == "":
					fence = marker
				case strings.HasPrefix(marker, fence):
					fence = ""
				}
			} else if fence == "" && IsHeading(line) {
				if !flush() {
					return
				}
			}

			if !started && strings.TrimSpace(line) == "" {
				continue
			}
			started = true
			section.WriteString(line)
			section.WriteByte('\n')
		}
		if err := sc.Err(); err != nil {
			yield(format.Fragment{}, format.NewDecodeError(ct, err))
			return
		}
		flush()
	}
}

// IsHeading reports whether line is an ATX heading.
func IsHeading(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return false
	}
	return level == len(trimmed) || trimmed[level] == ' ' || trimmed[level] == '\t'
}

func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return ""
	}
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n >= 3 {
			return trimmed[:n]
		}
	}
	return ""
}
