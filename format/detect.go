package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/poiesic/pagestream/core"
)

var extensions = map[string]core.ContentType{
	".txt":      core.ContentTypePlainText,
	".text":     core.ContentTypePlainText,
	".log":      core.ContentTypePlainText,
	".md":       core.ContentTypeMarkdown,
	".markdown": core.ContentTypeMarkdown,
	".html":     core.ContentTypeHTML,
	".htm":      core.ContentTypeHTML,
	".xhtml":    core.ContentTypeHTML,
	".pdf":      core.ContentTypePDF,
	".docx":     core.ContentTypeDOCX,
	".xlsx":     core.ContentTypeXLSX,
	".csv":      core.ContentTypeCSV,
}

// sniffed lists the MIME types Detect accepts. Detected types that are not
// listed are walked up their parent chain, so text/x-python becomes text.
var sniffed = []struct {
	mime string
	ct   core.ContentType
}{
	{"application/pdf", core.ContentTypePDF},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", core.ContentTypeDOCX},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", core.ContentTypeXLSX},
	{"text/html", core.ContentTypeHTML},
	{"text/csv", core.ContentTypeCSV},
	{"text/plain", core.ContentTypePlainText},
}

// Detect picks a content type for a document. The file extension of name
// wins when known; otherwise head (the first bytes of the content, may be
// nil) is sniffed. Returns ErrUnknownFormat when neither matches.
func Detect(name string, head []byte) (core.ContentType, error) {
	if ct, ok := DetectExtension(name); ok {
		return ct, nil
	}
	if len(head) > 0 {
		mt := mimetype.Detect(head)
		for m := mt; m != nil; m = m.Parent() {
			for _, s := range sniffed {
				if m.Is(s.mime) {
					return s.ct, nil
				}
			}
		}
		return 0, fmt.Errorf("%w: %s (%s)", ErrUnknownFormat, name, mt.String())
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// DetectExtension maps the extension of name to a content type.
func DetectExtension(name string) (core.ContentType, bool) {
	ct, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return ct, ok
}
