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

package core

import (
	"fmt"
	"strings"
)

// ContentType identifies how a payload must be decoded.
// It is a closed enumeration; the zero value is not a valid type.
type ContentType int

const (
	// ContentTypePlainText is UTF-8 text split into paragraphs.
	ContentTypePlainText ContentType = iota + 1
	// ContentTypeMarkdown is CommonMark-ish text split at headings.
	ContentTypeMarkdown
	// ContentTypeHTML is an HTML document.
	ContentTypeHTML
	// ContentTypePDF is a paginated PDF document.
	ContentTypePDF
	// ContentTypeDOCX is an Office Open XML word processing document.
	ContentTypeDOCX
	// ContentTypeXLSX is an Office Open XML spreadsheet.
	ContentTypeXLSX
	// ContentTypeCSV is comma separated values with a header row.
	ContentTypeCSV
)

type contentTypeInfo struct {
	name    string
	mime    string
	aliases []string
}

var contentTypeTable = map[ContentType]contentTypeInfo{
	ContentTypePlainText: {"text", "text/plain", []string{"txt", "plain", "plain_text", "plaintext"}},
	ContentTypeMarkdown:  {"md", "text/markdown", []string{"markdown"}},
	ContentTypeHTML:      {"html", "text/html", []string{"htm", "xhtml", "application/xhtml+xml"}},
	ContentTypePDF:       {"pdf", "application/pdf", nil},
	ContentTypeDOCX:      {"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil},
	ContentTypeXLSX:      {"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil},
	ContentTypeCSV:       {"csv", "text/csv", nil},
}

// ContentTypes returns every valid content type in declaration order.
func ContentTypes() []ContentType {
	return []ContentType{
		ContentTypePlainText,
		ContentTypeMarkdown,
		ContentTypeHTML,
		ContentTypePDF,
		ContentTypeDOCX,
		ContentTypeXLSX,
		ContentTypeCSV,
	}
}

// Valid reports whether ct is a member of the enumeration.
func (ct ContentType) Valid() bool {
	_, ok := contentTypeTable[ct]
	return ok
}

// String returns the short name of the content type.
func (ct ContentType) String() string {
	if info, ok := contentTypeTable[ct]; ok {
		return info.name
	}
	return fmt.Sprintf("ContentType(%d)", int(ct))
}

// MIMEType returns the canonical MIME type, or "" for invalid values.
func (ct ContentType) MIMEType() string {
	return contentTypeTable[ct].mime
}

// ParseContentType resolves a short name, alias or MIME type.
// Matching is case-insensitive and ignores MIME parameters such as charset.
func ParseContentType(s string) (ContentType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(key, ';'); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	key = strings.TrimPrefix(key, ".")
	for _, ct := range ContentTypes() {
		info := contentTypeTable[ct]
		if key == info.name || key == info.mime {
			return ct, nil
		}
		for _, alias := range info.aliases {
			if key == alias {
				return ct, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidContentType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (ct ContentType) MarshalText() ([]byte, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: value %d", ErrInvalidContentType, int(ct))
	}
	return []byte(ct.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ct *ContentType) UnmarshalText(text []byte) error {
	parsed, err := ParseContentType(string(text))
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}
