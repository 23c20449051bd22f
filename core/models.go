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
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
// It is generated using BLAKE2b hashing of the document content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IDFromReader hashes everything readable from r.
// It produces the same ID as IDFromContent for the same bytes.
func IDFromReader(r io.Reader) (ID, error) {
	h, _ := blake2b.New(8, nil)
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum)), nil
}

// String renders the ID as 16 lowercase hex digits.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Page is the unit produced by the ingestion pipeline.
// All pages produced by one Process call share DocumentID and Metadata.
type Page struct {
	DocumentID string            `json:"document_id"`
	PageNumber int               `json:"page_number"` // zero-based, assigned in emission order
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata"`
	// SourceIndex is the 1-based position of the source unit (PDF page,
	// sheet, paragraph) the text came from, or 0 when the adapter does not
	// track source units. Unlike PageNumber it may have gaps.
	SourceIndex int `json:"source_index,omitempty"`
}

// LedgerEntry records that a document has been ingested.
// Page text is never stored, only enough to detect unchanged documents.
type LedgerEntry struct {
	DocumentID  string
	ContentHash ID
	ContentType ContentType
	Pages       int
	IngestedAt  time.Time
}
