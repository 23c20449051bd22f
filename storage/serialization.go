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

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/pagestream/core"
)

// Field order: DocumentID, ContentHash, ContentType, Pages, IngestedAt
// (unix microseconds). New fields go at the end.

// LedgerEntrySize returns the encoded size of entry.
func LedgerEntrySize(entry *core.LedgerEntry) int {
	return ord.String.Size(entry.DocumentID) +
		varint.Uint64.Size(uint64(entry.ContentHash)) +
		varint.Int64.Size(int64(entry.ContentType)) +
		varint.Int64.Size(int64(entry.Pages)) +
		varint.Int64.Size(entry.IngestedAt.UnixMicro())
}

// MarshalLedgerEntry serializes a LedgerEntry to bytes.
func MarshalLedgerEntry(entry *core.LedgerEntry) []byte {
	buf := make([]byte, LedgerEntrySize(entry))
	n := ord.String.Marshal(entry.DocumentID, buf)
	n += varint.Uint64.Marshal(uint64(entry.ContentHash), buf[n:])
	n += varint.Int64.Marshal(int64(entry.ContentType), buf[n:])
	n += varint.Int64.Marshal(int64(entry.Pages), buf[n:])
	varint.Int64.Marshal(entry.IngestedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalLedgerEntry deserializes a LedgerEntry from bytes.
func UnmarshalLedgerEntry(data []byte) (*core.LedgerEntry, error) {
	var (
		entry core.LedgerEntry
		n     int
	)

	docID, read, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: document id: %w", ErrSerializationFailed, err)
	}
	n += read
	entry.DocumentID = docID

	hash, read, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: content hash: %w", ErrSerializationFailed, err)
	}
	n += read
	entry.ContentHash = core.ID(hash)

	ct, read, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: content type: %w", ErrSerializationFailed, err)
	}
	n += read
	entry.ContentType = core.ContentType(ct)

	pages, read, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: pages: %w", ErrSerializationFailed, err)
	}
	n += read
	entry.Pages = int(pages)

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: ingested at: %w", ErrSerializationFailed, err)
	}
	entry.IngestedAt = time.UnixMicro(micros).UTC()

	return &entry, nil
}
