package storage

import (
	"testing"
	"time"

	"github.com/poiesic/pagestream/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalLedgerEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		entry *core.LedgerEntry
	}{
		{
			name: "full entry",
			entry: &core.LedgerEntry{
				DocumentID:  "reports/2025/q3.pdf",
				ContentHash: core.IDFromContent("q3"),
				ContentType: core.ContentTypePDF,
				Pages:       42,
				IngestedAt:  now,
			},
		},
		{
			name: "max hash and zero pages",
			entry: &core.LedgerEntry{
				DocumentID:  "empty",
				ContentHash: core.ID(18446744073709551615),
				ContentType: core.ContentTypePlainText,
				IngestedAt:  now,
			},
		},
		{
			name: "unicode id",
			entry: &core.LedgerEntry{
				DocumentID:  "notes/日本語.md",
				ContentType: core.ContentTypeMarkdown,
				Pages:       3,
				IngestedAt:  now.Add(-48 * time.Hour),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalLedgerEntry(tt.entry)
			require.Len(t, data, LedgerEntrySize(tt.entry))

			decoded, err := UnmarshalLedgerEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry.DocumentID, decoded.DocumentID)
			assert.Equal(t, tt.entry.ContentHash, decoded.ContentHash)
			assert.Equal(t, tt.entry.ContentType, decoded.ContentType)
			assert.Equal(t, tt.entry.Pages, decoded.Pages)
			assert.True(t, tt.entry.IngestedAt.Equal(decoded.IngestedAt))
		})
	}
}

func TestUnmarshalLedgerEntry_Invalid(t *testing.T) {
	full := MarshalLedgerEntry(&core.LedgerEntry{
		DocumentID:  "doc",
		ContentHash: core.IDFromContent("doc"),
		ContentType: core.ContentTypeHTML,
		Pages:       1,
		IngestedAt:  time.Now(),
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", full[:len(full)/2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLedgerEntry(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}
