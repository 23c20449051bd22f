package storage

import (
	"context"
	"iter"

	"github.com/poiesic/pagestream/core"
)

// LedgerRepository remembers which documents have been ingested.
// It stores bookkeeping only: document id, content hash, content type,
// page count and time. Page text is never persisted.
// Implementations must be thread-safe and support concurrent access.
type LedgerRepository interface {
	// Record validates entry and stores it, replacing any entry with the
	// same DocumentID. A zero IngestedAt is set to the current time.
	Record(ctx context.Context, entry *core.LedgerEntry) error

	// Lookup retrieves the entry for documentID.
	// Returns ErrNotFound if the document has not been recorded.
	Lookup(ctx context.Context, documentID string) (*core.LedgerEntry, error)

	// Entries iterates over all entries in document id order.
	Entries(ctx context.Context) iter.Seq2[*core.LedgerEntry, error]

	// Delete removes entries by document id.
	// Returns ErrNotFound if any entry doesn't exist.
	Delete(ctx context.Context, documentIDs ...string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
