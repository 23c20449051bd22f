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

package badger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/storage"
)

// LedgerRepository stores ledger entries in badger under "ledger:<id>".
type LedgerRepository struct {
	backend *Backend
}

var _ storage.LedgerRepository = (*LedgerRepository)(nil)

// NewLedgerRepository creates a ledger over backend. Closing the
// repository closes the backend.
func NewLedgerRepository(backend *Backend) *LedgerRepository {
	return &LedgerRepository{
		backend: backend,
	}
}

func (r *LedgerRepository) Record(ctx context.Context, entry *core.LedgerEntry) error {
	if entry != nil && entry.IngestedAt.IsZero() {
		entry.IngestedAt = time.Now().UTC()
	}
	if err := core.ValidateLedgerEntry(entry); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return retryOnConflict(ctx, conflictAttempts, conflictDelay, func() error {
		return r.backend.WithTx(func(tx *badger.Txn) error {
			if err := tx.Set(makeLedgerKey(entry.DocumentID), storage.MarshalLedgerEntry(entry)); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
	})
}

func (r *LedgerRepository) Lookup(ctx context.Context, documentID string) (*core.LedgerEntry, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var entry *core.LedgerEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeLedgerKey(documentID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, documentID)
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			entry, unmarshalErr = storage.UnmarshalLedgerEntry(val)
			return unmarshalErr
		})
	}, false)

	return entry, err
}

func (r *LedgerRepository) Entries(ctx context.Context) iter.Seq2[*core.LedgerEntry, error] {
	return func(yield func(*core.LedgerEntry, error) bool) {
		if r.backend.IsClosed() {
			yield(nil, storage.ErrStorageClosed)
			return
		}

		_ = r.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(ledgerPrefix)
			it := tx.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return nil
				}

				item := it.Item()
				var entry *core.LedgerEntry
				err := item.Value(func(val []byte) error {
					var unmarshalErr error
					entry, unmarshalErr = storage.UnmarshalLedgerEntry(val)
					return unmarshalErr
				})
				if err != nil {
					err = fmt.Errorf("ledger entry %q: %w", documentIDFromKey(item.KeyCopy(nil)), err)
					yield(nil, err)
					return nil
				}
				if !yield(entry, nil) {
					return nil
				}
			}
			return nil
		}, false)
	}
}

func (r *LedgerRepository) Delete(ctx context.Context, documentIDs ...string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return retryOnConflict(ctx, conflictAttempts, conflictDelay, func() error {
		return r.backend.WithTx(func(tx *badger.Txn) error {
			for _, id := range documentIDs {
				key := makeLedgerKey(id)
				if _, err := tx.Get(key); err != nil {
					if errors.Is(err, badger.ErrKeyNotFound) {
						return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
					}
					return err
				}
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
	})
}

func (r *LedgerRepository) Close() error {
	if r.backend.IsClosed() {
		return nil
	}
	return r.backend.Close()
}
