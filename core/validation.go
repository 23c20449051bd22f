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
	"time"
)

// ValidateLedgerEntry validates a LedgerEntry before it is persisted.
//
// Validation rules:
//   - DocumentID must not be empty
//   - ContentType must be a member of the enumeration
//   - Pages must not be negative
//   - IngestedAt must not be in the future
//
// ContentHash is not validated; 0 is a legal hash value.
func ValidateLedgerEntry(entry *LedgerEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidLedgerEntry)
	}

	if entry.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLedgerEntry, ErrEmptyDocumentID)
	}

	if err := ValidateContentType(entry.ContentType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLedgerEntry, err)
	}

	if entry.Pages < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLedgerEntry, ErrNegativePageCount)
	}

	if !IsValidTimestamp(entry.IngestedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidLedgerEntry, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateContentType validates that a ContentType has a valid value.
func ValidateContentType(ct ContentType) error {
	if !ct.Valid() {
		return fmt.Errorf("%w: value %d", ErrInvalidContentType, int(ct))
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
