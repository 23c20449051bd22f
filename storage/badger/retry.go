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
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	conflictAttempts = 4
	conflictDelay    = 5 * time.Millisecond
)

// retryOnConflict runs a write transaction, retrying with exponential
// backoff while badger reports a conflict with a concurrent writer.
// Any other error is returned immediately.
func retryOnConflict(ctx context.Context, maxAttempts int, baseDelay time.Duration, operation func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil || !errors.Is(lastErr, badger.ErrConflict) {
			return lastErr
		}

		slog.Debug("transaction conflict, will retry", "attempt", attempt, "maxAttempts", maxAttempts)

		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
