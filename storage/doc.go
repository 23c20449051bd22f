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

// Package storage provides the persistence abstraction for the ingestion ledger.
//
// The ledger lets callers skip documents whose content has not changed since
// they were last ingested. It holds one LedgerEntry per document id; the
// pages themselves are handed to the caller and never stored here.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/ledger", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ledger := badger.NewLedgerRepository(backend)
//	defer ledger.Close()
//
// Use in tests with in-memory storage:
//
//	backend, err := badger.OpenBackend("", true)
//
// # Encoding
//
// Entries are encoded with mus-go varint and ord serializers, see
// MarshalLedgerEntry.
package storage
