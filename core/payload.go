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
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// PayloadKind is the representation a Payload carries.
type PayloadKind int

const (
	// PayloadBytes is an in-memory byte slice.
	PayloadBytes PayloadKind = iota + 1
	// PayloadText is an in-memory string.
	PayloadText
	// PayloadFile is a path on the local filesystem, opened lazily.
	PayloadFile
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadBytes:
		return "bytes"
	case PayloadText:
		return "text"
	case PayloadFile:
		return "file"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// Payload is raw document input. The pipeline never looks inside it; only
// the adapter chosen for the declared content type interprets it.
type Payload struct {
	kind PayloadKind
	data []byte
	text string
	path string
}

// BytesPayload wraps a byte slice. The slice is not copied.
func BytesPayload(b []byte) Payload {
	return Payload{kind: PayloadBytes, data: b}
}

// TextPayload wraps a string.
func TextPayload(s string) Payload {
	return Payload{kind: PayloadText, text: s}
}

// FilePayload refers to a file that is opened when an adapter reads it.
func FilePayload(path string) Payload {
	return Payload{kind: PayloadFile, path: path}
}

// Kind reports the representation of p.
func (p Payload) Kind() PayloadKind { return p.kind }

// Bytes returns the wrapped slice for a bytes payload, nil otherwise.
func (p Payload) Bytes() []byte { return p.data }

// Text returns the wrapped string for a text payload, "" otherwise.
func (p Payload) Text() string { return p.text }

// Path returns the file path for a file payload, "" otherwise.
func (p Payload) Path() string { return p.path }

// Source is an opened payload. Callers must Close it.
type Source interface {
	io.Reader
	io.ReaderAt
	io.Closer
	Size() int64
}

type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }

type stringSource struct {
	*strings.Reader
}

func (stringSource) Close() error { return nil }

type fileSource struct {
	*os.File
	size int64
}

func (f fileSource) Size() int64 { return f.size }

// Open returns a Source over the payload content. For file payloads this
// opens the file; the returned Source owns the handle.
func (p Payload) Open() (Source, error) {
	switch p.kind {
	case PayloadBytes:
		return memSource{bytes.NewReader(p.data)}, nil
	case PayloadText:
		return stringSource{strings.NewReader(p.text)}, nil
	case PayloadFile:
		f, err := os.Open(p.path)
		if err != nil {
			return nil, err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		return fileSource{File: f, size: info.Size()}, nil
	default:
		return nil, ErrUnknownPayloadKind
	}
}

// ReadAll returns the full payload content as bytes.
func (p Payload) ReadAll() ([]byte, error) {
	switch p.kind {
	case PayloadBytes:
		return p.data, nil
	case PayloadText:
		return []byte(p.text), nil
	case PayloadFile:
		return os.ReadFile(p.path)
	default:
		return nil, ErrUnknownPayloadKind
	}
}
