package core

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestPayload_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("from disk"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		payload Payload
		kind    PayloadKind
		want    string
	}{
		{name: "bytes", payload: BytesPayload([]byte("raw bytes")), kind: PayloadBytes, want: "raw bytes"},
		{name: "text", payload: TextPayload("plain text"), kind: PayloadText, want: "plain text"},
		{name: "file", payload: FilePayload(path), kind: PayloadFile, want: "from disk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.payload.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.payload.Kind(), tt.kind)
			}
			src, err := tt.payload.Open()
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer src.Close()

			if src.Size() != int64(len(tt.want)) {
				t.Errorf("Size() = %d, want %d", src.Size(), len(tt.want))
			}
			data, err := io.ReadAll(src)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("content = %q, want %q", data, tt.want)
			}

			buf := make([]byte, 4)
			if _, err := src.ReadAt(buf, 1); err != nil && err != io.EOF {
				t.Errorf("ReadAt() error = %v", err)
			}
			if string(buf) != tt.want[1:5] {
				t.Errorf("ReadAt() = %q, want %q", buf, tt.want[1:5])
			}

			all, err := tt.payload.ReadAll()
			if err != nil || string(all) != tt.want {
				t.Errorf("Payload.ReadAll() = %q, %v", all, err)
			}
		})
	}
}

func TestPayload_OpenMissingFile(t *testing.T) {
	_, err := FilePayload(filepath.Join(t.TempDir(), "missing")).Open()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want ErrNotExist", err)
	}
}

func TestPayload_ZeroValue(t *testing.T) {
	var p Payload
	if _, err := p.Open(); !errors.Is(err, ErrUnknownPayloadKind) {
		t.Errorf("Open() error = %v, want ErrUnknownPayloadKind", err)
	}
	if _, err := p.ReadAll(); !errors.Is(err, ErrUnknownPayloadKind) {
		t.Errorf("ReadAll() error = %v, want ErrUnknownPayloadKind", err)
	}
}
