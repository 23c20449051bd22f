package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/pagestream/core"
)

// runApp runs the CLI with args and returns what it wrote to stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"pagestream"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodePages(t *testing.T, out string) []core.Page {
	t.Helper()
	var pages []core.Page
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var page core.Page
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &page))
		pages = append(pages, page)
	}
	require.NoError(t, scanner.Err())
	return pages
}

func TestIngestCommandValidation(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a")
	b := writeFile(t, dir, "b.txt", "b")

	t.Run("files are required", func(t *testing.T) {
		_, err := runApp(t, "ingest")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one file")
	})

	t.Run("doc-id needs a single file", func(t *testing.T) {
		_, err := runApp(t, "ingest", "--doc-id", "x", a, b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single file")
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := runApp(t, "ingest", "--type", "rtf", a)
		require.ErrorIs(t, err, core.ErrInvalidContentType)
	})

	t.Run("malformed metadata is rejected", func(t *testing.T) {
		_, err := runApp(t, "ingest", "--meta", "novalue", a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "key=value")
	})
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "first paragraph\n\n\n\nsecond paragraph\n")

	out, err := runApp(t, "ingest", "--doc-id", "notes", "--meta", "tenant=acme", path)
	require.NoError(t, err)

	pages := decodePages(t, out)
	require.Len(t, pages, 2)
	for i, page := range pages {
		assert.Equal(t, "notes", page.DocumentID)
		assert.Equal(t, i, page.PageNumber)
		assert.Equal(t, "acme", page.Metadata["tenant"])
		assert.Equal(t, path, page.Metadata["path"])
		assert.Equal(t, "text", page.Metadata["content_type"])
	}
	assert.Equal(t, "first paragraph", pages[0].Text)
	assert.Equal(t, "second paragraph", pages[1].Text)
}

func TestIngestCommandForcedType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "readme", "# Title\nbody\n# Next\nmore\n")

	out, err := runApp(t, "ingest", "--type", "markdown", path)
	require.NoError(t, err)

	pages := decodePages(t, out)
	require.Len(t, pages, 2)
	assert.Equal(t, path, pages[0].DocumentID)
	assert.Equal(t, "md", pages[0].Metadata["content_type"])
}

func TestIngestCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "fine")
	bad := writeFile(t, dir, "bad.pdf", "this is not a pdf")

	out, err := runApp(t, "ingest", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")

	pages := decodePages(t, out)
	require.Len(t, pages, 1)
	assert.Equal(t, good, pages[0].DocumentID)
}

func TestIngestCommandLedger(t *testing.T) {
	dir := t.TempDir()
	ledgerDir := filepath.Join(dir, "ledger")
	path := writeFile(t, dir, "doc.txt", "one\n\ntwo\n")

	out, err := runApp(t, "ingest", "--ledger", ledgerDir, path)
	require.NoError(t, err)
	assert.Len(t, decodePages(t, out), 2)

	// Unchanged file is skipped.
	out, err = runApp(t, "ingest", "--ledger", ledgerDir, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	// Forced.
	out, err = runApp(t, "ingest", "--ledger", ledgerDir, "--force", path)
	require.NoError(t, err)
	assert.Len(t, decodePages(t, out), 2)

	// Changed content is ingested again.
	writeFile(t, dir, "doc.txt", "one\n\ntwo\n\nthree\n")
	out, err = runApp(t, "ingest", "--ledger", ledgerDir, path)
	require.NoError(t, err)
	assert.Len(t, decodePages(t, out), 3)

	out, err = runApp(t, "ledger", "list", "--ledger", ledgerDir)
	require.NoError(t, err)
	fields := strings.Split(strings.TrimSpace(out), "\t")
	require.Len(t, fields, 5)
	assert.Equal(t, path, fields[0])
	assert.Equal(t, "text", fields[2])
	assert.Equal(t, "3", fields[3])

	_, err = runApp(t, "ledger", "forget", "--ledger", ledgerDir, path)
	require.NoError(t, err)

	out, err = runApp(t, "ledger", "list", "--ledger", ledgerDir)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLedgerCommandRequiresPath(t *testing.T) {
	_, err := runApp(t, "ledger", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger path is required")
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "a.md", "# hi")
	custom := writeFile(t, dir, "b.notes", "plain words")
	cfgPath := writeFile(t, dir, "config.yaml", "extensions:\n  notes: markdown\n")

	out, err := runApp(t, "--config", cfgPath, "detect", md, custom)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, md+"\tmd\ttext/markdown", lines[0])
	assert.Equal(t, custom+"\tmd\ttext/markdown", lines[1])
}

func TestTypesCommand(t *testing.T) {
	out, err := runApp(t, "types")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(core.ContentTypes()))
	assert.Contains(t, lines, "pdf\tapplication/pdf")
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Zero(t, cfg.Workers)
	})

	t.Run("full config", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yaml", `
extensions:
  .LOG: text
  rst: md
workers: 3
pdf_password: secret
csv_columns: [name, email]
ledger: /var/lib/pagestream
`)
		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, "secret", cfg.PDFPassword)
		assert.Equal(t, []string{"name", "email"}, cfg.CSVColumns)
		assert.Equal(t, "/var/lib/pagestream", cfg.Ledger)

		ct, err := cfg.contentType("server.log")
		require.NoError(t, err)
		assert.Equal(t, core.ContentTypePlainText, ct)

		ct, err = cfg.contentType("guide.rst")
		require.NoError(t, err)
		assert.Equal(t, core.ContentTypeMarkdown, ct)
	})

	t.Run("invalid content type", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "extensions:\n  x: rtf\n")
		_, err := loadConfig(path)
		require.ErrorIs(t, err, core.ErrInvalidContentType)
	})

	t.Run("negative workers", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "workers: -1\n")
		_, err := loadConfig(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestParseMetadata(t *testing.T) {
	meta, err := parseMetadata([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y", "c": ""}, meta)

	_, err = parseMetadata([]string{"=v"})
	require.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "warning", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before:    setupLogger,
					ErrWriter: io.Discard,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "verbose", "types")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
