package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/pagestream"
	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/ingestion"
	"github.com/poiesic/pagestream/storage"
)

// pageWriter writes pages as JSON lines. Workers share it.
type pageWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newPageWriter(w io.Writer) *pageWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &pageWriter{enc: enc}
}

func (w *pageWriter) Accept(_ context.Context, page core.Page) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(page)
}

func ingestCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required")
	}
	docID := c.String("doc-id")
	if docID != "" && len(files) > 1 {
		return fmt.Errorf("doc-id can only be used with a single file")
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	meta, err := parseMetadata(c.StringSlice("meta"))
	if err != nil {
		return err
	}

	var forced core.ContentType
	if name := c.String("type"); name != "" {
		forced, err = core.ParseContentType(name)
		if err != nil {
			return err
		}
	}

	logger := slog.Default()

	pdfPassword := c.String("pdf-password")
	if pdfPassword == "" {
		pdfPassword = cfg.PDFPassword
	}
	pipeline, err := pagestream.NewPipeline(
		pagestream.WithLogger(logger),
		pagestream.WithPDFPassword(pdfPassword),
		pagestream.WithCSVColumns(cfg.CSVColumns...),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	var ledger storage.LedgerRepository
	if path := firstNonEmpty(c.String("ledger"), cfg.Ledger); path != "" {
		ledger, err = pagestream.OpenLedger(path, logger)
		if err != nil {
			return fmt.Errorf("failed to open ledger: %w", err)
		}
		defer ledger.Close()
	}

	docs := make([]ingestion.Document, 0, len(files))
	hashes := make(map[string]core.ID, len(files))
	for _, path := range files {
		ct := forced
		if ct == 0 {
			ct, err = cfg.contentType(path)
			if err != nil {
				return fmt.Errorf("failed to detect content type of %s: %w", path, err)
			}
		}

		id := path
		if docID != "" {
			id = docID
		}

		if ledger != nil {
			hash, err := hashFile(path)
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", path, err)
			}
			if !c.Bool("force") && unchanged(ctx, ledger, id, hash) {
				logger.Info("skipping unchanged document", "document_id", id)
				continue
			}
			hashes[id] = hash
		}

		docs = append(docs, ingestion.Document{
			ID:          id,
			ContentType: ct,
			Payload:     core.FilePayload(path),
			Metadata:    documentMetadata(meta, path, ct),
		})
	}

	runnerOpts := []ingestion.RunnerOption{ingestion.WithRunnerLogger(logger)}
	if workers := firstPositive(c.Int("workers"), cfg.Workers); workers > 0 {
		runnerOpts = append(runnerOpts, ingestion.WithPoolSize(workers))
	}
	if c.Bool("progress") {
		runnerOpts = append(runnerOpts, ingestion.WithProgress(c.App.ErrWriter, 1))
	}
	runner, err := ingestion.NewRunner(pipeline, runnerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer runner.Release()

	results := runner.Run(ctx, docs, newPageWriter(c.App.Writer))

	failed := 0
	for i, result := range results {
		if result.Err != nil {
			failed++
			logger.Error("ingestion failed", "document_id", result.DocumentID, "err", result.Err)
			continue
		}
		if ledger == nil {
			continue
		}
		entry := &core.LedgerEntry{
			DocumentID:  result.DocumentID,
			ContentHash: hashes[result.DocumentID],
			ContentType: docs[i].ContentType,
			Pages:       result.Pages,
		}
		if err := ledger.Record(ctx, entry); err != nil {
			return fmt.Errorf("failed to record %s: %w", result.DocumentID, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func unchanged(ctx context.Context, ledger storage.LedgerRepository, id string, hash core.ID) bool {
	entry, err := ledger.Lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("ledger lookup failed", "document_id", id, "err", err)
		}
		return false
	}
	return entry.ContentHash == hash
}

func hashFile(path string) (core.ID, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return core.IDFromReader(f)
}

// parseMetadata turns key=value pairs into a map.
func parseMetadata(pairs []string) (map[string]string, error) {
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q: expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}

// documentMetadata gives each document its own map. Pages of one document
// share it.
func documentMetadata(base map[string]string, path string, ct core.ContentType) map[string]string {
	meta := make(map[string]string, len(base)+2)
	meta["path"] = path
	meta["content_type"] = ct.String()
	for k, v := range base {
		meta[k] = v
	}
	return meta
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
