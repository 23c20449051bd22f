package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/pagestream"
)

func detectCommand(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}

	for _, path := range files {
		ct, err := cfg.contentType(path)
		if err != nil {
			return fmt.Errorf("failed to detect content type of %s: %w", path, err)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", path, ct, ct.MIMEType())
	}
	return nil
}

func typesCommand(c *cli.Context) error {
	pipeline, err := pagestream.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	for _, ct := range pipeline.ContentTypes() {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", ct, ct.MIMEType())
	}
	return nil
}

func ledgerPath(c *cli.Context) (string, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return "", err
	}
	path := firstNonEmpty(c.String("ledger"), cfg.Ledger)
	if path == "" {
		return "", fmt.Errorf("ledger path is required")
	}
	return path, nil
}

func ledgerListCommand(c *cli.Context) error {
	path, err := ledgerPath(c)
	if err != nil {
		return err
	}

	ledger, err := pagestream.OpenLedger(path, nil)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer ledger.Close()

	for entry, err := range ledger.Entries(c.Context) {
		if err != nil {
			return fmt.Errorf("failed to read ledger: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%d\t%s\n",
			entry.DocumentID,
			entry.ContentHash,
			entry.ContentType,
			entry.Pages,
			entry.IngestedAt.Format(time.RFC3339),
		)
	}
	return nil
}

func ledgerForgetCommand(c *cli.Context) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one document id is required")
	}

	path, err := ledgerPath(c)
	if err != nil {
		return err
	}

	ledger, err := pagestream.OpenLedger(path, nil)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer ledger.Close()

	if err := ledger.Delete(c.Context, ids...); err != nil {
		return fmt.Errorf("failed to forget documents: %w", err)
	}
	return nil
}
