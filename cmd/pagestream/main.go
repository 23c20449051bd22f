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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pagestream",
		Usage: "Turn documents into streams of text pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"PAGESTREAM_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			ingestCommandSpec(),
			{
				Name:      "detect",
				Usage:     "Print the detected content type of each file",
				ArgsUsage: "FILE...",
				Action:    detectCommand,
			},
			{
				Name:   "types",
				Usage:  "List supported content types",
				Action: typesCommand,
			},
			ledgerCommandSpec(),
		},
	}
}

func ingestCommandSpec() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Extract pages from files and write them as JSON lines",
		ArgsUsage: "FILE...",
		Action:    ingestCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Content type for all files (skips detection)",
			},
			&cli.StringFlag{
				Name:  "doc-id",
				Usage: "Document id (single file only, defaults to the file path)",
			},
			&cli.StringSliceFlag{
				Name:    "meta",
				Aliases: []string{"m"},
				Usage:   "Metadata attached to every page, as key=value",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of documents processed concurrently",
			},
			&cli.StringFlag{
				Name:  "ledger",
				Usage: "Path to ledger directory used to skip unchanged files",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Ingest files even if the ledger says they are unchanged",
			},
			&cli.StringFlag{
				Name:  "pdf-password",
				Usage: "Password for encrypted PDFs",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Report progress on stderr",
			},
		},
	}
}

func ledgerCommandSpec() *cli.Command {
	ledgerFlag := &cli.StringFlag{
		Name:  "ledger",
		Usage: "Path to ledger directory",
	}
	return &cli.Command{
		Name:  "ledger",
		Usage: "Inspect the ingestion ledger",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List ingested documents",
				Action: ledgerListCommand,
				Flags:  []cli.Flag{ledgerFlag},
			},
			{
				Name:      "forget",
				Usage:     "Remove documents from the ledger so they are ingested again",
				ArgsUsage: "DOCUMENT_ID...",
				Action:    ledgerForgetCommand,
				Flags:     []cli.Flag{ledgerFlag},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	handler := slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}
