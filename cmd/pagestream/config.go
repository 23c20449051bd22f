package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

// Config is the optional YAML configuration file. Command line flags take
// precedence over every field.
type Config struct {
	// Extensions maps file extensions (".log", "rst") to content type names.
	Extensions  map[string]string `yaml:"extensions"`
	Workers     int               `yaml:"workers"`
	PDFPassword string            `yaml:"pdf_password"`
	CSVColumns  []string          `yaml:"csv_columns"`
	Ledger      string            `yaml:"ledger"`

	extensions map[string]core.ContentType
}

// loadConfig reads path. An empty path yields the zero configuration.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}

	c.extensions = make(map[string]core.ContentType, len(c.Extensions))
	for ext, name := range c.Extensions {
		ct, err := core.ParseContentType(name)
		if err != nil {
			return fmt.Errorf("extension %q: %w", ext, err)
		}
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extensions[ext] = ct
	}
	return nil
}

// contentType resolves the content type of the file at path. Configured
// extension overrides win, then the built-in extension table, then content
// sniffing of the first bytes.
func (c *Config) contentType(path string) (core.ContentType, error) {
	if ct, ok := c.extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return ct, nil
	}
	if ct, ok := format.DetectExtension(path); ok {
		return ct, nil
	}

	head, err := readHead(path, 3072)
	if err != nil {
		return 0, err
	}
	return format.Detect(path, head)
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && read == 0 && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
