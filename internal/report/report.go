// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes and reads the summary file produced by a run.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/genesearch/pkg/types"
)

// ErrInvalidName is returned when a gene or species name cannot be used in
// the output file name.
var ErrInvalidName = errors.New("name cannot be used in a file name")

// FileName returns the output file name for q: <gene>_<species>.txt. The
// names are used as given; see Path for validation.
func FileName(q types.Query) string {
	return fmt.Sprintf("%s_%s.txt", q.Gene, q.Species)
}

// Path joins dir and the output file name for q. An empty dir means the
// working directory. Names containing a path separator are rejected so the
// summary always lands directly in dir.
func Path(dir string, q types.Query) (string, error) {
	for _, name := range []string{q.Gene, q.Species} {
		if strings.ContainsAny(name, `/\`) {
			return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
		}
	}
	if dir == "" {
		return FileName(q), nil
	}
	return filepath.Join(dir, FileName(q)), nil
}

// Write stores text followed by a single newline at path, replacing any
// existing file.
func Write(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Read returns the summary stored at path without its trailing newline.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading summary: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
