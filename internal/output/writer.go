package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpgo/mathgen/internal/domain"
)

// ErrLevelExists is returned when a level directory is already present
var ErrLevelExists = errors.New("output: level directory already exists")

// DirWriter lays batches out as ROOT/<level>/<module>.<ext>
type DirWriter struct {
	root      string
	formatter Formatter
}

// NewDirWriter creates the root directory if needed
func NewDirWriter(root string, f Formatter) (*DirWriter, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil formatter", ErrUnsupportedFormat)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("output: create %s: %w", root, err)
	}
	return &DirWriter{root: root, formatter: f}, nil
}

// Root returns the output directory
func (w *DirWriter) Root() string { return w.root }

// PrepareLevel creates the directory for a level. It refuses to reuse an
// existing directory so earlier output is never mixed with a new run.
func (w *DirWriter) PrepareLevel(level string) (string, error) {
	if err := checkPathElement(level); err != nil {
		return "", err
	}
	dir := filepath.Join(w.root, level)
	if err := os.Mkdir(dir, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrLevelExists, dir)
		}
		return "", fmt.Errorf("output: create %s: %w", dir, err)
	}
	return dir, nil
}

// WriteBatch formats the batch and writes it under its level directory
func (w *DirWriter) WriteBatch(batch *domain.Batch) (string, error) {
	if err := checkPathElement(batch.Module); err != nil {
		return "", err
	}
	data, err := w.formatter.Format(batch)
	if err != nil {
		return "", fmt.Errorf("output: format %s/%s: %w", batch.Level, batch.Module, err)
	}
	path := filepath.Join(w.root, batch.Level, batch.Module+"."+w.formatter.Extension())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("output: write %s: %w", path, err)
	}
	return path, nil
}

func checkPathElement(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("output: %q is not a valid file name", name)
	}
	return nil
}
