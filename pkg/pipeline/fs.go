package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source reads named documents.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// Sink persists the rendered report.
type Sink interface {
	WriteFile(name string, data []byte) error
}

// FileSource reads from the local filesystem.
type FileSource struct{}

func (FileSource) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// FileSink writes through a temporary file in the destination directory and
// renames it into place, so a failed write never leaves a partial report.
type FileSink struct{}

func (FileSink) WriteFile(name string, data []byte) (err error) {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
