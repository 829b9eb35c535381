package workflow

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResultFileName is the fixed name of the saved spreadsheet.
const ResultFileName = "Cálculo.v15 - Poupança - Preenchido.xlsx"

// Saver persists a processing result and returns where it landed.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// FileSaver writes results into Dir. Files are written to a temporary name
// and renamed into place; the temporary file never outlives a failed save.
type FileSaver struct {
	Dir string
}

// Save implements Saver.
func (s FileSaver) Save(name string, data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".fichas-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close result: %w", err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("rename result: %w", err)
	}
	committed = true

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil
	}
	return abs, nil
}
