package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fragsort/internal/model"
)

// WriteChain writes the chain one fragment per line, in chain order.
// Downstream consumers read this format back, so it carries nothing else.
func WriteChain(w io.Writer, chain model.Chain) error {
	bw := bufio.NewWriter(w)
	for _, f := range chain {
		if _, err := bw.WriteString(string(f) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveChain writes chain to path through a temporary file in the same
// directory, so readers never see a half-written listing.
func SaveChain(path string, chain model.Chain) error {
	path = model.ExpandHome(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteChain(tmp, chain); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
