package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
	"github.com/nguyentantai21042004/lecture-flow/internal/renderer"
)

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}

// writePair stores two files together: both are written to temp files first and
// renamed only when both writes succeeded. Files already at pathA and pathB are
// set aside first and restored if either rename fails, so a failure leaves the
// previous pair (or nothing) in place.
func writePair(pathA string, dataA []byte, pathB string, dataB []byte) error {
	tmpA, err := writeTemp(pathA, dataA)
	if err != nil {
		return err
	}
	tmpB, err := writeTemp(pathB, dataB)
	if err != nil {
		os.Remove(tmpA)
		return err
	}

	bakA, err := setAside(pathA)
	if err != nil {
		os.Remove(tmpA)
		os.Remove(tmpB)
		return err
	}
	bakB, err := setAside(pathB)
	if err != nil {
		restore(bakA, pathA)
		os.Remove(tmpA)
		os.Remove(tmpB)
		return err
	}

	if err := os.Rename(tmpA, pathA); err != nil {
		os.Remove(tmpA)
		os.Remove(tmpB)
		restore(bakA, pathA)
		restore(bakB, pathB)
		return fmt.Errorf("move %s into place: %w", filepath.Base(pathA), err)
	}
	if err := os.Rename(tmpB, pathB); err != nil {
		os.Remove(tmpB)
		os.Remove(pathA)
		restore(bakA, pathA)
		restore(bakB, pathB)
		return fmt.Errorf("move %s into place: %w", filepath.Base(pathB), err)
	}

	discard(bakA)
	discard(bakB)
	return nil
}

// setAside moves an existing regular file at path to a hidden backup name and
// returns that name; "" means there was nothing to keep.
func setAside(path string) (string, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}
	bak := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".bak")
	if err := os.Rename(path, bak); err != nil {
		return "", fmt.Errorf("back up %s: %w", filepath.Base(path), err)
	}
	return bak, nil
}

func restore(bak, path string) {
	if bak != "" {
		os.Rename(bak, path)
	}
}

func discard(bak string) {
	if bak != "" {
		os.Remove(bak)
	}
}

func writeTemp(path string, data []byte) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+stem+"-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close temp: %w", err)
	}
	return name, nil
}

// writeDOCX renders to a temp name and renames, like the text outputs.
func (p *implProcessor) writeDOCX(doc renderer.Document, meta metadata.ClassMetadata, path string) error {
	tmp, err := writeTemp(path, nil)
	if err != nil {
		return err
	}
	if err := p.renderer.RenderDOCX(doc, meta, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}
