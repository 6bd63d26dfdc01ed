package audiostore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
)

const (
	audioDir       = "audio"
	transcriptsDir = "transcripts"
	summariesDir   = "summaries"
)

// EnsureClassDir creates audio/, transcripts/ and summaries/ under the class root.
func (s *implStore) EnsureClassDir(class string) (string, error) {
	if err := ValidateClassName(class); err != nil {
		return "", err
	}
	classDir := filepath.Join(s.root, class)
	for _, sub := range []string{audioDir, transcriptsDir, summariesDir} {
		if err := os.MkdirAll(filepath.Join(classDir, sub), 0755); err != nil {
			return "", apperr.NewInternal("could not create class folder", fmt.Errorf("create %s: %w", sub, err))
		}
	}
	return classDir, nil
}

// SaveAudioFile copies tempPath into <class>/audio/<filename>.
func (s *implStore) SaveAudioFile(tempPath, filename, class string) (string, error) {
	if err := ValidateAudioName(filename); err != nil {
		return "", err
	}
	if _, err := os.Stat(tempPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperr.NewNotFound(tempPath)
		}
		return "", apperr.NewInternal("could not read audio file", err)
	}

	classDir, err := s.EnsureClassDir(class)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(classDir, audioDir, filename)
	if same, _ := sameFile(tempPath, dest); same {
		return dest, nil
	}
	if err := copyFile(tempPath, dest); err != nil {
		return "", apperr.NewInternal("could not save audio file", err)
	}
	return dest, nil
}

// ListAudioFiles returns the accepted audio files of a class, sorted by name.
func (s *implStore) ListAudioFiles(class string) ([]string, error) {
	classDir, err := s.EnsureClassDir(class)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(classDir, audioDir))
	if err != nil {
		return nil, apperr.NewInternal("could not list audio files", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsAccepted(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// DeleteAudioFile removes one audio file; false means it was not there.
func (s *implStore) DeleteAudioFile(filename, class string) (bool, error) {
	if err := ValidateAudioName(filename); err != nil {
		return false, err
	}
	classDir, err := s.EnsureClassDir(class)
	if err != nil {
		return false, err
	}
	err = os.Remove(filepath.Join(classDir, audioDir, filename))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, apperr.NewInternal("could not delete audio file", err)
	}
}

// TranscriptPath is where the transcript of audioName is stored.
func (s *implStore) TranscriptPath(class, audioName string) string {
	return filepath.Join(s.root, class, transcriptsDir, Stem(audioName)+".txt")
}

// SummaryDir is where rendered summaries of a class are stored.
func (s *implStore) SummaryDir(class string) string {
	return filepath.Join(s.root, class, summariesDir)
}

// copyFile streams src into a temp file next to dst and renames it into place.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}

func sameFile(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ia, ib), nil
}
