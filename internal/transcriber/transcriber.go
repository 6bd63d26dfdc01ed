package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/audiostore"
	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
)

// TranscribeFile returns the transcript of the file at path. The file is
// converted to 16 kHz mono WAV first when the backend needs it; the temporary
// WAV is removed afterwards.
func (t *implTranscriber) TranscribeFile(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperr.NewNotFound(path)
		}
		return "", apperr.NewInternal("could not read audio file", err)
	}

	if err := t.sem.acquire(ctx); err != nil {
		return "", fmt.Errorf("wait for transcriber: %w", err)
	}
	defer t.sem.release()

	if audiostore.IsVideo(path) {
		t.logger.Info(ctx, "Extracting audio track from video container: %s", path)
	}

	input := path
	if t.backend.needsWAV() {
		wav, err := t.extractAudio(ctx, path)
		if err != nil {
			return "", apperr.NewBackendFailure("could not decode audio", err)
		}
		defer t.cleanupTempFile(ctx, wav)
		input = wav
	}

	startTime := time.Now()
	t.logger.Info(ctx, "Starting transcription (%s): %s", t.backend.name(), path)

	text, err := t.backend.transcribe(ctx, input)
	if err != nil {
		return "", apperr.NewBackendFailure("transcription failed", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.NewBackendFailure("empty transcript", nil)
	}

	t.logger.Info(ctx, "Transcription completed in %s (%d chars)", time.Since(startTime).Round(time.Millisecond), len(text))
	return text, nil
}

func (t *implTranscriber) Close() error {
	return t.backend.close()
}

func (t *implTranscriber) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		t.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		t.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

// joinSegments collapses whisper's one-segment-per-line output into running text.
func joinSegments(raw string) string {
	lines := strings.Split(raw, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
