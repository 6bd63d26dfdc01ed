package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// extractAudio converts any audio or video input to a 16 kHz mono PCM WAV in the
// temp directory, the input format whisper.cpp expects.
func (t *implTranscriber) extractAudio(ctx context.Context, inputPath string) (string, error) {
	if err := os.MkdirAll(t.tempDir, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	tmp, err := os.CreateTemp(t.tempDir, stem+"-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	wavPath := tmp.Name()
	tmp.Close()

	t.logger.Debug(ctx, "Extracting audio: %s -> %s", inputPath, wavPath)

	// -vn drops any video stream; pcm_s16le keeps the samples uncompressed.
	args := []string{
		"-i", inputPath,
		"-vn",
		"-ar", strconv.Itoa(t.ffmpeg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg.BinaryPath, args...); err != nil {
		os.Remove(wavPath)
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	return wavPath, nil
}
