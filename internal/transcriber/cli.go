package transcriber

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

// cliBackend runs whisper.cpp's whisper-cli once per file.
type cliBackend struct {
	executor   executor.Executor
	binaryPath string
	modelPath  string
	language   string
	threads    int
	prompt     string
	logger     logger.Logger
}

func (c *cliBackend) name() string   { return "whisper-cli" }
func (c *cliBackend) needsWAV() bool { return true }
func (c *cliBackend) close() error   { return nil }

func (c *cliBackend) transcribe(ctx context.Context, wavPath string) (string, error) {
	// whisper-cli appends .txt to the output prefix.
	outputPrefix := strings.TrimSuffix(wavPath, ".wav")
	txtPath := outputPrefix + ".txt"
	defer os.Remove(txtPath)

	// -otxt with -nt writes plain text without timestamps.
	args := []string{
		"-m", c.modelPath,
		"-f", wavPath,
		"-otxt",
		"-nt",
		"-l", c.language,
		"-t", strconv.Itoa(c.threads),
		"--output-file", outputPrefix,
	}
	if c.prompt != "" {
		args = append(args, "--prompt", c.prompt)
	}

	c.logger.Debug(ctx, "Running %s with %d threads", c.binaryPath, c.threads)
	if _, err := c.executor.Execute(ctx, c.binaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	return joinSegments(string(data)), nil
}
