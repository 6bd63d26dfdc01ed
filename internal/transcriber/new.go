package transcriber

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

var modelSizes = []string{"tiny", "base", "small", "medium", "large"}

type implTranscriber struct {
	ffmpeg   config.FFmpegConfig
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
	sem      *semaphore
	backend  backend
}

// New creates the process-wide Transcriber for the configured backend. The
// returned handle owns the backend and must be closed by the caller.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	b, err := newBackend(cfg.Whisper, exec, log)
	if err != nil {
		return nil, err
	}
	return &implTranscriber{
		ffmpeg:   cfg.FFmpeg,
		tempDir:  cfg.Paths.Temp,
		executor: exec,
		logger:   log,
		sem:      newSemaphore(1),
		backend:  b,
	}, nil
}

func newBackend(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) (backend, error) {
	switch cfg.Backend {
	case "", "cli":
		log.Info(context.Background(), "whisper-cli reloads the model for every file; set whisper.backend to server to keep it resident")
		return &cliBackend{
			executor:   exec,
			binaryPath: cfg.BinaryPath,
			modelPath:  modelPath(cfg),
			language:   cfg.Language,
			threads:    cfg.Threads,
			prompt:     cfg.Prompt,
			logger:     log,
		}, nil
	case "server":
		return newServerBackend(cfg.ServerURL, cfg.Language, cfg.Timeout), nil
	case "openai":
		return newOpenAIBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown whisper backend %q", cfg.Backend)
	}
}

// modelPath resolves the ggml model file for a size token unless one is given.
func modelPath(cfg config.WhisperConfig) string {
	if cfg.ModelPath != "" {
		return cfg.ModelPath
	}
	return filepath.Join("models", "ggml-"+cfg.Model+".bin")
}

func isModelSize(model string) bool {
	return slices.Contains(modelSizes, model)
}
