package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nguyentantai21042004/lecture-flow/internal/audiostore"
	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
	"github.com/nguyentantai21042004/lecture-flow/internal/metrics"
	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
	"github.com/nguyentantai21042004/lecture-flow/internal/renderer"
	"github.com/nguyentantai21042004/lecture-flow/internal/summarizer"
	"github.com/nguyentantai21042004/lecture-flow/internal/transcriber"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

// runtime holds the pieces every command shares.
type runtime struct {
	cfg    *config.Config
	logger logger.Logger
	store  audiostore.Store
}

// loadRuntime reads the config named by the global --config flag.
func loadRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}
	return &runtime{
		cfg:    cfg,
		logger: logger.New(cfg.Logging.Level, cfg.Logging.Format),
		store:  audiostore.New(cfg.Paths.Classes),
	}, nil
}

func (r *runtime) resolver() metadata.Resolver {
	return metadata.New(r.cfg.Paths.ClassData, r.logger)
}

// pipeline wires the full processor. The returned close func releases the
// transcription backend.
func (r *runtime) pipeline(ctx context.Context, m *metrics.Metrics) (processor.Processor, func(), error) {
	tr, err := transcriber.New(r.cfg, executor.New(), r.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create transcriber: %w", err)
	}

	backends, err := summarizer.NewBackends(ctx, r.cfg.Summarizer, r.logger)
	if err != nil {
		tr.Close()
		return nil, nil, fmt.Errorf("create summarization backends: %w", err)
	}
	if len(backends) == 0 {
		r.logger.Warn(ctx, "No summarization backend configured, summaries will be local previews only")
	}

	sc := r.cfg.Summarizer
	engine := summarizer.New(backends, r.logger,
		summarizer.WithTimeout(sc.Timeout),
		summarizer.WithGenerationConfig(summarizer.GenerationConfig{
			Temperature:     sc.Temperature,
			TopP:            sc.TopP,
			MaxOutputTokens: sc.MaxOutputTokens,
		}),
		summarizer.WithPreviewChars(sc.PreviewChars),
		summarizer.WithObserver(m.ObserveBackend),
	)

	proc := processor.New(processor.Dependencies{
		Store:       r.store,
		Transcriber: tr,
		Summarizer:  engine,
		Resolver:    r.resolver(),
		Renderer:    renderer.New(r.cfg.Output.GeneratorCredit),
		Metrics:     m,
		Logger:      r.logger,
	}, processor.WithDOCX(r.cfg.Output.DOCX))

	closeFn := func() {
		if err := tr.Close(); err != nil {
			r.logger.Warn(ctx, "Failed to close transcriber: %v", err)
		}
	}
	return proc, closeFn, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Classes,
		cfg.Paths.Inbox,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
