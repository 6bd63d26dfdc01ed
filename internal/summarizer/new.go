package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

const (
	defaultTimeout      = 90 * time.Second
	defaultPreviewChars = 2000
)

// Observer is notified after every backend call; err is nil on success.
type Observer func(backend string, err error)

type implEngine struct {
	backends     []Backend
	genCfg       GenerationConfig
	timeout      time.Duration
	previewChars int
	observer     Observer
	logger       logger.Logger
}

// Option configures an Engine.
type Option func(*implEngine)

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option {
	return func(e *implEngine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithGenerationConfig(cfg GenerationConfig) Option {
	return func(e *implEngine) {
		e.genCfg = cfg
	}
}

// WithPreviewChars sets how much source text the degraded preview keeps.
func WithPreviewChars(n int) Option {
	return func(e *implEngine) {
		if n > 0 {
			e.previewChars = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *implEngine) {
		e.observer = o
	}
}

// New creates an Engine over the given backends, tried in order.
func New(backends []Backend, log logger.Logger, opts ...Option) Engine {
	e := &implEngine{
		backends:     backends,
		genCfg:       DefaultGenerationConfig,
		timeout:      defaultTimeout,
		previewChars: defaultPreviewChars,
		observer:     func(string, error) {},
		logger:       log,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}
