package processor

import (
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/audiostore"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/metadata"
	"github.com/nguyentantai21042004/lecture-flow/internal/metrics"
	"github.com/nguyentantai21042004/lecture-flow/internal/renderer"
	"github.com/nguyentantai21042004/lecture-flow/internal/summarizer"
	"github.com/nguyentantai21042004/lecture-flow/internal/transcriber"
)

// Dependencies are the components a Processor drives. Metrics may be nil.
type Dependencies struct {
	Store       audiostore.Store
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Engine
	Resolver    metadata.Resolver
	Renderer    renderer.Renderer
	Metrics     *metrics.Metrics
	Logger      logger.Logger
}

type implProcessor struct {
	store       audiostore.Store
	transcriber transcriber.Transcriber
	summarizer  summarizer.Engine
	resolver    metadata.Resolver
	renderer    renderer.Renderer
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
	docx        bool
}

// Option configures a Processor.
type Option func(*implProcessor)

// WithClock overrides the clock used for summary filenames.
func WithClock(now func() time.Time) Option {
	return func(p *implProcessor) {
		p.now = now
	}
}

// WithDOCX also exports each summary as a Word document.
func WithDOCX(enabled bool) Option {
	return func(p *implProcessor) {
		p.docx = enabled
	}
}

// New creates a new Processor instance
func New(deps Dependencies, opts ...Option) Processor {
	p := &implProcessor{
		store:       deps.Store,
		transcriber: deps.Transcriber,
		summarizer:  deps.Summarizer,
		resolver:    deps.Resolver,
		renderer:    deps.Renderer,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		now:         time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}
