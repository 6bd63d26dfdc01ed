package summarizer

import "context"

// GenerationConfig holds the sampling settings sent to every backend.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
}

// DefaultGenerationConfig biases backends toward short, deterministic output.
var DefaultGenerationConfig = GenerationConfig{
	Temperature:     0.25,
	TopP:            0.9,
	MaxOutputTokens: 900,
}

// Backend is one text-generation candidate.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

// Result is the outcome of a summarization run.
type Result struct {
	Text       string
	Backend    string
	Degraded   bool
	Validation Validation
}

// Engine turns source text into a structured summary.
type Engine interface {
	// Summarize tries each backend in order. When all of them fail it returns a
	// degraded Result holding a local preview of text together with an error
	// wrapping ErrAllFailed.
	Summarize(ctx context.Context, text string) (Result, error)
}
