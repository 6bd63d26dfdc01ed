package summarizer

import (
	"context"
	"fmt"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

// NewBackends builds the ordered candidate list from configuration. Candidates
// whose credentials are missing are skipped with a warning, so an empty result
// is possible and leaves the engine in offline preview mode.
func NewBackends(ctx context.Context, cfg config.SummarizerConfig, log logger.Logger) ([]Backend, error) {
	var backends []Backend
	for i, bc := range cfg.Backends {
		var (
			b   Backend
			err error
		)
		switch bc.Provider {
		case "gemini":
			if len(cfg.GeminiAPIKeys) == 0 {
				log.Warn(ctx, "Skipping backend %d (%s): GEMINI_API_KEY not set", i, bc.Model)
				continue
			}
			b, err = NewGemini(bc.Model, cfg.GeminiAPIKeys, log)
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				log.Warn(ctx, "Skipping backend %d (%s): OPENAI_API_KEY not set", i, bc.Model)
				continue
			}
			b, err = NewOpenAI(bc.Model, cfg.OpenAIAPIKey, bc.BaseURL)
		case "anyllm":
			var opts []anyllmlib.Option
			if cfg.AnyLLMAPIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(cfg.AnyLLMAPIKey))
			}
			if bc.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(bc.BaseURL))
			}
			b, err = NewAnyLLM(bc.LLMProvider, bc.Model, opts...)
		default:
			err = fmt.Errorf("unknown provider %q", bc.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("summarizer backend %d: %w", i, err)
		}
		backends = append(backends, b)
	}
	return backends, nil
}
