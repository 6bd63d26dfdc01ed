package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"google.golang.org/genai"
)

type geminiBackend struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
}

// NewGemini creates a Backend for one Gemini model that rotates through apiKeys
// on quota errors.
func NewGemini(model string, apiKeys []string, log logger.Logger) (Backend, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("gemini: no API keys configured")
	}
	if model == "" {
		return nil, errors.New("gemini: model must not be empty")
	}
	return &geminiBackend{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}, nil
}

func (g *geminiBackend) Name() string {
	return "gemini:" + g.model
}

// Generate sends prompt to Gemini. A rate-limited key is rotated out and the
// call retried with the next one until every key has been tried once.
func (g *geminiBackend) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(cfg.Temperature)),
		TopP:            genai.Ptr(float32(cfg.TopP)),
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
	}

	var lastErr error
	for range len(g.apiKeys) {
		keyIndex, key := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIndex+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			return text.String(), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiBackend) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

func (g *geminiBackend) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
