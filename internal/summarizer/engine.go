package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
)

var (
	// ErrAllFailed is wrapped by the error Summarize returns when no backend
	// produced a usable response.
	ErrAllFailed = errors.New("all summarization backends failed")

	errEmptyResponse = errors.New("empty response")
)

const previewHeader = "[LLM disabled - local preview]\n"

func (e *implEngine) Summarize(ctx context.Context, text string) (Result, error) {
	prompt := BuildPrompt(text)

	lastErr := errors.New("no backends configured")
	for i, b := range e.backends {
		e.logger.Info(ctx, "[%d/%d] Trying backend: %s", i+1, len(e.backends), b.Name())

		out, err := e.generate(ctx, b, prompt)
		e.observer(b.Name(), err)
		if err != nil {
			e.logger.Warn(ctx, "Backend %s failed: %v", b.Name(), err)
			lastErr = fmt.Errorf("%s: %w", b.Name(), err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		repaired, v := Repair(out)
		if !v.Conforming() {
			e.logger.Warn(ctx, "Summary from %s does not match the expected structure: %s", b.Name(), strings.Join(v.Issues(), "; "))
		}
		return Result{Text: repaired, Backend: b.Name(), Validation: v}, nil
	}

	return Result{Text: Preview(text, e.previewChars), Degraded: true},
		apperr.NewBackendFailure("could not generate summary", fmt.Errorf("%w: %v", ErrAllFailed, lastErr))
}

func (e *implEngine) generate(ctx context.Context, b Backend, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := b.Generate(callCtx, prompt, e.genCfg)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errEmptyResponse
	}
	return out, nil
}

// Preview is the offline stand-in for a summary: the first n runes of text
// under a fixed header, with an ellipsis when truncated.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return previewHeader + text
	}
	return previewHeader + string(runes[:n]) + "..."
}
