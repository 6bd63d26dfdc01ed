package summarizer

import (
	"context"
	"errors"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

type openaiBackend struct {
	client oai.Client
	model  string
}

// NewOpenAI creates a Backend using OpenAI chat completions. baseURL may point
// at any OpenAI-compatible endpoint.
func NewOpenAI(model, apiKey, baseURL string) (Backend, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key must not be empty")
	}
	if model == "" {
		return nil, errors.New("openai: model must not be empty")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openaiBackend{
		client: oai.NewClient(opts...),
		model:  model,
	}, nil
}

func (o *openaiBackend) Name() string {
	return "openai:" + o.model
}

func (o *openaiBackend) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.model),
		Messages: []oai.ChatCompletionMessageParamUnion{oai.UserMessage(prompt)},
	}
	if cfg.Temperature != 0 {
		params.Temperature = param.NewOpt(cfg.Temperature)
	}
	if cfg.TopP != 0 {
		params.TopP = param.NewOpt(cfg.TopP)
	}
	if cfg.MaxOutputTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(cfg.MaxOutputTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
