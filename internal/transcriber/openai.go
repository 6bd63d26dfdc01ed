package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

const defaultOpenAIModel = "whisper-1"

// openaiBackend uploads the original file to the hosted transcription API.
type openaiBackend struct {
	client   oai.Client
	model    string
	language string
	prompt   string
}

func newOpenAIBackend(cfg config.WhisperConfig) (*openaiBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai transcription requires OPENAI_API_KEY")
	}
	model := cfg.Model
	if model == "" || isModelSize(model) {
		model = defaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.ServerURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.ServerURL))
	}
	return &openaiBackend{
		client:   oai.NewClient(opts...),
		model:    model,
		language: cfg.Language,
		prompt:   cfg.Prompt,
	}, nil
}

func (o *openaiBackend) name() string   { return "openai:" + o.model }
func (o *openaiBackend) needsWAV() bool { return false }
func (o *openaiBackend) close() error   { return nil }

func (o *openaiBackend) transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("openai: open audio: %w", err)
	}
	defer f.Close()

	params := oai.AudioTranscriptionNewParams{
		File:  f,
		Model: oai.AudioModel(o.model),
	}
	if o.language != "" {
		params.Language = param.NewOpt(o.language)
	}
	if o.prompt != "" {
		params.Prompt = param.NewOpt(o.prompt)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: transcription: %w", err)
	}
	return resp.Text, nil
}
