package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Output      OutputConfig      `yaml:"output"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type WhisperConfig struct {
	// Backend is one of cli, server, openai. cli starts whisper-cli per file and
	// reloads the model every time; server talks to a whisper-server that keeps
	// the model resident and is the recommended choice for watch mode.
	Backend    string        `yaml:"backend"`
	Model      string        `yaml:"model"`
	ModelPath  string        `yaml:"model_path"`
	BinaryPath string        `yaml:"binary_path"`
	ServerURL  string        `yaml:"server_url"`
	Language   string        `yaml:"language"`
	Prompt     string        `yaml:"prompt"`
	Threads    int           `yaml:"threads"`
	Timeout    time.Duration `yaml:"timeout"`
	APIKey     string        `yaml:"-"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	Classes   string   `yaml:"classes"`
	Inbox     string   `yaml:"inbox"`
	Temp      string   `yaml:"temp"`
	ClassData []string `yaml:"class_data"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// BackendConfig names one summarization candidate. Provider is gemini, openai or
// anyllm; LLMProvider selects the any-llm-go provider (ollama, anthropic, ...).
type BackendConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	LLMProvider string `yaml:"llm_provider"`
	BaseURL     string `yaml:"base_url"`
}

type SummarizerConfig struct {
	Backends        []BackendConfig `yaml:"backends"`
	Timeout         time.Duration   `yaml:"timeout"`
	Temperature     float64         `yaml:"temperature"`
	TopP            float64         `yaml:"top_p"`
	MaxOutputTokens int             `yaml:"max_output_tokens"`
	PreviewChars    int             `yaml:"preview_chars"`

	GeminiAPIKeys []string `yaml:"-"`
	OpenAIAPIKey  string   `yaml:"-"`
	AnyLLMAPIKey  string   `yaml:"-"`
}

type OutputConfig struct {
	DOCX            bool   `yaml:"docx"`
	GeneratorCredit string `yaml:"generator_credit"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

var (
	whisperBackends  = []string{"cli", "server", "openai"}
	summaryProviders = []string{"gemini", "openai", "anyllm"}
	modelSizes       = []string{"tiny", "base", "small", "medium", "large"}
)

// Load reads the YAML file at path, overlays API keys from the environment (and a
// .env file in the working directory, if any) and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if keys := splitAndTrim(os.Getenv("GEMINI_API_KEY")); len(keys) > 0 {
		c.Summarizer.GeminiAPIKeys = keys
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Summarizer.OpenAIAPIKey = key
		c.Whisper.APIKey = key
	}
	if key := os.Getenv("ANYLLM_API_KEY"); key != "" {
		c.Summarizer.AnyLLMAPIKey = key
	}
}

func (c *Config) Validate() error {
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = "cli"
	}
	if !contains(whisperBackends, c.Whisper.Backend) {
		return fmt.Errorf("whisper.backend must be one of %s", strings.Join(whisperBackends, ", "))
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "tiny"
	}
	if c.Whisper.Backend != "openai" && c.Whisper.ModelPath == "" && !contains(modelSizes, c.Whisper.Model) {
		return fmt.Errorf("whisper.model must be one of %s", strings.Join(modelSizes, ", "))
	}
	if c.Whisper.Backend == "cli" && c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Whisper.Backend == "server" && c.Whisper.ServerURL == "" {
		return fmt.Errorf("whisper.server_url is required")
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.Timeout == 0 {
		c.Whisper.Timeout = 10 * time.Minute
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}

	if c.Paths.Classes == "" {
		c.Paths.Classes = "data/classes"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if len(c.Paths.ClassData) == 0 {
		c.Paths.ClassData = []string{"class_data.json", "data/class_data.json"}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}

	if len(c.Summarizer.Backends) == 0 {
		c.Summarizer.Backends = []BackendConfig{
			{Provider: "gemini", Model: "gemini-2.0-flash"},
			{Provider: "gemini", Model: "gemini-2.5-flash"},
			{Provider: "gemini", Model: "gemini-1.5-pro"},
		}
	}
	for i, b := range c.Summarizer.Backends {
		if !contains(summaryProviders, b.Provider) {
			return fmt.Errorf("summarizer.backends[%d].provider must be one of %s", i, strings.Join(summaryProviders, ", "))
		}
		if b.Model == "" {
			return fmt.Errorf("summarizer.backends[%d].model is required", i)
		}
		if b.Provider == "anyllm" && b.LLMProvider == "" {
			return fmt.Errorf("summarizer.backends[%d].llm_provider is required for anyllm", i)
		}
	}
	if c.Summarizer.Timeout == 0 {
		c.Summarizer.Timeout = 90 * time.Second
	}
	if c.Summarizer.Temperature == 0 {
		c.Summarizer.Temperature = 0.25
	}
	if c.Summarizer.TopP == 0 {
		c.Summarizer.TopP = 0.9
	}
	if c.Summarizer.MaxOutputTokens == 0 {
		c.Summarizer.MaxOutputTokens = 900
	}
	if c.Summarizer.PreviewChars == 0 {
		c.Summarizer.PreviewChars = 2000
	}

	if c.Output.GeneratorCredit == "" {
		c.Output.GeneratorCredit = "Generated by LectureFlow"
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
