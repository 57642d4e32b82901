package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Generation defaults.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMaxTokens   = 2500
	DefaultTemperature = 0.7
)

// Generator sends a prompt to a language model and returns its raw reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorConfig configures an OpenAIGenerator.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// OpenAIGenerator wraps the official OpenAI Go SDK
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewOpenAIGenerator creates a generator. Retries are disabled so a failed
// call surfaces immediately.
func NewOpenAIGenerator(cfg GeneratorConfig) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: temperature,
	}
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(g.maxTokens),
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateQA builds the prompt, calls gen and validates the reply.
func GenerateQA(ctx context.Context, gen Generator, count int, text string) (*Result, error) {
	prompt, err := BuildPrompt(count, text)
	if err != nil {
		return nil, err
	}

	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	return ValidateResponse(raw)
}

// GenerationError wraps a failure of the model API call itself, as opposed to
// an unusable reply.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("OpenAI API error: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
