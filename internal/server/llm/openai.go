package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the API answers without any choice.
var ErrEmptyCompletion = errors.New("llm: completion has no choices")

// OpenAIOptions tunes OpenAIGenerator. Zero values fall back to defaults.
type OpenAIOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// BaseURL overrides the API endpoint, e.g. for a compatible gateway.
	BaseURL string
}

const (
	defaultModel     = openai.GPT4oMini
	defaultMaxTokens = 1024
)

// OpenAIGenerator implements Generator using the OpenAI Chat Completions API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewOpenAIGenerator(apiKey string, opts OpenAIOptions) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	g := &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
	if g.model == "" {
		g.model = defaultModel
	}
	if g.maxTokens == 0 {
		g.maxTokens = defaultMaxTokens
	}
	return g
}

func (g *OpenAIGenerator) Generate(ctx context.Context, messages []Message) (string, error) {
	chat := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chat = append(chat, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    chat,
		MaxTokens:   g.maxTokens,
		Temperature: float32(g.temperature),
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
