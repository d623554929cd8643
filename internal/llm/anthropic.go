package llm

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicMessager is the part of the Anthropic client the model uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicModel calls the Anthropic Messages API.
type AnthropicModel struct {
	messages AnthropicMessager
	model    string
}

// NewAnthropicModel constructs an Anthropic-backed model.
func NewAnthropicModel(apiKey, model string) *AnthropicModel {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicModelWithMessager(&c.Messages, model)
}

// NewAnthropicModelWithMessager wires an existing messages service.
func NewAnthropicModelWithMessager(messages AnthropicMessager, model string) *AnthropicModel {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicModel{messages: messages, model: model}
}

// Name returns the Anthropic model id.
func (m *AnthropicModel) Name() string { return m.model }

// Generate sends the prompt and concatenates the text blocks of the reply.
func (m *AnthropicModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(m.model),
		MaxTokens:   4096,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0.2),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
