package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// ChatCompleter is the part of *openai.Client the model uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIModel calls the OpenAI chat completion API in JSON mode.
type OpenAIModel struct {
	client ChatCompleter
	model  string
}

// NewOpenAIModel constructs an OpenAI-backed model. An empty model name
// falls back to gpt-4o-mini.
func NewOpenAIModel(apiKey, model string) *OpenAIModel {
	return NewOpenAIModelWithClient(openai.NewClient(apiKey), model)
}

// NewOpenAIModelWithClient wires an existing completion client.
func NewOpenAIModelWithClient(client ChatCompleter, model string) *OpenAIModel {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIModel{client: client, model: model}
}

// Name returns the OpenAI model id.
func (m *OpenAIModel) Name() string { return m.model }

// Generate sends the prompt and returns the assistant's JSON answer.
func (m *OpenAIModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
