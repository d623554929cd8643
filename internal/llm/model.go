package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediassist-server/internal/config"
)

// Model is a generative model that answers a prompt with a JSON document.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the model in monitoring records.
	Name() string
}

// ErrEmptyResponse is returned when the provider answers with no content.
var ErrEmptyResponse = errors.New("model returned an empty response")

// systemPrompt frames every call; the per-case instructions travel in the
// user prompt.
const systemPrompt = "You are a senior clinical consultant and medical scribe. Respond with strict JSON only."

// New builds the configured provider's model.
func New(cfg config.AIConfig) (Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		if cfg.OpenAIKey == "" {
			return nil, errors.New("OPENAI_API_KEY not configured")
		}
		return NewOpenAIModel(cfg.OpenAIKey, cfg.Model), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY not configured")
		}
		return NewAnthropicModel(cfg.AnthropicKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}
