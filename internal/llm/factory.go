package llm

import (
	"context"
	"fmt"
	"strings"

	"vet-chatter/internal/config"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	GeminiAPIKeys      []string
	GeminiModel        string
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenaiModel        string
	OpenRouterReferrer string
	OpenRouterTitle    string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		GeminiAPIKeys:      cfg.GeminiAPIKeys,
		GeminiModel:        cfg.GeminiModel,
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenaiModel:        cfg.OpenAIModel,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
	}
}

func (f *Factory) CreateClient(ctx context.Context, provider string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderGemini:
		return NewGemini(ctx, f.GeminiAPIKeys, f.GeminiModel)
	case ProviderOpenAI:
		if f.OpenaiAPIKey == "" {
			return nil, fmt.Errorf("openai api key is not set")
		}
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, f.OpenaiModel, f.OpenRouterReferrer, f.OpenRouterTitle), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
