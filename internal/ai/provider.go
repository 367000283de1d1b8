package ai

import (
	"fmt"
	"time"
)

type ProviderConfig struct {
	Provider          string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	Settings          Settings
}

// New builds the configured Generator, paced when RequestsPerSecond > 0.
func New(cfg ProviderConfig) (Generator, error) {
	var g Generator
	switch cfg.Provider {
	case "", openAIProvider:
		g = NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			Settings:   cfg.Settings,
		})
	case anthropicProvider:
		g = NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Settings)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	return NewPaced(g, cfg.RequestsPerSecond, 1), nil
}
