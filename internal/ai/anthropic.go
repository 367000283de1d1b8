package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

const anthropicProvider = "anthropic"

// AnthropicClient generates text with the Anthropic Messages API through llmkit.
type AnthropicClient struct {
	apiKey   string
	settings Settings
}

func NewAnthropicClient(apiKey string, settings Settings) *AnthropicClient {
	if settings.Stages == nil {
		settings = DefaultSettings(DefaultModel(anthropicProvider))
	}
	return &AnthropicClient{apiKey: strings.TrimSpace(apiKey), settings: settings}
}

func (c *AnthropicClient) Generate(ctx context.Context, p Prompt) (string, error) {
	if c.apiKey == "" {
		return "", serviceErr(anthropicProvider, 0, ErrUnavailable)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	profile := c.settings.Profile(p.Stage)
	settings := types.RequestSettings{
		Model:       profile.Model,
		MaxTokens:   profile.MaxTokens,
		Temperature: profile.Temperature,
	}

	// llmkit calls are not context aware; the caller is released on cancellation
	// and the buffered channel lets the call finish in the background.
	go func() {
		resp, err := anthropic.PromptWithSettings(p.System, p.User, "", c.apiKey, settings)
		if err != nil {
			done <- result{err: err}
			return
		}
		if len(resp.Content) == 0 {
			done <- result{err: errors.New("no content in response")}
			return
		}
		done <- result{text: resp.Content[0].Text}
	}()

	select {
	case <-ctx.Done():
		return "", serviceErr(anthropicProvider, 0, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", serviceErr(anthropicProvider, 0, r.err)
		}
		return r.text, nil
	}
}
