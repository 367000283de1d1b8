package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openAIProvider = "openai"

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Settings   Settings
	HTTPClient *http.Client
}

// OpenAIClient calls the chat completions endpoint of an OpenAI-compatible API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	maxRetries int
	settings   Settings
	httpClient *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Settings.Stages == nil {
		cfg.Settings = DefaultSettings("")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &OpenAIClient{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		settings:   cfg.Settings,
		httpClient: cfg.HTTPClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Generate(ctx context.Context, p Prompt) (string, error) {
	if c.apiKey == "" {
		return "", serviceErr(openAIProvider, 0, ErrUnavailable)
	}

	profile := c.settings.Profile(p.Stage)
	body, err := json.Marshal(chatRequest{
		Model: profile.Model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature: profile.Temperature,
		MaxTokens:   profile.MaxTokens,
	})
	if err != nil {
		return "", serviceErr(openAIProvider, 0, fmt.Errorf("marshal request: %w", err))
	}

	var lastErr *ServiceError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		text, callErr := c.call(ctx, body)
		if callErr == nil {
			return text, nil
		}
		lastErr = callErr
		if !callErr.Retryable() || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(500*(attempt+1)) * time.Millisecond
		select {
		case <-ctx.Done():
			return "", serviceErr(openAIProvider, 0, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return "", lastErr
}

func (c *OpenAIClient) call(ctx context.Context, body []byte) (string, *ServiceError) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", serviceErr(openAIProvider, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return "", serviceErr(openAIProvider, 0, fmt.Errorf("transport: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", serviceErr(openAIProvider, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > 500 {
			msg = msg[:500]
		}
		return "", serviceErr(openAIProvider, resp.StatusCode, errors.New(msg))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", serviceErr(openAIProvider, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", serviceErr(openAIProvider, resp.StatusCode, errors.New("empty completion"))
	}
	return out.Choices[0].Message.Content, nil
}
