// Package llm provides the chat-completion client used to generate grounded
// answers. It speaks to Groq's OpenAI-compatible API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is Groq's fast Llama 3.1 model, well suited to
	// interactive question answering.
	DefaultModel = "llama-3.1-8b-instant"
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// Generation parameters for grounded answers.
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1000

	defaultRequestTimeout = 60 * time.Second
	defaultMaxRetries     = 2
)

var (
	// ErrNoAPIKey is returned when the chat API key is not configured
	ErrNoAPIKey = errors.New("GROQ_API_KEY environment variable not set")
	// ErrNoChoices is returned when the API responds without completions
	ErrNoChoices = errors.New("no completion choices returned")
)

// ChatAPI is the completion surface the client depends on.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds chat client configuration.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float32
	MaxTokens      int
	RequestTimeout time.Duration
	MaxRetries     int
}

// Client generates chat completions with per-request timeouts and retry.
type Client struct {
	api         ChatAPI
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	maxRetries  uint64
}

// NewClient creates a chat client for an OpenAI-compatible endpoint.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	} else {
		apiCfg.BaseURL = DefaultBaseURL
	}

	client := &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.RequestTimeout,
		maxRetries:  defaultMaxRetries,
	}
	if client.model == "" {
		client.model = DefaultModel
	}
	if client.temperature == 0 {
		client.temperature = DefaultTemperature
	}
	if client.maxTokens <= 0 {
		client.maxTokens = DefaultMaxTokens
	}
	if client.timeout <= 0 {
		client.timeout = defaultRequestTimeout
	}
	if cfg.MaxRetries > 0 {
		client.maxRetries = uint64(cfg.MaxRetries)
	}

	return client, nil
}

// Complete sends a system message plus a user prompt and returns the
// generated text.
func (c *Client) Complete(ctx context.Context, systemMessage, userMessage string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var answer string
	operation := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(reqCtx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(ErrNoChoices)
		}

		answer = resp.Choices[0].Message.Content
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	return answer, nil
}
