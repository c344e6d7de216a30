package groq

import (
	"context"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ecoswap/backend/internal/domain"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the completion model used for product analysis.
	DefaultModel = "llama-3.3-70b-versatile"

	defaultTemperature = 0.3
	defaultMaxTokens   = 2000
	maxAttempts        = 3
)

// Config holds Groq client configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Client handles communication with the Groq chat completions API.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Groq API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	apiConfig := openai.DefaultConfig(config.APIKey)
	apiConfig.BaseURL = config.BaseURL

	// Groq's free tier allows 30 requests per minute
	limiter := rate.NewLimiter(rate.Limit(0.5), 5)

	return &Client{
		api:         openai.NewClientWithConfig(apiConfig),
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// CompleteJSON sends a system/user message pair and returns the raw
// JSON-formatted completion text. Transient failures are retried with
// exponential backoff.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
		if err != nil {
			if c.debug {
				log.Printf("[GROQ] request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
			continue
		}

		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: completion returned no choices", domain.ErrLLMFailure)
		}

		content := resp.Choices[0].Message.Content
		if c.debug {
			log.Printf("[GROQ] completion received (%d chars)", len(content))
		}
		return content, nil
	}

	return "", fmt.Errorf("%w: %v", domain.ErrLLMFailure, lastErr)
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}
