package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ecoswap/backend/internal/domain"
)

// DefaultBaseURL is the Tavily search API endpoint.
const DefaultBaseURL = "https://api.tavily.com"

// DefaultIncludeDomains restricts results to Brazilian sustainability
// references, where the extension's users shop and read.
var DefaultIncludeDomains = []string{
	"ecycle.com.br",
	"akatu.org.br",
	"idec.org.br",
	"greenpeace.org",
	"wwf.org.br",
}

const maxAttempts = 3

// Config holds Tavily client configuration
type Config struct {
	APIKey         string
	BaseURL        string
	IncludeDomains []string
}

// Client handles communication with the Tavily web search API
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	includeDomains []string
	rateLimiter    *rate.Limiter
	debug          bool
}

// NewClient creates a new Tavily API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.IncludeDomains == nil {
		config.IncludeDomains = DefaultIncludeDomains
	}

	// Tavily's basic plan allows roughly 100 requests per minute
	limiter := rate.NewLimiter(rate.Limit(1.5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:         config.APIKey,
		baseURL:        config.BaseURL,
		includeDomains: config.IncludeDomains,
		rateLimiter:    limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

type searchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Search runs a web search and maps the results to domain records.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	payload, err := json.Marshal(searchRequest{
		APIKey:         c.apiKey,
		Query:          query,
		SearchDepth:    "advanced",
		MaxResults:     maxResults,
		IncludeDomains: c.includeDomains,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		results, err := c.doSearch(ctx, payload)
		if err == nil {
			if c.debug {
				log.Printf("[TAVILY] %d results for query %q", len(results), query)
			}
			return results, nil
		}

		if c.debug {
			log.Printf("[TAVILY] request error (attempt %d): %v", attempt, err)
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt*500) * time.Millisecond):
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, lastErr)
}

func (c *Client) doSearch(ctx context.Context, payload []byte) ([]domain.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "EcoSwap/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		content := r.Content
		if content == "" {
			content = r.Snippet
		}
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			Content: content,
			URL:     r.URL,
		})
	}
	return results, nil
}
