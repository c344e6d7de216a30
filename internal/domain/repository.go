package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// LLMClient defines the interface for the completion provider. The returned
// string is expected to be JSON-formatted text.
type LLMClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SearchClient defines the interface for the web search provider
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// AnalysisRepository defines the interface for analysis history persistence
type AnalysisRepository interface {
	Save(ctx context.Context, record *AnalysisRecord) error
	Recent(ctx context.Context, limit int) ([]AnalysisRecord, error)
}
