package domain

import "time"

// Alternative is a sustainable product suggestion in the canonical shape
// consumed by the browser extension.
type Alternative struct {
	Name        string   `json:"name"`
	Benefits    []string `json:"benefits"`
	SearchTerms []string `json:"searchTerms"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// NormalizedResponse is the schema-stable payload returned for one analysis.
// Alternatives is never empty: the fallback guarantees at least one entry.
type NormalizedResponse struct {
	IsSustainable bool          `json:"isSustainable"`
	Reason        string        `json:"reason"`
	Alternatives  []Alternative `json:"alternatives"`
}

// AnalysisRequest represents a product analysis request from the extension
type AnalysisRequest struct {
	ProductName   string   `json:"productName" binding:"required"`
	ProductType   string   `json:"productType,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageURL       string   `json:"pageUrl,omitempty"`
	BrandStoplist []string `json:"brandStoplist,omitempty"`
}

// SearchResult is a single snippet returned by the web search provider.
type SearchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// AnalysisRecord is a persisted analysis outcome for the history endpoint.
type AnalysisRecord struct {
	ID            int64         `json:"id"`
	ProductName   string        `json:"productName"`
	ProductType   string        `json:"productType"`
	IsSustainable bool          `json:"isSustainable"`
	Reason        string        `json:"reason"`
	Alternatives  []Alternative `json:"alternatives"`
	CreatedAt     time.Time     `json:"createdAt"`
}
