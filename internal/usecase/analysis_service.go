package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ecoswap/backend/internal/domain"
)

const defaultSearchMaxResults = 5

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL           time.Duration
	MinScore           int
	MaxAlternatives    int
	SearchMaxResults   int
	EnableDebugLogging bool
}

// AnalysisService orchestrates a product analysis: cache lookup, web search,
// LLM completion, response normalization and history persistence.
type AnalysisService struct {
	cache            domain.CacheRepository
	llm              domain.LLMClient
	search           domain.SearchClient
	history          domain.AnalysisRepository
	normalizer       *NormalizerService
	cacheTTL         time.Duration
	minScore         int
	maxAlternatives  int
	searchMaxResults int
	debug            bool
}

// NewAnalysisService creates an analysis service with dependencies. history
// may be nil when persistence is disabled.
func NewAnalysisService(
	cache domain.CacheRepository,
	llm domain.LLMClient,
	search domain.SearchClient,
	history domain.AnalysisRepository,
	normalizer *NormalizerService,
	config AnalysisServiceConfig,
) *AnalysisService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	searchMaxResults := config.SearchMaxResults
	if searchMaxResults <= 0 {
		searchMaxResults = defaultSearchMaxResults
	}
	if normalizer == nil {
		normalizer = NewNormalizerService(nil)
	}

	return &AnalysisService{
		cache:            cache,
		llm:              llm,
		search:           search,
		history:          history,
		normalizer:       normalizer,
		cacheTTL:         cacheTTL,
		minScore:         config.MinScore,
		maxAlternatives:  config.MaxAlternatives,
		searchMaxResults: searchMaxResults,
		debug:            config.EnableDebugLogging,
	}
}

// AnalyzeProduct runs one analysis.
// Flow: check cache -> search web -> ask LLM -> normalize -> cache -> persist
func (s *AnalysisService) AnalyzeProduct(ctx context.Context, request *domain.AnalysisRequest) (*domain.NormalizedResponse, error) {
	if request == nil || request.ProductName == "" {
		return nil, domain.ErrInvalidRequest
	}

	productType := request.ProductType
	if productType == "" {
		productType = DetectProductType(request.ProductName + " " + request.Description)
	}
	brand := ExtractBrand(request.ProductName)

	cacheKey := s.generateCacheKey(request.ProductName, productType)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		if s.debug {
			log.Printf("[ANALYZE] cache hit for %q", cacheKey)
		}
		return cached, nil
	}

	// Search is best-effort: the LLM can still answer from its own
	// knowledge when the provider is down.
	results, err := s.search.Search(ctx, BuildSearchQuery(productType, brand), s.searchMaxResults)
	if err != nil {
		if s.debug {
			log.Printf("[ANALYZE] web search failed: %v", err)
		}
		results = nil
	}

	prompt := BuildAnalysisPrompt(request.ProductName, productType, brand, results)
	raw, err := s.llm.CompleteJSON(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}

	var aiJSON interface{}
	if err := json.Unmarshal([]byte(raw), &aiJSON); err != nil {
		return nil, &domain.InvalidLLMResponseError{RawResponse: raw, Err: err}
	}

	brandStoplist := request.BrandStoplist
	if len(brandStoplist) == 0 && brand != "" {
		// Keep the original product's brand from being re-suggested.
		brandStoplist = []string{brand}
	}

	response, decisions := s.normalizer.Normalize(aiJSON, productType, NormalizeOptions{
		MinScore:        s.minScore,
		MaxAlternatives: s.maxAlternatives,
		URLContext:      request.PageURL,
		BrandStoplist:   brandStoplist,
	})
	if s.debug {
		for _, d := range decisions {
			log.Printf("[NORMALIZE] %q score=%d accepted=%v", d.Name, d.Score, d.Accepted)
		}
	}

	if err := s.setInCache(ctx, cacheKey, response); err != nil && s.debug {
		log.Printf("[ANALYZE] cache set failed: %v", err)
	}
	s.saveHistory(ctx, request.ProductName, productType, response)

	return response, nil
}

// RecentAnalyses returns the latest persisted analyses.
func (s *AnalysisService) RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	if s.history == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 20
	}
	return s.history.Recent(ctx, limit)
}

// generateCacheKey creates a normalized cache key.
// Format: "analysis:{normalized_product_name}:{normalized_type}"
func (s *AnalysisService) generateCacheKey(productName, productType string) string {
	return fmt.Sprintf("analysis:%s:%s", normalizeText(productName), normalizeText(productType))
}

// getFromCache retrieves a normalized response stored as a JSON string.
func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.NormalizedResponse, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	payload, ok := value.(string)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	var response domain.NormalizedResponse
	if err := json.Unmarshal([]byte(payload), &response); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &response, nil
}

func (s *AnalysisService) setInCache(ctx context.Context, key string, response *domain.NormalizedResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, string(payload), s.cacheTTL)
}

// saveHistory persists the outcome; failures are logged, never surfaced.
func (s *AnalysisService) saveHistory(ctx context.Context, productName, productType string, response *domain.NormalizedResponse) {
	if s.history == nil {
		return
	}
	record := &domain.AnalysisRecord{
		ProductName:   productName,
		ProductType:   productType,
		IsSustainable: response.IsSustainable,
		Reason:        response.Reason,
		Alternatives:  response.Alternatives,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.history.Save(ctx, record); err != nil && s.debug {
		log.Printf("[ANALYZE] history save failed: %v", err)
	}
}
