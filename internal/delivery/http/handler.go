package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ecoswap/backend/internal/domain"
	"github.com/ecoswap/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysisService *usecase.AnalysisService
}

// NewHandler creates a new HTTP handler
func NewHandler(analysisService *usecase.AnalysisService) *Handler {
	return &Handler{
		analysisService: analysisService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ecoswap-backend",
		"version": "1.0.0",
	})
}

// analyzeRequest accepts both the current flat request body and the legacy
// extension body that nests everything under "productInfo".
type analyzeRequest struct {
	ProductName        string   `json:"product_name"`
	ProductNameAlt     string   `json:"productName"`
	ProductURL         string   `json:"product_url"`
	PageURL            string   `json:"pageUrl"`
	ProductType        string   `json:"product_type"`
	DetectedType       string   `json:"detectedType"`
	ProductDescription string   `json:"productDescription"`
	BrandStoplist      []string `json:"brandStoplist"`
	BrandStoplistAlt   []string `json:"brand_stoplist"`

	ProductInfo *struct {
		ProductName string `json:"productName"`
		Description string `json:"description"`
		PageURL     string `json:"pageUrl"`
	} `json:"productInfo"`
}

// toDomain flattens the two accepted shapes into one request.
func (r *analyzeRequest) toDomain() *domain.AnalysisRequest {
	request := &domain.AnalysisRequest{
		ProductName:   r.ProductName,
		ProductType:   r.ProductType,
		Description:   r.ProductDescription,
		PageURL:       r.ProductURL,
		BrandStoplist: r.BrandStoplist,
	}
	if request.ProductName == "" {
		request.ProductName = r.ProductNameAlt
	}
	if request.ProductType == "" {
		request.ProductType = r.DetectedType
	}
	if request.PageURL == "" {
		request.PageURL = r.PageURL
	}
	if len(request.BrandStoplist) == 0 {
		request.BrandStoplist = r.BrandStoplistAlt
	}
	if r.ProductInfo != nil {
		if request.ProductName == "" {
			request.ProductName = r.ProductInfo.ProductName
		}
		if request.Description == "" {
			request.Description = r.ProductInfo.Description
		}
		if request.PageURL == "" {
			request.PageURL = r.ProductInfo.PageURL
		}
	}
	return request
}

// AnalyzeProduct handles product analysis requests
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	if h.analysisService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Product analysis is not configured",
		})
		return
	}

	var body analyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	request := body.toDomain()
	if request.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "productName is required",
		})
		return
	}

	response, err := h.analysisService.AnalyzeProduct(c.Request.Context(), request)
	if err != nil {
		h.handleAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RecentAnalyses returns the latest persisted analyses.
func (h *Handler) RecentAnalyses(c *gin.Context) {
	if h.analysisService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Product analysis is not configured",
		})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	records, err := h.analysisService.RecentAnalyses(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			c.JSON(http.StatusNotImplemented, gin.H{
				"error": "Analysis history is not enabled",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load analyses: " + err.Error(),
		})
		return
	}

	if records == nil {
		records = []domain.AnalysisRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": records,
		"count":    len(records),
	})
}

// handleAnalysisError maps usecase errors to HTTP responses. An unparsable
// LLM reply keeps its raw text in the response so the extension can show it.
func (h *Handler) handleAnalysisError(c *gin.Context, err error) {
	var invalidResponse *domain.InvalidLLMResponseError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "productName is required",
		})
	case errors.As(err, &invalidResponse):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":       "AI response was not valid JSON",
			"rawResponse": invalidResponse.RawResponse,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Analysis failed: " + err.Error(),
		})
	}
}
