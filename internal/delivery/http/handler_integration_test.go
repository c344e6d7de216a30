package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecoswap/backend/config"
	"github.com/ecoswap/backend/internal/domain"
	"github.com/ecoswap/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:3000"},
		},
	}
}

// setupTestRouter creates a test router without a wired analysis service
func setupTestRouter() *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(nil))
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "ecoswap-backend" {
			t.Errorf("service = %v, want ecoswap-backend", response["service"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()
		for _, method := range []string{"POST", "PUT", "DELETE"} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestAnalyzeEndpointWithoutService(t *testing.T) {
	t.Run("returns not implemented without a wired service", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"productName":"Papel Sulfite"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotImplemented {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
		}
	})
}

func TestCORSIntegration(t *testing.T) {
	t.Run("analyze endpoint has CORS for Chrome extension", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/analyze", nil)
		req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "chrome-extension://abcdefghijklmnop" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})
}

// --- Stub implementations for testing with a real AnalysisService ---

type stubCache struct {
	data map[string]interface{}
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]interface{})}
}

func (s *stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	if value, ok := s.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *stubCache) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.data[key]
	return ok, nil
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubSearch struct{}

func (s *stubSearch) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	return nil, nil
}

func setupTestRouterWithService(llm *stubLLM, history domain.AnalysisRepository) *gin.Engine {
	analysisService := usecase.NewAnalysisService(
		newStubCache(),
		llm,
		&stubSearch{},
		history,
		nil,
		usecase.AnalysisServiceConfig{CacheTTL: time.Hour},
	)
	return SetupRouter(testConfig(), NewHandler(analysisService))
}

const stubLLMResponse = `{
	"isSustainable": false,
	"reason": "Papel sulfite comum sem certificação",
	"alternatives": [
		{"nome": "Papel Reciclado A4", "beneficios": ["100% reciclado"]}
	]
}`

func TestAnalyzeEndpointWithService(t *testing.T) {
	t.Run("returns normalized analysis for valid request", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{response: stubLLMResponse}, nil)

		payload := `{"productName":"Chamex Papel Sulfite A4","detectedType":"papel"}`
		req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response domain.NormalizedResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if n := len(response.Alternatives); n < 1 || n > 3 {
			t.Errorf("got %d alternatives, want 1..3", n)
		}
		if response.Reason == "" {
			t.Error("expected a reason")
		}
	})

	t.Run("accepts the legacy productInfo shape", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{response: stubLLMResponse}, nil)

		payload := `{"productInfo":{"productName":"Chamex Papel Sulfite A4","pageUrl":"https://loja.com/papel"}}`
		req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("returns 400 for missing productName", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{response: stubLLMResponse}, nil)

		req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"detectedType":"papel"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{response: stubLLMResponse}, nil)

		req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{invalid json}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("returns 500 with the raw text when the model breaks the contract", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{response: "sorry, no JSON today"}, nil)

		payload := `{"productName":"Chamex Papel Sulfite A4"}`
		req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["rawResponse"] != "sorry, no JSON today" {
			t.Errorf("rawResponse = %v", response["rawResponse"])
		}
	})

	t.Run("returns 500 when the provider is down", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{err: domain.ErrLLMFailure}, nil)

		payload := `{"productName":"Chamex Papel Sulfite A4"}`
		req, _ := http.NewRequest("POST", "/api/v1/analyze", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

type stubHistory struct {
	records []domain.AnalysisRecord
}

func (s *stubHistory) Save(ctx context.Context, record *domain.AnalysisRecord) error {
	record.ID = int64(len(s.records) + 1)
	s.records = append(s.records, *record)
	return nil
}

func (s *stubHistory) Recent(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	if limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]domain.AnalysisRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func TestRecentAnalysesEndpoint(t *testing.T) {
	t.Run("returns not implemented without a history store", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{response: stubLLMResponse}, nil)

		req, _ := http.NewRequest("GET", "/api/v1/analyses/recent", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotImplemented {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
		}
	})

	t.Run("returns persisted analyses newest first", func(t *testing.T) {
		history := &stubHistory{records: []domain.AnalysisRecord{
			{ID: 1, ProductName: "Papel Sulfite"},
			{ID: 2, ProductName: "Caneta BIC"},
		}}
		router := setupTestRouterWithService(&stubLLM{response: stubLLMResponse}, history)

		req, _ := http.NewRequest("GET", "/api/v1/analyses/recent?limit=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Analyses []domain.AnalysisRecord `json:"analyses"`
			Count    int                     `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Count != 1 || len(response.Analyses) != 1 {
			t.Fatalf("count = %d, analyses = %d, want 1", response.Count, len(response.Analyses))
		}
		if response.Analyses[0].ID != 2 {
			t.Errorf("first record ID = %d, want 2", response.Analyses[0].ID)
		}
	})

	t.Run("rejects a non-numeric limit", func(t *testing.T) {
		router := setupTestRouterWithService(&stubLLM{response: stubLLMResponse}, &stubHistory{})

		req, _ := http.NewRequest("GET", "/api/v1/analyses/recent?limit=abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
