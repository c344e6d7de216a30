package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("ECOSWAP_SERVER_PORT")
		os.Unsetenv("ECOSWAP_SERVER_ENVIRONMENT")
		os.Unsetenv("ECOSWAP_GROQ_API_KEY")
		os.Unsetenv("ECOSWAP_GROQ_MODEL")
		os.Unsetenv("ECOSWAP_TAVILY_API_KEY")
		os.Unsetenv("ECOSWAP_TAVILY_MAX_RESULTS")
		os.Unsetenv("ECOSWAP_CACHE_TYPE")
		os.Unsetenv("ECOSWAP_CACHE_REDIS_URL")
		os.Unsetenv("ECOSWAP_CACHE_TTL")
		os.Unsetenv("ECOSWAP_STORE_ENABLED")
		os.Unsetenv("ECOSWAP_STORE_PATH")
		os.Unsetenv("ECOSWAP_SCORING_MIN_SCORE")
		os.Unsetenv("ECOSWAP_SCORING_MAX_ALTERNATIVES")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required API key
		os.Setenv("ECOSWAP_GROQ_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Groq.Model != "llama-3.3-70b-versatile" {
			t.Errorf("Groq.Model = %s, want llama-3.3-70b-versatile", cfg.Groq.Model)
		}
		if cfg.Groq.Temperature != 0.3 {
			t.Errorf("Groq.Temperature = %v, want 0.3", cfg.Groq.Temperature)
		}
		if cfg.Tavily.BaseURL != "https://api.tavily.com" {
			t.Errorf("Tavily.BaseURL = %s, want https://api.tavily.com", cfg.Tavily.BaseURL)
		}
		if cfg.Tavily.MaxResults != 5 {
			t.Errorf("Tavily.MaxResults = %d, want 5", cfg.Tavily.MaxResults)
		}
		if len(cfg.Tavily.IncludeDomains) == 0 {
			t.Error("Tavily.IncludeDomains should have defaults")
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if !cfg.Store.Enabled {
			t.Error("Store.Enabled should default to true")
		}
		if cfg.Scoring.MinScore != 50 {
			t.Errorf("Scoring.MinScore = %d, want 50", cfg.Scoring.MinScore)
		}
		if cfg.Scoring.MaxAlternatives != 3 {
			t.Errorf("Scoring.MaxAlternatives = %d, want 3", cfg.Scoring.MaxAlternatives)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOSWAP_SERVER_PORT", "9090")
		os.Setenv("ECOSWAP_SERVER_ENVIRONMENT", "production")
		os.Setenv("ECOSWAP_GROQ_API_KEY", "custom-api-key")
		os.Setenv("ECOSWAP_GROQ_MODEL", "llama-3.1-8b-instant")
		os.Setenv("ECOSWAP_TAVILY_API_KEY", "tavily-key")
		os.Setenv("ECOSWAP_CACHE_TYPE", "redis")
		os.Setenv("ECOSWAP_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("ECOSWAP_CACHE_TTL", "1h")
		os.Setenv("ECOSWAP_SCORING_MIN_SCORE", "60")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Groq.APIKey != "custom-api-key" {
			t.Errorf("Groq.APIKey = %s, want custom-api-key", cfg.Groq.APIKey)
		}
		if cfg.Groq.Model != "llama-3.1-8b-instant" {
			t.Errorf("Groq.Model = %s, want llama-3.1-8b-instant", cfg.Groq.Model)
		}
		if cfg.Tavily.APIKey != "tavily-key" {
			t.Errorf("Tavily.APIKey = %s, want tavily-key", cfg.Tavily.APIKey)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Scoring.MinScore != 60 {
			t.Errorf("Scoring.MinScore = %d, want 60", cfg.Scoring.MinScore)
		}
	})

	t.Run("fails validation when API key is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing API key")
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOSWAP_GROQ_API_KEY", "test-key")
		os.Setenv("ECOSWAP_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOSWAP_GROQ_API_KEY", "test-key")
		os.Setenv("ECOSWAP_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})

	t.Run("fails validation for out-of-range min score", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("ECOSWAP_GROQ_API_KEY", "test-key")
		os.Setenv("ECOSWAP_SCORING_MIN_SCORE", "150")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for min_score > 100")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Groq:    GroqConfig{APIKey: "test-key"},
			Cache:   CacheConfig{Type: "memory"},
			Scoring: ScoringConfig{MinScore: 50, MaxAlternatives: 3},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when API key is empty", func(t *testing.T) {
		cfg := valid()
		cfg.Groq.APIKey = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty API key")
		}
	})

	t.Run("validates redis cache type with URL", func(t *testing.T) {
		cfg := valid()
		cfg.Cache = CacheConfig{Type: "redis", RedisURL: "redis://localhost:6379"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid redis config", err)
		}
	})

	t.Run("fails for redis cache without URL", func(t *testing.T) {
		cfg := valid()
		cfg.Cache = CacheConfig{Type: "redis"}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for redis without URL")
		}
	})

	t.Run("fails for non-positive max alternatives", func(t *testing.T) {
		cfg := valid()
		cfg.Scoring.MaxAlternatives = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for max_alternatives < 1")
		}
	})

	t.Run("fails for enabled store without path", func(t *testing.T) {
		cfg := valid()
		cfg.Store = StoreConfig{Enabled: true, Path: ""}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for store without path")
		}
	})
}
