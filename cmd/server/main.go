package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecoswap/backend/config"
	httpDelivery "github.com/ecoswap/backend/internal/delivery/http"
	"github.com/ecoswap/backend/internal/domain"
	"github.com/ecoswap/backend/internal/infrastructure/cache"
	"github.com/ecoswap/backend/internal/infrastructure/groq"
	"github.com/ecoswap/backend/internal/infrastructure/store"
	"github.com/ecoswap/backend/internal/infrastructure/tavily"
	"github.com/ecoswap/backend/internal/usecase"
)

func main() {
	// A .env file is handy in development; ignore its absence elsewhere.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting EcoSwap Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize cache
	var cacheRepo domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to create redis cache: %v", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			cancel()
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		cancel()
		defer redisCache.Close()
		cacheRepo = redisCache
	default:
		memoryCache := cache.NewMemoryCache(10 * time.Minute)
		defer memoryCache.Close()
		cacheRepo = memoryCache
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize analysis history store (optional)
	var history domain.AnalysisRepository
	if cfg.Store.Enabled {
		sqliteStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to open analysis store: %v", err)
		}
		defer sqliteStore.Close()
		history = sqliteStore
		log.Printf("Analysis history: %s", cfg.Store.Path)
	} else {
		log.Printf("Analysis history: disabled")
	}

	// Initialize API clients
	groqClient := groq.NewClient(groq.Config{
		APIKey:      cfg.Groq.APIKey,
		BaseURL:     cfg.Groq.BaseURL,
		Model:       cfg.Groq.Model,
		Temperature: float32(cfg.Groq.Temperature),
		MaxTokens:   cfg.Groq.MaxTokens,
	})
	tavilyClient := tavily.NewClient(tavily.Config{
		APIKey:         cfg.Tavily.APIKey,
		BaseURL:        cfg.Tavily.BaseURL,
		IncludeDomains: cfg.Tavily.IncludeDomains,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		groqClient.SetDebug(true)
		tavilyClient.SetDebug(true)
		log.Printf("API client debug mode enabled")
	}

	if cfg.Tavily.APIKey == "" {
		log.Printf("WARNING: Tavily API key not configured - analyses will run without web search")
	}

	// Initialize usecase layer
	scorer := usecase.NewRelevanceScorer(usecase.DefaultScoreConfig())
	normalizer := usecase.NewNormalizerService(scorer)
	analysisService := usecase.NewAnalysisService(
		cacheRepo,
		groqClient,
		tavilyClient,
		history,
		normalizer,
		usecase.AnalysisServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			MinScore:           cfg.Scoring.MinScore,
			MaxAlternatives:    cfg.Scoring.MaxAlternatives,
			SearchMaxResults:   cfg.Tavily.MaxResults,
			EnableDebugLogging: cfg.Scoring.EnableDebugLogging,
		},
	)

	log.Printf("Scoring: min_score=%d, max_alternatives=%d, debug=%v",
		cfg.Scoring.MinScore,
		cfg.Scoring.MaxAlternatives,
		cfg.Scoring.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysisService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
