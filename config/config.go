package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Groq    GroqConfig
	Tavily  TavilyConfig
	Cache   CacheConfig
	Store   StoreConfig
	Scoring ScoringConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GroqConfig holds LLM provider configuration
type GroqConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// TavilyConfig holds web search provider configuration
type TavilyConfig struct {
	APIKey         string   `mapstructure:"api_key"`
	BaseURL        string   `mapstructure:"base_url"`
	IncludeDomains []string `mapstructure:"include_domains"`
	MaxResults     int      `mapstructure:"max_results"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds analysis history store configuration
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ScoringConfig holds relevance scoring configuration
type ScoringConfig struct {
	MinScore           int  `mapstructure:"min_score"`
	MaxAlternatives    int  `mapstructure:"max_alternatives"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecoswap/")

	v.SetEnvPrefix("ECOSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*", "http://localhost:3000"})

	// Groq defaults. The empty api_key default registers the key with viper
	// so AutomaticEnv can bind ECOSWAP_GROQ_API_KEY through Unmarshal.
	v.SetDefault("groq.api_key", "")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.temperature", 0.3)
	v.SetDefault("groq.max_tokens", 2000)

	// Tavily defaults
	v.SetDefault("tavily.api_key", "")
	v.SetDefault("tavily.base_url", "https://api.tavily.com")
	v.SetDefault("tavily.max_results", 5)
	v.SetDefault("tavily.include_domains", []string{
		"ecycle.com.br", "akatu.org.br", "idec.org.br", "greenpeace.org", "wwf.org.br",
	})

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Store defaults
	v.SetDefault("store.enabled", true)
	v.SetDefault("store.path", "ecoswap.db")

	// Scoring defaults
	v.SetDefault("scoring.min_score", 50)
	v.SetDefault("scoring.max_alternatives", 3)
	v.SetDefault("scoring.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Groq.APIKey == "" {
		return fmt.Errorf("Groq API key is required (set ECOSWAP_GROQ_API_KEY)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Scoring.MinScore < 0 || config.Scoring.MinScore > 100 {
		return fmt.Errorf("scoring min_score must be in [0,100], got: %d", config.Scoring.MinScore)
	}

	if config.Scoring.MaxAlternatives < 1 {
		return fmt.Errorf("scoring max_alternatives must be at least 1, got: %d", config.Scoring.MaxAlternatives)
	}

	if config.Store.Enabled && config.Store.Path == "" {
		return fmt.Errorf("store path is required when the history store is enabled")
	}

	return nil
}
