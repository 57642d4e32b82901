package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Transcript fetch policies.
const (
	StrategyMultiLanguage = "multilang"
	StrategyProxied       = "proxied"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	OpenAIMaxTokens int
	Port            string
	// Set by Render.com; switches the reported environment to production
	Render bool

	// Transcript fetching
	TranscriptStrategy string
	MaxRetries         int
	RetryMinDelay      time.Duration
	RetryMaxDelay      time.Duration
	// Comma-separated host:port[:user:pass] entries
	ProxyPool string
	// Webshare credentials applied to pool entries without their own
	WebshareProxyUsername string
	WebshareProxyPassword string
	ProxyTestURL          string

	ChunkSize     int
	YouTubeAPIKey string

	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*AppConfig, error) {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Info: Could not load .env file: %v (this is ok if using environment variables)\n", err)
	}

	var errs []string
	config := &AppConfig{
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:         os.Getenv("OPENAI_BASE_URL"),
		OpenAIMaxTokens:       getEnvInt("OPENAI_MAX_TOKENS", 2500, &errs),
		Port:                  getEnv("PORT", "5000"),
		Render:                os.Getenv("RENDER") != "",
		TranscriptStrategy:    strings.ToLower(getEnv("TRANSCRIPT_STRATEGY", StrategyMultiLanguage)),
		MaxRetries:            getEnvInt("TRANSCRIPT_MAX_RETRIES", 3, &errs),
		RetryMinDelay:         getEnvDuration("TRANSCRIPT_RETRY_MIN_DELAY", 2*time.Second, &errs),
		RetryMaxDelay:         getEnvDuration("TRANSCRIPT_RETRY_MAX_DELAY", 5*time.Second, &errs),
		ProxyPool:             os.Getenv("PROXY_POOL"),
		WebshareProxyUsername: os.Getenv("WEBSHARE_PROXY_USERNAME"),
		WebshareProxyPassword: os.Getenv("WEBSHARE_PROXY_PASSWORD"),
		ProxyTestURL:          getEnv("PROXY_TEST_URL", "https://httpbin.org/ip"),
		ChunkSize:             getEnvInt("CHUNK_SIZE", 3000, &errs),
		YouTubeAPIKey:         os.Getenv("YOUTUBE_API_KEY"),
		CacheBackend:          strings.ToLower(getEnv("CACHE_BACKEND", CacheNone)),
		CacheTTL:              getEnvDuration("CACHE_TTL", time.Hour, &errs),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0, &errs),
		RequestTimeout:        getEnvDuration("REQUEST_TIMEOUT", 3*time.Minute, &errs),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "text"),
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid
func (c *AppConfig) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port number: %s", c.Port)
	}

	switch c.TranscriptStrategy {
	case StrategyMultiLanguage, StrategyProxied:
	default:
		return fmt.Errorf("invalid transcript strategy: %s (must be '%s' or '%s')", c.TranscriptStrategy, StrategyMultiLanguage, StrategyProxied)
	}

	switch c.CacheBackend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("invalid cache backend: %s (must be 'none', 'memory' or 'redis')", c.CacheBackend)
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("TRANSCRIPT_MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	}
	if c.RetryMinDelay < 0 || c.RetryMaxDelay < c.RetryMinDelay {
		return fmt.Errorf("invalid retry delay range: %s-%s", c.RetryMinDelay, c.RetryMaxDelay)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.OpenAIMaxTokens < 1 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", c.OpenAIMaxTokens)
	}

	if c.OpenAIAPIKey == "" {
		fmt.Println("Warning: OPENAI_API_KEY not set - question generation is unavailable")
	}

	if c.TranscriptStrategy == StrategyProxied && c.ProxyPool == "" {
		fmt.Println("Warning: TRANSCRIPT_STRATEGY is 'proxied' but PROXY_POOL is empty - only the direct fallback will run")
	}

	if (c.WebshareProxyUsername != "" && c.WebshareProxyPassword == "") || (c.WebshareProxyUsername == "" && c.WebshareProxyPassword != "") {
		fmt.Println("Warning: Incomplete Webshare proxy credentials - pool entries without credentials will connect anonymously")
	}

	return nil
}

// GetPort returns the port as an integer
func (c *AppConfig) GetPort() int {
	port, _ := strconv.Atoi(c.Port) // Already validated in Validate()
	return port
}

// HasOpenAIConfig returns true if an OpenAI API key is available
func (c *AppConfig) HasOpenAIConfig() bool {
	return c.OpenAIAPIKey != ""
}

// HasYouTubeConfig returns true if YouTube API configuration is available
func (c *AppConfig) HasYouTubeConfig() bool {
	return c.YouTubeAPIKey != ""
}

// Environment reports "production" on Render and "development" elsewhere.
func (c *AppConfig) Environment() string {
	if c.Render {
		return "production"
	}
	return "development"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]string) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, value))
		return fallback
	}
	return n
}

// getEnvDuration accepts Go durations ("2s", "3m") and bare numbers of seconds.
func getEnvDuration(key string, fallback time.Duration, errs *[]string) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, value))
		return fallback
	}
	return d
}
