package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"

	KeyingByName    = "name"
	KeyingByContent = "content"
)

// Config holds the configuration for the application.
type Config struct {
	Provider     string
	GeminiAPIKey string
	GroqAPIKey   string

	// Per-kind model overrides. Empty means the generative client default.
	PlanModel    string
	PromptsModel string
	VisionModel  string
	ImageModel   string
	CravingModel string

	GenerationTimeout time.Duration

	StorageEngine     string
	StoragePath       string
	StorageQuotaBytes int64
	RedisAddr         string
	MetricsDBPath     string

	LogMode          string
	StatsDailyReset  bool
	ImageCacheKeying string
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini))
	if provider != ProviderGemini && provider != ProviderGroq {
		return nil, fmt.Errorf("LLM_PROVIDER must be one of: gemini, groq")
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if provider == ProviderGemini && geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if provider == ProviderGroq && groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	timeout, err := time.ParseDuration(getEnv("GENERATION_TIMEOUT", "45s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT must be a positive duration")
	}

	quota, err := strconv.ParseInt(getEnv("STORAGE_QUOTA_BYTES", "5242880"), 10, 64)
	if err != nil || quota <= 0 {
		return nil, fmt.Errorf("STORAGE_QUOTA_BYTES must be a positive integer")
	}

	cfg := &Config{
		Provider:          provider,
		GeminiAPIKey:      geminiAPIKey,
		GroqAPIKey:        groqAPIKey,
		PlanModel:         os.Getenv("PLAN_MODEL"),
		PromptsModel:      os.Getenv("PROMPTS_MODEL"),
		VisionModel:       os.Getenv("VISION_MODEL"),
		ImageModel:        os.Getenv("IMAGE_MODEL"),
		CravingModel:      os.Getenv("CRAVING_MODEL"),
		GenerationTimeout: timeout,
		StorageEngine:     strings.ToLower(getEnv("STORAGE_ENGINE", "file")),
		StoragePath:       getEnv("STORAGE_PATH", "data/state"),
		StorageQuotaBytes: quota,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		MetricsDBPath:     getEnvAllowEmpty("METRICS_DB_PATH", "data/metrics.db"),
		LogMode:           getEnv("LOG_MODE", "dev"),
		StatsDailyReset:   getBool("STATS_DAILY_RESET", false),
		ImageCacheKeying:  strings.ToLower(getEnv("IMAGE_CACHE_KEYING", KeyingByName)),
	}

	if cfg.StorageEngine == "redis" && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable not set")
	}
	if cfg.ImageCacheKeying != KeyingByName && cfg.ImageCacheKeying != KeyingByContent {
		return nil, fmt.Errorf("IMAGE_CACHE_KEYING must be one of: name, content")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getEnvAllowEmpty falls back only when key is unset; an explicit empty
// value is kept.
func getEnvAllowEmpty(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(v)
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
