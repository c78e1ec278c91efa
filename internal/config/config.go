package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	ListenAddr string
	LogFormat  string
}

type CacheConfig struct {
	BudgetBytes int64
	TTL         time.Duration
}

type NewsConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
}

type StorageConfig struct {
	Backend         string // "memory" or "minio"
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

func GetServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
	}
}

func GetCacheConfig() *CacheConfig {
	return &CacheConfig{
		BudgetBytes: getEnvInt64("CACHE_BUDGET_BYTES", 5*1024*1024),
		TTL:         getEnvDuration("CACHE_TTL", 30*time.Minute),
	}
}

func GetNewsConfig() *NewsConfig {
	return &NewsConfig{
		BaseURL:           getEnv("NEWS_API_URL", "https://newsapi.org/v2"),
		APIKey:            getEnv("NEWS_API_KEY", ""),
		RequestsPerMinute: int(getEnvInt64("NEWS_API_RPM", 60)),
	}
}

func GetStorageConfig() *StorageConfig {
	return &StorageConfig{
		Backend:         getEnv("CACHE_BACKEND", "memory"),
		Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		AccessKeyID:     getEnv("S3_ACCESS_KEY", "minioadmin"),
		SecretAccessKey: getEnv("S3_SECRET_KEY", "minioadmin"),
		Bucket:          getEnv("S3_BUCKET", "newslens-cache"),
		UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("invalid value for %s: %v", key, err)
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid value for %s: %v", key, err)
	}
	return d
}
