package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all externally tunable parameters.
type Config struct {
	CacheFile            string
	CacheDatabaseURL     string
	FailedLog            string
	SourceLang           string
	TargetLang           string
	BatchSize            int
	MaxRetries           int
	RetryDelay           time.Duration
	TranslationLimit     int
	ConnectivityAddr     string
	ConnectivityTimeout  time.Duration
	ConnectivityInterval time.Duration
	WorkerCount          int
}

// Load reads configuration from .env and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		CacheFile:            getEnv("CACHE_FILE", "translation_cache.json"),
		CacheDatabaseURL:     getEnv("CACHE_DATABASE_URL", ""),
		FailedLog:            getEnv("FAILED_LOG", "failed_translations.txt"),
		SourceLang:           getEnv("SOURCE_LANG", "ru"),
		TargetLang:           getEnv("TARGET_LANG", "en"),
		BatchSize:            getEnvInt("BATCH_SIZE", 20),
		MaxRetries:           getEnvInt("MAX_RETRIES", 5),
		RetryDelay:           getEnvDuration("RETRY_DELAY", 3*time.Second),
		TranslationLimit:     getEnvInt("TRANSLATION_LIMIT", 5000),
		ConnectivityAddr:     getEnv("CONNECTIVITY_ADDR", "8.8.8.8:53"),
		ConnectivityTimeout:  getEnvDuration("CONNECTIVITY_TIMEOUT", 3*time.Second),
		ConnectivityInterval: getEnvDuration("CONNECTIVITY_INTERVAL", 5*time.Second),
		WorkerCount:          getEnvInt("WORKER_COUNT", 8),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
