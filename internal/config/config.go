package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot.
type Config struct {
	BotToken        string
	MoviesDBPath    string
	MaxOverviewLen  int
	Port            string
	Redis           RedisConfig
	RateLimitMax    int
	RateLimitWindow int
}

// RedisConfig holds Redis configuration. Redis is optional; when unavailable
// the HTTP transport runs without rate limiting.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	maxOverview, _ := strconv.Atoi(getEnv("MAX_OVERVIEW_LENGTH", "400"))
	if maxOverview <= 0 {
		maxOverview = 400
	}
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "20"))
	rateWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SEC", "60"))

	cfg := &Config{
		BotToken:       getEnv("BOT_TOKEN", ""),
		MoviesDBPath:   getEnv("MOVIES_DB_PATH", "moviedb.csv"),
		MaxOverviewLen: maxOverview,
		Port:           getEnv("SERVER_PORT", "8081"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		RateLimitMax:    rateMax,
		RateLimitWindow: rateWindow,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
