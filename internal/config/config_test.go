package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "")
		t.Setenv("MOVIES_DB_PATH", "")
		t.Setenv("MAX_OVERVIEW_LENGTH", "")
		t.Setenv("SERVER_PORT", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.BotToken)
		assert.Equal(t, "moviedb.csv", cfg.MoviesDBPath)
		assert.Equal(t, 400, cfg.MaxOverviewLen)
		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, 20, cfg.RateLimitMax)
		assert.Equal(t, 60, cfg.RateLimitWindow)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "123:abc")
		t.Setenv("MOVIES_DB_PATH", "/data/movies.csv")
		t.Setenv("MAX_OVERVIEW_LENGTH", "120")
		t.Setenv("REDIS_ADDR", "redis:6379")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "123:abc", cfg.BotToken)
		assert.Equal(t, "/data/movies.csv", cfg.MoviesDBPath)
		assert.Equal(t, 120, cfg.MaxOverviewLen)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	})

	t.Run("bad overview length falls back to the default", func(t *testing.T) {
		t.Setenv("MAX_OVERVIEW_LENGTH", "-5")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 400, cfg.MaxOverviewLen)
	})
}
