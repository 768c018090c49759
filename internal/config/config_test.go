package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("should apply defaults", func(t *testing.T) {
		req := require.New(t)
		cfg := Load()

		req.Equal(":8080", cfg.Server.Port)
		req.Equal([]byte("test-secret"), cfg.JWT.Secret)
		req.Equal(24*time.Hour, cfg.JWT.ExpiresIn)
		req.Equal([]string{"general", "random", "tech"}, cfg.Chat.Rooms)
		req.Equal(2*time.Second, cfg.Chat.ScoreTimeout)
		req.Equal(256, cfg.Chat.SendBuffer)
	})

	t.Run("should read overrides from the environment", func(t *testing.T) {
		req := require.New(t)
		t.Setenv("PORT", ":9999")
		t.Setenv("ROOMS", " lobby , dev ,")
		t.Setenv("SCORE_TIMEOUT", "500ms")
		t.Setenv("MSG_BURST", "5")

		cfg := Load()

		req.Equal(":9999", cfg.Server.Port)
		req.Equal([]string{"lobby", "dev"}, cfg.Chat.Rooms)
		req.Equal(500*time.Millisecond, cfg.Chat.ScoreTimeout)
		req.Equal(5, cfg.Chat.MessageBurst)
	})
}
