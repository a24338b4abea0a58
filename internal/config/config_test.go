package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "EMBEDDING_PROVIDER", "EMBEDDING_TIMEOUT", "MAX_FILE_SIZE",
		"MAX_PAGES", "SKILL_VOCABULARY", "RABBITMQ_URL", "LOG_JSON",
	} {
		t.Setenv(key, "")
	}

	cfg, _ := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, 30*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
	assert.Equal(t, 3, cfg.Screening.MaxPages)
	assert.Equal(t, DefaultSkills, cfg.Screening.Skills)
	assert.Equal(t, "screening_updates", cfg.Queue.Exchange)
	assert.False(t, cfg.Log.JSON)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "Gemini")
	t.Setenv("MAX_PAGES", "5")
	t.Setenv("SKILL_VOCABULARY", " Go, gRPC ,,Postgres ")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("EMBEDDING_TIMEOUT", "not-a-duration")

	cfg, _ := Load()

	assert.Equal(t, "gemini", cfg.Embedding.Provider)
	assert.Equal(t, 5, cfg.Screening.MaxPages)
	assert.Equal(t, []string{"Go", "gRPC", "Postgres"}, cfg.Screening.Skills)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 30*time.Second, cfg.Embedding.Timeout)
}

func TestGetEnvAsListDoesNotAliasDefault(t *testing.T) {
	t.Setenv("SKILL_VOCABULARY", "")

	skills := getEnvAsList("SKILL_VOCABULARY", DefaultSkills)
	skills[0] = "changed"

	assert.Equal(t, "AI", DefaultSkills[0])
}
