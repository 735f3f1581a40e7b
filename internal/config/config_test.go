package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 0.4, cfg.LLM.Temperature)
	assert.Equal(t, 0.9, cfg.LLM.TopP)
	assert.Equal(t, 40, cfg.LLM.TopK)
	assert.Equal(t, 1024, cfg.LLM.MaxOutputTokens)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "sections", cfg.Prompt.Style)
	assert.Equal(t, "sqlite", cfg.Index.Backend)
	assert.Equal(t, 4, cfg.Index.BuildConcurrency)
	assert.True(t, cfg.Market.Enabled)
	assert.Equal(t, "6mo", cfg.Market.Period)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("LLM_TEMPERATURE", "0.1")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("MARKET_ENABLED", "false")
	t.Setenv("PROMPT_STYLE", "NARRATIVE")
	t.Setenv("INDEX_BUILD_CONCURRENCY", "1")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg := Load()

	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 0.1, cfg.LLM.Temperature)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.Market.Enabled)
	assert.Equal(t, "narrative", cfg.Prompt.Style)
	assert.Equal(t, 1, cfg.Index.BuildConcurrency)
	assert.Equal(t, "google-key", cfg.Keys.GoogleGemini)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "many")
	t.Setenv("LLM_TOP_P", "high")

	cfg := Load()

	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 0.9, cfg.LLM.TopP)
}

func TestValidate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	cfg := Load()

	require.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)

	cfg.LLM.Provider = "ollama"
	cfg.Embedding.Provider = "hashing"
	require.NoError(t, cfg.Validate())

	cfg.Index.Backend = "postgres"
	cfg.Index.Connection = ""
	require.Error(t, cfg.Validate())
}
