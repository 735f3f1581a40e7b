package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"soros-rag-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider("test-key", "models/gemini-2.5-flash")
	require.NoError(t, err)
	p.BaseURL = srv.URL
	return p
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider("", "gemini-2.5-flash")
	require.ErrorIs(t, err, llm.ErrNoAPIKey)
}

func TestComplete_SendsGenerationConfig(t *testing.T) {
	var got geminiRequest
	var gotPath string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"world"}]},"finishReason":"STOP"}]}`)
	})

	raw, err := p.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
	require.NoError(t, err)

	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, 0.4, got.GenerationConfig.Temperature)
	assert.Equal(t, 0.9, got.GenerationConfig.TopP)
	assert.Equal(t, 40, got.GenerationConfig.TopK)
	assert.Equal(t, 1024, got.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, "prompt", got.Contents[0].Parts[0].Text)

	require.NotNil(t, raw.Text)
	assert.Equal(t, "Hello world", *raw.Text)
}

func TestComplete_MultipleCandidatesHaveNoDirectText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[
			{"content":{"parts":[{"text":"first"}]},"finishReason":"STOP"},
			{"content":{"parts":[{"text":"second"}]},"finishReason":"MAX_TOKENS"}]}`)
	})

	raw, err := p.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
	require.NoError(t, err)

	assert.Nil(t, raw.Text)
	require.Len(t, raw.Candidates, 2)
	assert.Equal(t, []string{"second"}, raw.Candidates[1].Parts)
	assert.Equal(t, "MAX_TOKENS", raw.Candidates[1].FinishReason)
}

func TestComplete_SafetyBlock(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"finishReason":"SAFETY"}],"promptFeedback":{"blockReason":"SAFETY"}}`)
	})

	raw, err := p.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
	require.NoError(t, err)

	assert.Nil(t, raw.Text)
	assert.Equal(t, "SAFETY", raw.BlockReason)
	assert.Equal(t, "SAFETY", raw.Candidates[0].FinishReason)
	assert.Empty(t, raw.Candidates[0].Parts)
}

func TestComplete_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, llm.ErrRateLimit},
		{http.StatusServiceUnavailable, llm.ErrProviderDown},
	}
	for _, tt := range tests {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := p.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
		assert.ErrorIs(t, err, tt.want)
	}
}
