package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGenerativeModels_FollowsPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			w.Write([]byte(`{"models":[
				{"name":"models/gemini-2.5-flash","supportedGenerationMethods":["generateContent","countTokens"]},
				{"name":"models/text-embedding-004","supportedGenerationMethods":["embedContent"]}
			],"nextPageToken":"p2"}`))
			return
		}
		w.Write([]byte(`{"models":[{"name":"models/gemini-2.5-pro","supportedGenerationMethods":["generateContent"]}]}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider("test-key", "")
	require.NoError(t, err)
	p.BaseURL = srv.URL

	names, err := p.ListGenerativeModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"models/gemini-2.5-flash", "models/gemini-2.5-pro"}, names)
}

func TestListGenerativeModels_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	p, err := NewGeminiProvider("bad-key", "")
	require.NoError(t, err)
	p.BaseURL = srv.URL

	_, err = p.ListGenerativeModels(context.Background())
	require.Error(t, err)
}
