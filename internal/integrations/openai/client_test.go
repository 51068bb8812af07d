package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zokoai-middleware/internal/models"
)

func newTestServer(t *testing.T, reply string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestChatComplete(t *testing.T) {
	var got chatRequest
	srv := newTestServer(t, "Hi! How can I help?", &got)
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4-turbo", WithBaseURL(srv.URL))
	history := []models.Message{
		{Role: models.RoleUser, Content: "Hello", Timestamp: 1700000000.5},
	}
	reply, err := c.ChatComplete(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, "Hi! How can I help?", reply)

	assert.Equal(t, "gpt-4-turbo", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Hello", got.Messages[0].Content)
}

func TestTranslateBuildsSystemPrompt(t *testing.T) {
	var got chatRequest
	srv := newTestServer(t, "Bonjour", &got)
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4-turbo", WithBaseURL(srv.URL))
	out, err := c.Translate(context.Background(), "Hello", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Translate to fr")
	assert.Contains(t, got.Messages[0].Content, "Hello")
}

func TestExtractKeywordsSplitsAndTrims(t *testing.T) {
	srv := newTestServer(t, " shoes, running ,  winter,", nil)
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4-turbo", WithBaseURL(srv.URL))
	kws, err := c.ExtractKeywords(context.Background(), "recommend winter running shoes")
	require.NoError(t, err)
	assert.Equal(t, []string{"shoes", "running", "winter"}, kws)
}

func TestChatCompleteNoChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4-turbo", WithBaseURL(srv.URL))
	_, err := c.ChatComplete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestChatCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4-turbo", WithBaseURL(srv.URL))
	_, err := c.ChatComplete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
