package zoko

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

func TestSendText(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "zk-secret")
	require.NoError(t, c.SendText(context.Background(), "12345", "hello there"))

	assert.Equal(t, "Bearer zk-secret", auth)
	assert.Equal(t, "12345", got["to"])
	assert.Equal(t, "text", got["type"])
	text := got["text"].(map[string]any)
	assert.Equal(t, "hello there", text["body"])
}

func TestSendCarousel(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	carousel := models.Carousel{
		Type: "carousel",
		Elements: []models.CarouselElement{
			{Title: "Shoes", ImageURL: "https://img", ActionURL: "https://store", Subtitle: "nice…"},
		},
	}
	c := NewClient(srv.URL, "zk-secret")
	require.NoError(t, c.SendCarousel(context.Background(), "12345", carousel))

	assert.Equal(t, "interactive", got["type"])
	interactive := got["interactive"].(map[string]any)
	assert.Equal(t, "carousel", interactive["type"])
	elements := interactive["elements"].([]any)
	require.Len(t, elements, 1)
	assert.Equal(t, "Shoes", elements[0].(map[string]any)["title"])
}

func TestSendTextNonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	err := c.SendText(context.Background(), "12345", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
