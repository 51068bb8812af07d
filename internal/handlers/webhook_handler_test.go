package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zokoai-middleware/internal/models"
	"zokoai-middleware/internal/retry"
	"zokoai-middleware/internal/services"
	"zokoai-middleware/internal/store/memory"
)

type stubMessaging struct{ texts int }

func (s *stubMessaging) SendText(context.Context, string, string) error { s.texts++; return nil }
func (s *stubMessaging) SendCarousel(context.Context, string, models.Carousel) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) FetchProducts(context.Context, int) ([]models.Product, error) {
	return nil, nil
}

type stubLanguage struct{ chatErr error }

func (s stubLanguage) ChatComplete(context.Context, []models.Message) (string, error) {
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return "Hello back!", nil
}
func (stubLanguage) Translate(_ context.Context, text, _ string) (string, error) { return text, nil }
func (stubLanguage) ExtractKeywords(context.Context, string) ([]string, error) {
	return []string{"shoes"}, nil
}

type stubDetector struct{}

func (stubDetector) Detect(string) string { return "en" }

func newTestHandler(chatErr error) (*WebhookHandler, *memory.MemoryStore) {
	st := memory.NewMemoryStore()
	svc := services.NewConversationService(
		st,
		&stubMessaging{},
		stubCatalog{},
		stubLanguage{chatErr: chatErr},
		stubDetector{},
		retry.Policy{MaxAttempts: 2, InitialBackoff: time.Millisecond},
		"teststore",
	)
	return NewWebhookHandler(svc), st
}

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/zoko", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleZokoWebhook(rec, req)
	return rec
}

func TestWebhookProcessed(t *testing.T) {
	h, _ := newTestHandler(nil)
	rec := postWebhook(h, `{"messages":[{"from":"123","text":{"body":"Hello"}}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "processed", resp.Status)
}

func TestWebhookMalformedJSONIs422(t *testing.T) {
	h, st := newTestHandler(nil)
	rec := postWebhook(h, `{"messages": [`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Detail []models.FieldError `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Detail)
	assert.Equal(t, "body", resp.Detail[0].Field)

	convs, err := st.ListConversations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestWebhookMissingMessagesFieldIs422(t *testing.T) {
	h, _ := newTestHandler(nil)
	rec := postWebhook(h, `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Detail []models.FieldError `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Detail, 1)
	assert.Equal(t, "messages", resp.Detail[0].Field)
}

func TestWebhookEmptyMessagesIs400(t *testing.T) {
	h, st := newTestHandler(nil)
	rec := postWebhook(h, `{"messages":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid payload", resp.Detail)

	convs, err := st.ListConversations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, convs, "no persistence side effects on invalid payload")
}

func TestWebhookAIDownIs502(t *testing.T) {
	h, _ := newTestHandler(errors.New("upstream down"))
	rec := postWebhook(h, `{"messages":[{"from":"123","text":{"body":"Hello"}}]}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AI service unavailable", resp.Detail)
}
