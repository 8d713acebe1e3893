package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSourceSplitsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewWebhookSource(WebhookSourceOptions{Provider: "helius"})
	ch, err := src.Subscribe(ctx)
	require.NoError(t, err)

	body := `[{"signature":"sig-a"},{"signature":"sig-b"}]`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	src.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	first := <-ch
	second := <-ch
	assert.Equal(t, "helius", first.Provider)
	assert.JSONEq(t, `{"signature":"sig-a"}`, string(first.Payload))
	assert.JSONEq(t, `{"signature":"sig-b"}`, string(second.Payload))
}

func TestWebhookSourceSingleObject(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewWebhookSource(WebhookSourceOptions{Provider: "helius"})
	ch, err := src.Subscribe(ctx)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"signature":"sig-solo"}`))
	rec := httptest.NewRecorder()
	src.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := <-ch
	assert.JSONEq(t, `{"signature":"sig-solo"}`, string(env.Payload))
}

func TestWebhookSourceRejectsMalformed(t *testing.T) {
	src := NewWebhookSource(WebhookSourceOptions{Provider: "helius"})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	src.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookSourceAuth(t *testing.T) {
	src := NewWebhookSource(WebhookSourceOptions{Provider: "helius", AuthToken: "secret"})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`[]`))
	rec := httptest.NewRecorder()
	src.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`[]`))
	req.Header.Set("Authorization", "secret")
	rec = httptest.NewRecorder()
	src.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookSourceMethodNotAllowed(t *testing.T) {
	src := NewWebhookSource(WebhookSourceOptions{Provider: "helius"})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	src.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
