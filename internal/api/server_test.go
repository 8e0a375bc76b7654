package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/kotoba/internal/audio"
	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/processor"
	"codeberg.org/snonux/kotoba/internal/results"
	"codeberg.org/snonux/kotoba/internal/store"
	"codeberg.org/snonux/kotoba/internal/testutil"
)

type memorySettings struct {
	mu       sync.Mutex
	settings *store.Settings
}

func (m *memorySettings) GetSettings(ctx context.Context, defaults store.Settings) (store.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return defaults, nil
	}
	return *m.settings, nil
}

func (m *memorySettings) SaveSettings(ctx context.Context, settings store.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &settings
	return nil
}

type testServer struct {
	handler   http.Handler
	session   *card.Session
	results   *results.Manager
	provider  *testutil.MockAudioProvider
	factories int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	session, err := card.NewSession(context.Background(), nil)
	require.NoError(t, err)

	ts := &testServer{
		session:  session,
		results:  results.NewManager(filepath.Join(t.TempDir(), "results")),
		provider: &testutil.MockAudioProvider{},
	}

	factory := func(ctx context.Context, settings store.Settings) (*processor.Processor, error) {
		ts.factories++
		return processor.NewProcessor(ts.provider, nil), nil
	}

	cfg := Config{
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		NoteTypeID:     1607392319,
		Defaults:       store.Settings{VoiceID: audio.DefaultVoiceID, ModelID: audio.DefaultModelID},
	}
	ts.handler = NewServer(cfg, session, &memorySettings{}, ts.results, factory, nil).Router()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "healthy", "service": ServiceName}, decode[map[string]string](t, rec))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestConfig(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ConfigResponse{
		APIKeySet:  false,
		VoiceID:    audio.DefaultVoiceID,
		ModelID:    audio.DefaultModelID,
		NoteTypeID: 1607392319,
	}, decode[ConfigResponse](t, rec))

	rec = ts.do(t, http.MethodPost, "/api/config", map[string]string{
		"api_key":  "secret",
		"voice_id": "voice-2",
		"model_id": "eleven_turbo_v2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[StatusResponse](t, rec).Success)

	rec = ts.do(t, http.MethodGet, "/api/config", nil)
	cfg := decode[ConfigResponse](t, rec)
	assert.True(t, cfg.APIKeySet)
	assert.Equal(t, "voice-2", cfg.VoiceID)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestConfigValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/config", map[string]string{"api_key": "x", "model_id": "m"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "VoiceID is required")

	rec = ts.do(t, http.MethodPost, "/api/config", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cards", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{card.ErrNotFound, http.StatusNotFound},
		{results.ErrFileNotFound, http.StatusNotFound},
		{card.ErrUnknownField, http.StatusBadRequest},
		{processor.ErrNoValidCards, http.StatusBadRequest},
		{audio.ErrCircuitOpen, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
