package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/docqa-engine/backend/internal/api"
	"github.com/docqa-engine/backend/internal/config"
	"github.com/docqa-engine/backend/internal/engine"
	"github.com/docqa-engine/backend/internal/loader"
)

type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLMProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func newTestServer(t *testing.T, docs map[string]string) (*api.Server, *MockLLMProvider) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Corpus.Dir = dir

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	entry := logger.WithField("test", "api")

	ld := loader.NewLoader(dir, nil, entry)
	eng, err := engine.NewEngine(cfg, entry, ld)
	require.NoError(t, err)
	require.NoError(t, eng.Reload(context.Background()))

	llm := new(MockLLMProvider)
	eng.LLM = llm

	return api.NewServer(eng, entry), llm
}

func TestHandleSearch(t *testing.T) {
	server, _ := newTestServer(t, map[string]string{
		"go.txt":     "golang compiles quickly and ships static binaries",
		"python.txt": "python scripts run through an interpreter",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=golang+binaries", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "golang binaries", resp.Query)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "go.txt", resp.Results[0].Document)
	assert.Greater(t, resp.Results[0].Score, 0.0)
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	server, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearch_EmptyIndex(t *testing.T) {
	server, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=anything", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestHandleSearch_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search?q=x", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAsk(t *testing.T) {
	server, llm := newTestServer(t, map[string]string{
		"go.txt": "golang compiles quickly and ships static binaries",
	})
	llm.On("Generate", mock.Anything, mock.Anything).Return("Yes, static binaries.", nil)

	body, _ := json.Marshal(map[string]string{"question": "does golang ship static binaries"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Yes, static binaries.", resp.Answer)
	require.NotEmpty(t, resp.Sources)
	assert.Equal(t, "go.txt", resp.Sources[0].Document)
}

func TestHandleAsk_NoRelevantContent(t *testing.T) {
	server, llm := newTestServer(t, map[string]string{
		"go.txt": "golang compiles quickly",
	})

	body, _ := json.Marshal(map[string]string{"question": "zebra quagga wombat"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, engine.NoAnswerText, resp.Answer)
	assert.Empty(t, resp.Sources)
	llm.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestHandleAsk_BadRequest(t *testing.T) {
	server, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, _ := json.Marshal(map[string]string{"question": ""})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	server, _ := newTestServer(t, map[string]string{
		"a.txt": "cat dog bird",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats engine.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 1, stats.Chunks)
}

func TestHandleStatus_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleReload(t *testing.T) {
	server, _ := newTestServer(t, map[string]string{
		"a.txt": "cat dog bird",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reload", nil)
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ReloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "reloaded", resp.Status)
	assert.Equal(t, 1, resp.Stats.Documents)

	// GET is rejected
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reload", nil)
	rec = httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
