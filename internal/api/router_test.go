package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easeaico/moodtales/internal/emotion"
	"github.com/easeaico/moodtales/internal/prompt"
	"github.com/easeaico/moodtales/internal/story"
)

type staticClassifier struct{}

func (staticClassifier) Classify(ctx context.Context, text string) ([]emotion.Score, error) {
	return []emotion.Score{{Label: "joy", Score: 0.9}}, nil
}

type staticGenerator struct{}

func (staticGenerator) Generate(ctx context.Context, p string, cfg story.GenerationConfig) ([]story.Sequence, error) {
	return []story.Sequence{{Text: "happily ever after"}}, nil
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := story.NewRouter(staticClassifier{}, staticGenerator{}, prompt.DefaultTable(), story.DefaultGenerationConfig())
	require.NoError(t, err)
	return SetupRouter(router, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSetupRouterAssignsRequestID(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestSetupRouterKeepsIncomingRequestID(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	engine.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestSetupRouterServesMetrics(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/stories", strings.NewReader(`{"text":"a sunny day"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "moodtales_router_requests_total")
	assert.Contains(t, w.Body.String(), "moodtales_http_requests_total")
}

func TestRecoverWithSentry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RecoverWithSentry(slog.New(slog.NewTextHandler(io.Discard, nil))))
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
