// Package handler exposes the story router over HTTP.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/easeaico/moodtales/internal/emotion"
	"github.com/easeaico/moodtales/internal/handler/templates"
	"github.com/easeaico/moodtales/internal/story"
)

const emptyPromptWarning = "Please enter a prompt to generate a story."

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// StoryHandler serves the story page and the JSON API.
type StoryHandler struct {
	router *story.Router
	logger *slog.Logger
}

// NewStoryHandler creates a handler over router.
func NewStoryHandler(router *story.Router, logger *slog.Logger) *StoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryHandler{router: router, logger: logger}
}

// TextRequest is the JSON body of the emotion and story endpoints.
type TextRequest struct {
	Text string `json:"text"`
}

// EmotionResponse is the result of POST /api/v1/emotions.
type EmotionResponse struct {
	Label   emotion.EmotionLabel `json:"label"`
	Score   float64              `json:"score"`
	Prompt  string               `json:"prompt"`
	Matched bool                 `json:"matched"`
}

// StoryResponse is the result of POST /api/v1/stories.
type StoryResponse struct {
	Label  emotion.EmotionLabel `json:"label"`
	Prompt string               `json:"prompt"`
	Story  string               `json:"story"`
}

// PromptEntry is one row of the prompt table.
type PromptEntry struct {
	Label  emotion.EmotionLabel `json:"label"`
	Prompt string               `json:"prompt"`
}

// PromptsResponse is the result of GET /api/v1/prompts.
type PromptsResponse struct {
	Prompts  []PromptEntry `json:"prompts"`
	Fallback string        `json:"fallback"`
}

// Home renders the empty form.
func (h *StoryHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, templates.PageData{})
}

// Detect classifies the submitted text and offers the generate button.
func (h *StoryHandler) Detect(c *gin.Context) {
	text := c.PostForm("text")
	d, err := h.router.Detect(c.Request.Context(), text)
	if err != nil {
		h.renderError(c, text, err)
		return
	}
	h.render(c, http.StatusOK, templates.PageData{Text: text, Emotion: d.Label.Title()})
}

// Generate re-runs detection for the submitted text and writes the story.
func (h *StoryHandler) Generate(c *gin.Context) {
	text := c.PostForm("text")
	s, err := h.router.Tell(c.Request.Context(), text)
	if err != nil {
		h.renderError(c, text, err)
		return
	}
	h.render(c, http.StatusOK, templates.PageData{Text: text, Emotion: s.Label.Title(), Story: s.Text})
}

// DetectEmotion handles POST /api/v1/emotions.
func (h *StoryHandler) DetectEmotion(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.router.Detect(c.Request.Context(), req.Text)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, EmotionResponse{
		Label:   d.Label,
		Score:   d.Score,
		Prompt:  d.Prompt,
		Matched: d.Matched,
	})
}

// CreateStory handles POST /api/v1/stories.
func (h *StoryHandler) CreateStory(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.router.Tell(c.Request.Context(), req.Text)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, StoryResponse{Label: s.Label, Prompt: s.Prompt, Story: s.Text})
}

// ListPrompts handles GET /api/v1/prompts.
func (h *StoryHandler) ListPrompts(c *gin.Context) {
	table := h.router.Table()
	labels := table.Labels()
	entries := make([]PromptEntry, 0, len(labels))
	for _, label := range labels {
		instruction, _ := table.Lookup(label)
		entries = append(entries, PromptEntry{Label: label, Prompt: instruction})
	}
	c.JSON(http.StatusOK, PromptsResponse{Prompts: entries, Fallback: table.Fallback()})
}

// GetConfig handles GET /api/v1/config.
func (h *StoryHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.router.Config())
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *StoryHandler) render(c *gin.Context, status int, data templates.PageData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	component := templates.StoryPage(data)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("failed to render page", "error", err.Error())
	}
}

func (h *StoryHandler) renderError(c *gin.Context, text string, err error) {
	status := statusFor(err)
	data := templates.PageData{Text: text}
	if status == http.StatusBadRequest {
		data.Warning = emptyPromptWarning
	} else {
		h.report(c, err)
		data.Error = userMessage(err)
	}
	h.render(c, status, data)
}

func (h *StoryHandler) jsonError(c *gin.Context, err error) {
	status := statusFor(err)
	if status != http.StatusBadRequest {
		h.report(c, err)
	}
	c.JSON(status, gin.H{"error": userMessage(err)})
}

func (h *StoryHandler) report(c *gin.Context, err error) {
	h.logger.Error("story request failed",
		"request_id", c.GetString(RequestIDKey),
		"path", c.Request.URL.Path,
		"error", err.Error())
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("request_id", c.GetString(RequestIDKey))
			hub.CaptureException(err)
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, story.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, story.ErrClassificationFailed), errors.Is(err, story.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, story.ErrEmptyInput):
		return story.ErrEmptyInput.Error()
	case errors.Is(err, story.ErrClassificationFailed):
		return story.ErrClassificationFailed.Error()
	case errors.Is(err, story.ErrGenerationFailed):
		return story.ErrGenerationFailed.Error()
	default:
		return "internal server error"
	}
}
