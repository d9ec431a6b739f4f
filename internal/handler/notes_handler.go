// Package handler provides HTTP request handlers for the application.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/snotevid/video-notes-go/internal/middleware"
	"github.com/snotevid/video-notes-go/internal/models"
	"github.com/snotevid/video-notes-go/internal/service"
	"github.com/snotevid/video-notes-go/pkg/logger"
)

// NotesProvider is the pipeline surface the HTTP layer depends on.
type NotesProvider interface {
	ProcessVideo(ctx context.Context, userID, url, language string, demo bool) (*models.VideoWithNotes, error)
	GetResult(ctx context.Context, userID, youtubeID, language string) (*models.VideoWithNotes, error)
	GetHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error)
}

// NotesHandler handles video processing and retrieval requests.
type NotesHandler struct {
	notes NotesProvider
}

// NewNotesHandler creates a new NotesHandler instance.
func NewNotesHandler(notes NotesProvider) *NotesHandler {
	return &NotesHandler{notes: notes}
}

// ProcessVideo accepts a YouTube URL and target language and returns the
// generated study notes.
func (h *NotesHandler) ProcessVideo(c *gin.Context) {
	var req models.ProcessVideoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Invalid request payload",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   "Invalid request payload: " + err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	userID := c.GetString(middleware.ContextUserID)

	logger.Log.Info("Received process request",
		zap.String("userId", userID),
		zap.String("url", req.URL),
		zap.String("language", req.Language),
		zap.Bool("demo", req.Demo),
	)

	result, err := h.notes.ProcessVideo(c.Request.Context(), userID, req.URL, req.Language, req.Demo)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult returns the stored result for a video the caller already
// processed. The language query parameter narrows the lookup; without it the
// most recent record wins.
func (h *NotesHandler) GetResult(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	youtubeID := c.Param("youtubeID")
	language := c.Query("language")

	result, err := h.notes.GetResult(c.Request.Context(), userID, youtubeID, language)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory returns the caller's most recent processing records.
func (h *NotesHandler) GetHistory(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	history, err := h.notes.GetHistory(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// statusForKind maps pipeline error kinds to HTTP statuses.
func statusForKind(kind service.ErrorKind) (int, string) {
	switch kind {
	case service.KindInvalidInput, service.KindUnresolvableURL:
		return http.StatusBadRequest, "Bad Request"
	case service.KindVideoUnavailable, service.KindNotFound:
		return http.StatusNotFound, "Not Found"
	case service.KindNoContent:
		return http.StatusUnprocessableEntity, "Unprocessable Entity"
	case service.KindDuplicateRequest:
		return http.StatusConflict, "Conflict"
	case service.KindGenerationFailed:
		return http.StatusBadGateway, "Bad Gateway"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func (h *NotesHandler) handleError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status, errText := statusForKind(kind)

	message := "An unexpected error occurred"
	var pe *service.PipelineError
	if errors.As(err, &pe) && kind != service.KindInternal {
		message = pe.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request failed",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("path", c.Request.URL.Path),
		)
	} else {
		logger.Log.Warn("Request rejected",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Error:     errText,
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}
