// Package models contains the data models and DTOs for the video study notes service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Video represents a distinct YouTube video shared across users. Identity is
// the external YouTube ID; the internal UUID is only a storage key.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	ID           uuid.UUID `json:"id"`
	YouTubeID    string    `json:"youtube_id"`
	Title        string    `json:"title"`
	Duration     string    `json:"duration"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserVideo represents one user's processing of one video in one language.
// At most one record exists per (user, video, language).
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UserVideo struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	VideoID     uuid.UUID `json:"video_id"`
	Language    string    `json:"language"`
	Notes       string    `json:"notes"`
	KeyFrames   []string  `json:"key_frames"`
	ProcessedAt time.Time `json:"processed_at"`
}

// VideoWithNotes is the assembled read model joining a video with the
// requesting user's record. It is derived on read and never persisted.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoWithNotes struct {
	ID           uuid.UUID `json:"id"`
	YouTubeID    string    `json:"youtube_id"`
	Title        string    `json:"title"`
	Duration     string    `json:"duration"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	Notes        string    `json:"notes"`
	KeyFrames    []string  `json:"key_frames"`
	Language     string    `json:"language"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// HistoryEntry is a single row in a user's processing history.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type HistoryEntry struct {
	ID           uuid.UUID `json:"id"`
	YouTubeID    string    `json:"youtube_id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     string    `json:"duration"`
	Language     string    `json:"language"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// VideoInfo carries descriptive metadata fetched for a video before any
// record is persisted.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoInfo struct {
	Title        string   `json:"title"`
	Duration     string   `json:"duration"`
	Thumbnail    string   `json:"thumbnail"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	ChannelTitle string   `json:"channel_title"`
}

// ProcessVideoRequest is the payload for the process-video endpoint.
type ProcessVideoRequest struct {
	URL      string `json:"url" binding:"required"`
	Language string `json:"language"`
	Demo     bool   `json:"demo"`
}

// ProcessedEvent is published to the message broker after a user record is
// persisted.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ProcessedEvent struct {
	RecordID    uuid.UUID `json:"record_id"`
	UserID      string    `json:"user_id"`
	YouTubeID   string    `json:"youtube_id"`
	Language    string    `json:"language"`
	FrameCount  int       `json:"frame_count"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ErrorResponse is the JSON error envelope returned by the API.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}
