// Package repository implements PostgreSQL persistence for videos and
// per-user processing records.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/snotevid/video-notes-go/internal/db"
	"github.com/snotevid/video-notes-go/internal/models"
)

// Repository defines persistence operations for the notes pipeline.
type Repository interface {
	// GetVideo retrieves the shared video row by its YouTube ID.
	GetVideo(ctx context.Context, youtubeID string) (*models.Video, error)

	// UpsertVideo creates the video row or refreshes its metadata. The
	// internal ID and creation time are written back into video.
	UpsertVideo(ctx context.Context, video *models.Video) error

	// GetUserVideo retrieves one user's record for a video and language.
	GetUserVideo(ctx context.Context, userID string, videoID uuid.UUID, language string) (*models.UserVideo, error)

	// CreateUserVideo inserts a user's processing record.
	CreateUserVideo(ctx context.Context, record *models.UserVideo) error

	// GetVideoWithNotes retrieves the assembled result for a user and video.
	// An empty language matches the user's most recent record.
	GetVideoWithNotes(ctx context.Context, userID, youtubeID, language string) (*models.VideoWithNotes, error)

	// GetUserHistory retrieves the user's most recent records, newest first.
	GetUserHistory(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error
}

type notesRepository struct {
	pool *pgxpool.Pool
}

// New creates a new Repository backed by a pgx connection pool.
func New(pool *pgxpool.Pool) Repository {
	return &notesRepository{pool: pool}
}

func (r *notesRepository) GetVideo(ctx context.Context, youtubeID string) (*models.Video, error) {
	query := `
		SELECT id, youtube_id, title, duration, thumbnail_url, created_at
		FROM videos
		WHERE youtube_id = $1
	`

	video := &models.Video{}
	err := r.pool.QueryRow(ctx, query, youtubeID).Scan(
		&video.ID,
		&video.YouTubeID,
		&video.Title,
		&video.Duration,
		&video.ThumbnailURL,
		&video.CreatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get video")
	}

	return video, nil
}

func (r *notesRepository) UpsertVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (youtube_id, title, duration, thumbnail_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (youtube_id) DO UPDATE
		SET title = EXCLUDED.title,
		    duration = EXCLUDED.duration,
		    thumbnail_url = EXCLUDED.thumbnail_url
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		video.YouTubeID,
		video.Title,
		video.Duration,
		video.ThumbnailURL,
	).Scan(
		&video.ID,
		&video.CreatedAt,
	)
	if err != nil {
		return db.WrapError(err, "upsert video")
	}

	return nil
}

func (r *notesRepository) GetUserVideo(ctx context.Context, userID string, videoID uuid.UUID, language string) (*models.UserVideo, error) {
	query := `
		SELECT id, user_id, video_id, language, notes, key_frames, processed_at
		FROM user_videos
		WHERE user_id = $1 AND video_id = $2 AND language = $3
	`

	record := &models.UserVideo{}
	err := r.pool.QueryRow(ctx, query, userID, videoID, language).Scan(
		&record.ID,
		&record.UserID,
		&record.VideoID,
		&record.Language,
		&record.Notes,
		&record.KeyFrames,
		&record.ProcessedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get user video")
	}

	return record, nil
}

func (r *notesRepository) CreateUserVideo(ctx context.Context, record *models.UserVideo) error {
	if record.KeyFrames == nil {
		record.KeyFrames = []string{}
	}

	query := `
		INSERT INTO user_videos (id, user_id, video_id, language, notes, key_frames)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING processed_at
	`

	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.VideoID,
		record.Language,
		record.Notes,
		record.KeyFrames,
	).Scan(&record.ProcessedAt)
	if err != nil {
		return db.WrapError(err, "create user video")
	}

	return nil
}

func (r *notesRepository) GetVideoWithNotes(ctx context.Context, userID, youtubeID, language string) (*models.VideoWithNotes, error) {
	query := `
		SELECT uv.id, v.youtube_id, v.title, v.duration, v.thumbnail_url, v.created_at,
		       uv.notes, uv.key_frames, uv.language, uv.processed_at
		FROM user_videos uv
		JOIN videos v ON v.id = uv.video_id
		WHERE uv.user_id = $1 AND v.youtube_id = $2
		  AND ($3::text = '' OR uv.language = $3)
		ORDER BY uv.processed_at DESC
		LIMIT 1
	`

	result := &models.VideoWithNotes{}
	err := r.pool.QueryRow(ctx, query, userID, youtubeID, language).Scan(
		&result.ID,
		&result.YouTubeID,
		&result.Title,
		&result.Duration,
		&result.ThumbnailURL,
		&result.CreatedAt,
		&result.Notes,
		&result.KeyFrames,
		&result.Language,
		&result.ProcessedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get video with notes")
	}

	return result, nil
}

func (r *notesRepository) GetUserHistory(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	query := `
		SELECT uv.id, v.youtube_id, v.title, v.thumbnail_url, v.duration, uv.language, uv.processed_at
		FROM user_videos uv
		JOIN videos v ON v.id = uv.video_id
		WHERE uv.user_id = $1
		ORDER BY uv.processed_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, db.WrapError(err, "get user history")
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var entry models.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.YouTubeID,
			&entry.Title,
			&entry.ThumbnailURL,
			&entry.Duration,
			&entry.Language,
			&entry.ProcessedAt,
		); err != nil {
			return nil, db.WrapError(err, "scan history entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate history")
	}

	return entries, nil
}

func (r *notesRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
