package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snotevid/video-notes-go/internal/db"
	"github.com/snotevid/video-notes-go/internal/db/testutil"
	"github.com/snotevid/video-notes-go/internal/models"
)

func seedVideo(t *testing.T, repo Repository, youtubeID string) *models.Video {
	video := &models.Video{
		YouTubeID:    youtubeID,
		Title:        "Test Video " + youtubeID,
		Duration:     "3:32",
		ThumbnailURL: "https://i.ytimg.com/vi/" + youtubeID + "/hqdefault.jpg",
	}
	require.NoError(t, repo.UpsertVideo(context.Background(), video))
	return video
}

func seedUserVideo(t *testing.T, repo Repository, userID string, videoID uuid.UUID, language string) *models.UserVideo {
	record := &models.UserVideo{
		ID:        uuid.New(),
		UserID:    userID,
		VideoID:   videoID,
		Language:  language,
		Notes:     "# Notes\n\nKey point [1].",
		KeyFrames: []string{"/static/frames/placeholder.svg"},
	}
	require.NoError(t, repo.CreateUserVideo(context.Background(), record))
	return record
}

func TestRepository_UpsertVideo(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := New(td.Pool)
	ctx := context.Background()

	t.Run("creates new video", func(t *testing.T) {
		td.TruncateTables(t)

		video := &models.Video{
			YouTubeID:    "dQw4w9WgXcQ",
			Title:        "Test Video",
			Duration:     "3:32",
			ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		}
		err := repo.UpsertVideo(ctx, video)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, video.ID)
		assert.NotZero(t, video.CreatedAt)
	})

	t.Run("updates existing video keeping identity", func(t *testing.T) {
		td.TruncateTables(t)

		first := seedVideo(t, repo, "dQw4w9WgXcQ")

		updated := &models.Video{
			YouTubeID: "dQw4w9WgXcQ",
			Title:     "Renamed Video",
			Duration:  "3:33",
		}
		err := repo.UpsertVideo(ctx, updated)

		require.NoError(t, err)
		assert.Equal(t, first.ID, updated.ID)
		assert.Equal(t, first.CreatedAt.Unix(), updated.CreatedAt.Unix())

		retrieved, err := repo.GetVideo(ctx, "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "Renamed Video", retrieved.Title)
		assert.Equal(t, "3:33", retrieved.Duration)
	})
}

func TestRepository_GetVideo(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := New(td.Pool)
	ctx := context.Background()

	t.Run("returns not found for unknown video", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := repo.GetVideo(ctx, "missing1234")

		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestRepository_UserVideo(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := New(td.Pool)
	ctx := context.Background()

	t.Run("creates and retrieves record", func(t *testing.T) {
		td.TruncateTables(t)

		video := seedVideo(t, repo, "dQw4w9WgXcQ")
		record := seedUserVideo(t, repo, "user-1", video.ID, "en")
		assert.NotZero(t, record.ProcessedAt)

		retrieved, err := repo.GetUserVideo(ctx, "user-1", video.ID, "en")
		require.NoError(t, err)
		assert.Equal(t, record.ID, retrieved.ID)
		assert.Equal(t, record.Notes, retrieved.Notes)
		assert.Equal(t, []string{"/static/frames/placeholder.svg"}, retrieved.KeyFrames)
	})

	t.Run("rejects duplicate user video language", func(t *testing.T) {
		td.TruncateTables(t)

		video := seedVideo(t, repo, "dQw4w9WgXcQ")
		seedUserVideo(t, repo, "user-1", video.ID, "en")

		dup := &models.UserVideo{
			ID:       uuid.New(),
			UserID:   "user-1",
			VideoID:  video.ID,
			Language: "en",
			Notes:    "different notes",
		}
		err := repo.CreateUserVideo(ctx, dup)

		require.Error(t, err)
		assert.True(t, db.IsDuplicateKey(err))
	})

	t.Run("allows same video in another language", func(t *testing.T) {
		td.TruncateTables(t)

		video := seedVideo(t, repo, "dQw4w9WgXcQ")
		seedUserVideo(t, repo, "user-1", video.ID, "en")
		seedUserVideo(t, repo, "user-1", video.ID, "es")

		_, err := repo.GetUserVideo(ctx, "user-1", video.ID, "es")
		require.NoError(t, err)
	})

	t.Run("fails with unknown video id", func(t *testing.T) {
		td.TruncateTables(t)

		record := &models.UserVideo{
			ID:       uuid.New(),
			UserID:   "user-1",
			VideoID:  uuid.New(),
			Language: "en",
			Notes:    "notes",
		}
		err := repo.CreateUserVideo(ctx, record)

		require.Error(t, err)
	})
}

func TestRepository_GetVideoWithNotes(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := New(td.Pool)
	ctx := context.Background()

	t.Run("returns assembled result for exact language", func(t *testing.T) {
		td.TruncateTables(t)

		video := seedVideo(t, repo, "dQw4w9WgXcQ")
		record := seedUserVideo(t, repo, "user-1", video.ID, "en")

		result, err := repo.GetVideoWithNotes(ctx, "user-1", "dQw4w9WgXcQ", "en")

		require.NoError(t, err)
		assert.Equal(t, record.ID, result.ID)
		assert.Equal(t, "dQw4w9WgXcQ", result.YouTubeID)
		assert.Equal(t, video.Title, result.Title)
		assert.Equal(t, record.Notes, result.Notes)
		assert.Equal(t, "en", result.Language)
		assert.Equal(t, record.KeyFrames, result.KeyFrames)
	})

	t.Run("empty language returns most recent record", func(t *testing.T) {
		td.TruncateTables(t)

		video := seedVideo(t, repo, "dQw4w9WgXcQ")
		seedUserVideo(t, repo, "user-1", video.ID, "en")
		time.Sleep(10 * time.Millisecond)
		latest := seedUserVideo(t, repo, "user-1", video.ID, "es")

		result, err := repo.GetVideoWithNotes(ctx, "user-1", "dQw4w9WgXcQ", "")

		require.NoError(t, err)
		assert.Equal(t, latest.ID, result.ID)
		assert.Equal(t, "es", result.Language)
	})

	t.Run("does not leak other users' records", func(t *testing.T) {
		td.TruncateTables(t)

		video := seedVideo(t, repo, "dQw4w9WgXcQ")
		seedUserVideo(t, repo, "user-1", video.ID, "en")

		_, err := repo.GetVideoWithNotes(ctx, "user-2", "dQw4w9WgXcQ", "en")

		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestRepository_GetUserHistory(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := New(td.Pool)
	ctx := context.Background()

	t.Run("returns newest first up to limit", func(t *testing.T) {
		td.TruncateTables(t)

		for i := 0; i < 12; i++ {
			video := seedVideo(t, repo, fmt.Sprintf("video%05d_", i))
			seedUserVideo(t, repo, "user-1", video.ID, "en")
			time.Sleep(5 * time.Millisecond)
		}

		history, err := repo.GetUserHistory(ctx, "user-1", 10)

		require.NoError(t, err)
		require.Len(t, history, 10)
		assert.Equal(t, "video00011_", history[0].YouTubeID)
		for i := 1; i < len(history); i++ {
			assert.False(t, history[i].ProcessedAt.After(history[i-1].ProcessedAt))
		}
	})

	t.Run("returns empty slice for unknown user", func(t *testing.T) {
		td.TruncateTables(t)

		history, err := repo.GetUserHistory(ctx, "nobody", 10)

		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
