package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/snotevid/video-notes-go/internal/config"
	"github.com/snotevid/video-notes-go/internal/db"
	"github.com/snotevid/video-notes-go/internal/metrics"
	"github.com/snotevid/video-notes-go/internal/models"
	"github.com/snotevid/video-notes-go/internal/parser"
	"github.com/snotevid/video-notes-go/internal/service/frames"
	"github.com/snotevid/video-notes-go/pkg/logger"
)

const defaultLanguage = "en"

// Storage is the persistence surface the pipeline needs.
type Storage interface {
	GetVideo(ctx context.Context, youtubeID string) (*models.Video, error)
	UpsertVideo(ctx context.Context, video *models.Video) error
	GetUserVideo(ctx context.Context, userID string, videoID uuid.UUID, language string) (*models.UserVideo, error)
	CreateUserVideo(ctx context.Context, record *models.UserVideo) error
	GetVideoWithNotes(ctx context.Context, userID, youtubeID, language string) (*models.VideoWithNotes, error)
	GetUserHistory(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
}

// MetadataFetcher fetches descriptive metadata for a video.
type MetadataFetcher interface {
	FetchVideoInfo(ctx context.Context, videoID string) (*models.VideoInfo, error)
}

// TranscriptFetcher fetches a cleaned transcript. The boolean reports whether
// a usable transcript exists at all.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID, preferredLanguage string) (string, bool)
}

// NotesGenerator produces markdown study notes from analyzable content.
type NotesGenerator interface {
	GenerateNotes(ctx context.Context, analyzable string, fromTranscript bool, language, videoTitle string) (string, error)
}

// EventPublisher publishes processed-video events after persistence.
type EventPublisher interface {
	PublishProcessed(ctx context.Context, event *models.ProcessedEvent) error
}

// NotesService orchestrates the full pipeline: resolve the video ID, check
// for an existing record, acquire content, generate notes, derive frames,
// persist, and assemble the result.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type NotesService struct {
	storage     Storage
	metadata    MetadataFetcher
	transcripts TranscriptFetcher
	generator   NotesGenerator
	extractor   frames.Extractor
	publisher   EventPublisher // optional
	cache       *ResultCache   // optional
	cfg         config.NotesConfig
	group       singleflight.Group
}

// NewNotesService creates a NotesService. The publisher and cache may be nil;
// both are best-effort side channels of the pipeline.
func NewNotesService(
	storage Storage,
	metadata MetadataFetcher,
	transcripts TranscriptFetcher,
	generator NotesGenerator,
	extractor frames.Extractor,
	publisher EventPublisher,
	cache *ResultCache,
	cfg config.NotesConfig,
) *NotesService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	return &NotesService{
		storage:     storage,
		metadata:    metadata,
		transcripts: transcripts,
		generator:   generator,
		extractor:   extractor,
		publisher:   publisher,
		cache:       cache,
		cfg:         cfg,
	}
}

// ProcessVideo runs the pipeline for one (user, URL, language) request.
// Repeat requests for an already-processed combination return the stored
// result without regenerating anything. Concurrent requests for the same
// combination are collapsed onto a single in-flight run.
func (s *NotesService) ProcessVideo(ctx context.Context, userID, url, language string, demo bool) (*models.VideoWithNotes, error) {
	if url == "" {
		return nil, s.fail(KindInvalidInput, "url is required", nil)
	}
	if language == "" {
		language = defaultLanguage
	}

	videoID, err := parser.ExtractVideoID(url)
	if err != nil {
		if errors.Is(err, parser.ErrNotYouTubeURL) {
			return nil, s.fail(KindInvalidInput, "not a YouTube URL", err)
		}
		return nil, s.fail(KindUnresolvableURL, "could not extract a video ID from the URL", err)
	}

	key := fmt.Sprintf("%s:%s:%s", userID, videoID, language)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.process(ctx, userID, videoID, language, demo)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.VideoWithNotes), nil
}

func (s *NotesService) process(ctx context.Context, userID, videoID, language string, demo bool) (*models.VideoWithNotes, error) {
	// Idempotency check: an existing record short-circuits the pipeline.
	if cached, err := s.lookupExisting(ctx, userID, videoID, language); err != nil {
		return nil, err
	} else if cached != nil {
		metrics.CacheHits.Inc()
		metrics.PipelineRequests.WithLabelValues("cached").Inc()
		logger.Log.Info("Returning previously processed video",
			zap.String("userId", userID),
			zap.String("youtubeId", videoID),
			zap.String("language", language),
		)
		return cached, nil
	}

	info, err := s.metadata.FetchVideoInfo(ctx, videoID)
	if err != nil {
		return nil, s.fail(KindVideoUnavailable, "video metadata could not be fetched", err)
	}

	content, err := s.acquireContent(ctx, videoID, language, demo, info)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	notes, err := s.generator.GenerateNotes(ctx, content.Text, content.FromTranscript, language, info.Title)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.fail(KindGenerationFailed, "note generation failed", err)
	}

	keyFrames, err := s.extractor.ExtractKeyFrames(ctx, videoID, info.Duration)
	if err != nil {
		// Frame derivation is best-effort and never fails the pipeline.
		logger.Log.Warn("Key frame extraction failed, continuing without frames",
			zap.Error(err),
			zap.String("youtubeId", videoID),
		)
		keyFrames = []string{}
	}

	result, err := s.persist(ctx, userID, videoID, language, info, notes, keyFrames)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, result)
	}

	metrics.PipelineRequests.WithLabelValues("completed").Inc()
	logger.Log.Info("Video processed",
		zap.String("userId", userID),
		zap.String("youtubeId", videoID),
		zap.String("language", language),
		zap.Int("frameCount", len(result.KeyFrames)),
		zap.Bool("fromTranscript", content.FromTranscript),
	)
	return result, nil
}

// lookupExisting returns the assembled result if this user already processed
// this video in this language, or nil when the pipeline should run.
func (s *NotesService) lookupExisting(ctx context.Context, userID, videoID, language string) (*models.VideoWithNotes, error) {
	video, err := s.storage.GetVideo(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, s.fail(KindInternal, "failed to look up video", err)
	}

	if _, err := s.storage.GetUserVideo(ctx, userID, video.ID, language); err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, s.fail(KindInternal, "failed to look up user record", err)
	}

	result, err := s.storage.GetVideoWithNotes(ctx, userID, videoID, language)
	if err != nil {
		return nil, s.fail(KindInternal, "failed to load existing result", err)
	}
	return result, nil
}

// acquireContent picks the analyzable text block: the demo transcript for
// demo requests, a fetched transcript when one is usable, and otherwise a
// metadata-derived block when the fallback is enabled.
func (s *NotesService) acquireContent(ctx context.Context, videoID, language string, demo bool, info *models.VideoInfo) (Content, error) {
	if demo || videoID == demoVideoID {
		return Content{Text: demoTranscript, FromTranscript: true}, nil
	}

	if transcript, ok := s.transcripts.Fetch(ctx, videoID, language); ok {
		return Content{Text: transcript, FromTranscript: true}, nil
	}

	if !s.cfg.MetadataFallbackEnabled {
		return Content{}, s.fail(KindNoContent, "no usable transcript and metadata fallback is disabled", nil)
	}

	metrics.TranscriptFallbacks.Inc()
	logger.Log.Info("No usable transcript, synthesizing content from metadata",
		zap.String("youtubeId", videoID),
	)
	return synthesizeContent(info), nil
}

// persist upserts the shared video row and inserts the user's record. A
// duplicate key on insert means another request won the race; the stored
// result is returned instead of an error.
func (s *NotesService) persist(ctx context.Context, userID, videoID, language string, info *models.VideoInfo, notes string, keyFrames []string) (*models.VideoWithNotes, error) {
	video := &models.Video{
		YouTubeID:    videoID,
		Title:        info.Title,
		Duration:     info.Duration,
		ThumbnailURL: info.Thumbnail,
	}
	if err := s.storage.UpsertVideo(ctx, video); err != nil {
		return nil, s.fail(KindInternal, "failed to store video", err)
	}

	record := &models.UserVideo{
		ID:        uuid.New(),
		UserID:    userID,
		VideoID:   video.ID,
		Language:  language,
		Notes:     notes,
		KeyFrames: keyFrames,
	}
	if err := s.storage.CreateUserVideo(ctx, record); err != nil {
		if db.IsDuplicateKey(err) {
			existing, refetchErr := s.storage.GetVideoWithNotes(ctx, userID, videoID, language)
			if refetchErr != nil {
				return nil, s.fail(KindDuplicateRequest, "concurrent request already created this record", err)
			}
			logger.Log.Info("Concurrent request persisted first, returning its result",
				zap.String("userId", userID),
				zap.String("youtubeId", videoID),
			)
			return existing, nil
		}
		return nil, s.fail(KindInternal, "failed to store user record", err)
	}

	if s.publisher != nil {
		event := &models.ProcessedEvent{
			RecordID:    record.ID,
			UserID:      userID,
			YouTubeID:   videoID,
			Language:    language,
			FrameCount:  len(keyFrames),
			ProcessedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishProcessed(ctx, event); err != nil {
			logger.Log.Warn("Failed to publish processed-video event",
				zap.Error(err),
				zap.String("recordId", record.ID.String()),
			)
		}
	}

	result, err := s.storage.GetVideoWithNotes(ctx, userID, videoID, language)
	if err != nil {
		return nil, s.fail(KindInternal, "failed to load stored result", err)
	}
	return result, nil
}

// GetResult returns the stored result for a video this user already
// processed. An empty language matches the user's most recent record for the
// video.
func (s *NotesService) GetResult(ctx context.Context, userID, youtubeID, language string) (*models.VideoWithNotes, error) {
	if s.cache != nil && language != "" {
		if result, ok := s.cache.Get(ctx, userID, youtubeID, language); ok {
			return result, nil
		}
	}

	result, err := s.storage.GetVideoWithNotes(ctx, userID, youtubeID, language)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, newError(KindNotFound, "no processed result for this video", err)
		}
		return nil, newError(KindInternal, "failed to load result", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, result)
	}
	return result, nil
}

// GetHistory returns the user's most recent processing records.
func (s *NotesService) GetHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	history, err := s.storage.GetUserHistory(ctx, userID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, newError(KindInternal, "failed to load history", err)
	}
	return history, nil
}

func (s *NotesService) fail(kind ErrorKind, message string, cause error) error {
	metrics.PipelineRequests.WithLabelValues(string(kind)).Inc()
	return newError(kind, message, cause)
}
