package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/snotevid/video-notes-go/internal/models"
	"github.com/snotevid/video-notes-go/pkg/logger"
)

// ResultCache is a Redis-backed cache of assembled results, keyed by
// (user, video, language). Cache failures are always soft: a broken cache
// degrades to database reads, never to request failures.
type ResultCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewResultCache creates a new ResultCache.
func NewResultCache(redisClient *redis.Client, ttl time.Duration) *ResultCache {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &ResultCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func resultKey(userID, youtubeID, language string) string {
	return fmt.Sprintf("notes:result:%s:%s:%s", userID, youtubeID, language)
}

// Get returns the cached assembled result, or false on a miss.
func (c *ResultCache) Get(ctx context.Context, userID, youtubeID, language string) (*models.VideoWithNotes, bool) {
	data, err := c.redisClient.Get(ctx, resultKey(userID, youtubeID, language)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("result cache read failed",
				zap.Error(err),
				zap.String("youtubeId", youtubeID),
			)
		}
		return nil, false
	}

	var result models.VideoWithNotes
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Log.Warn("result cache entry corrupt, ignoring",
			zap.Error(err),
			zap.String("youtubeId", youtubeID),
		)
		return nil, false
	}

	return &result, true
}

// Set stores an assembled result with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, userID string, result *models.VideoWithNotes) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.Log.Warn("failed to serialize result for cache", zap.Error(err))
		return
	}

	key := resultKey(userID, result.YouTubeID, result.Language)
	if err := c.redisClient.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Log.Warn("result cache write failed",
			zap.Error(err),
			zap.String("youtubeId", result.YouTubeID),
		)
	}
}
