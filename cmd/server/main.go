package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/snotevid/video-notes-go/internal/config"
	"github.com/snotevid/video-notes-go/internal/db"
	"github.com/snotevid/video-notes-go/internal/handler"
	"github.com/snotevid/video-notes-go/internal/middleware"
	"github.com/snotevid/video-notes-go/internal/repository"
	"github.com/snotevid/video-notes-go/internal/service"
	"github.com/snotevid/video-notes-go/internal/service/frames"
	"github.com/snotevid/video-notes-go/internal/service/gemini"
	"github.com/snotevid/video-notes-go/internal/service/transcript"
	"github.com/snotevid/video-notes-go/internal/service/youtube"
	"github.com/snotevid/video-notes-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	repo := repository.New(pool)

	// Optional Redis result cache
	var cache *service.ResultCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Log.Warn("Redis unreachable, result cache disabled", zap.Error(err))
		} else {
			cache = service.NewResultCache(redisClient, cfg.Redis.TTL)
			logger.Log.Info("Result cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Optional RabbitMQ event publisher
	var publisher *service.MessagePublisher
	var eventPublisher service.EventPublisher
	if cfg.RabbitMQ.Host != "" {
		publisher, err = service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("RabbitMQ unreachable, event publishing disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			eventPublisher = publisher
		}
	}

	youtubeClient, err := youtube.NewClient(ctx, youtube.Config{
		APIKey:  cfg.YouTube.APIKey,
		Timeout: cfg.YouTube.Timeout,
	})
	if err != nil {
		logger.Log.Fatal("Failed to initialize YouTube client", zap.Error(err))
	}

	transcriptClient := transcript.NewClient(transcript.Config{
		BaseURL:         cfg.Transcript.BaseURL,
		DefaultLanguage: cfg.Transcript.DefaultLanguage,
		Timeout:         cfg.Transcript.Timeout,
	})

	geminiClient := gemini.NewClient(gemini.Config{
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		APIKey:  cfg.Gemini.APIKey,
		Timeout: cfg.Gemini.Timeout,
	})

	extractor := frames.NewPlaceholderExtractor(frames.Config{
		Dir:        cfg.Frames.Dir,
		PublicPath: cfg.Frames.PublicPath,
		Count:      cfg.Frames.Count,
	})

	notesService := service.NewNotesService(
		repo,
		youtubeClient,
		transcriptClient,
		geminiClient,
		extractor,
		eventPublisher,
		cache,
		cfg.Notes,
	)

	notesHandler := handler.NewNotesHandler(notesService)
	healthHandler := handler.NewHealthHandler(repo, publisher)
	auth := middleware.NewAuth(cfg.Auth.APIKeys)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static(cfg.Frames.PublicPath, cfg.Frames.Dir)

	api := router.Group("/api/v1")
	api.Use(auth.Middleware())
	api.POST("/videos/process", notesHandler.ProcessVideo)
	api.GET("/videos/:youtubeID/results", notesHandler.GetResult)
	api.GET("/history", notesHandler.GetHistory)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		c.Next()

		logger.Log.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("clientIp", c.ClientIP()),
		)
	}
}
