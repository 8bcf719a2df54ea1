package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"domli-search/internal/config"
	"domli-search/internal/handler"
	"domli-search/internal/repository"
	"domli-search/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("DomLi property search",
		"version", Version, "build_time", BuildTime, "git_commit", GitCommit)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Pick the corpus source: Postgres when configured, CSV otherwise
	var corpus repository.CorpusSource
	if cfg.Corpus.DatabaseURL != "" {
		repo, err := repository.NewPostgresRepository(
			cfg.Corpus.DatabaseURL,
			cfg.Corpus.MaxConnections,
			cfg.Corpus.MaxIdleConnections,
		)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		corpus = repo
		logger.Info("✅ Property corpus: PostgreSQL")
	} else {
		corpus = repository.NewCSVRepository(cfg.Corpus.CSVPath)
		logger.Info("✅ Property corpus: CSV", "path", cfg.Corpus.CSVPath)
	}

	// Initialize GigaChat client
	var aiClient service.AIClient
	if cfg.GigaChat.Enabled {
		aiClient = service.NewGigaChatClient(&cfg.GigaChat)
		logger.Info("✅ GigaChat client initialized",
			"api_base", cfg.GigaChat.APIBase,
			"model", cfg.GigaChat.Model,
			"temperature", cfg.GigaChat.Temperature,
			"max_tokens", cfg.GigaChat.MaxTokens)
	} else {
		logger.Warn("⚠️  GigaChat is disabled - replies will use the deterministic fallback")
		logger.Warn("   Set GIGACHAT_CLIENT_ID and GIGACHAT_CLIENT_SECRET to enable AI replies")
	}

	// Initialize services
	sessions := service.NewMemorySessionStore(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		cfg.Session.MaxMessages,
	)
	searchService := service.NewSearchService(corpus, service.NewGeoResolver(), service.NewStatusClassifier())
	chatService := service.NewChatService(
		searchService,
		service.NewIntentParser(),
		service.NewComposer(cfg.Search.CompactLimit),
		aiClient,
		sessions,
		logger,
		cfg.Search.ChatLimit,
		time.Duration(cfg.GigaChat.Timeout)*time.Second,
	)

	logger.Info("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService, searchService, sessions)
	propertiesHandler := handler.NewPropertiesHandler(searchService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "domli-search",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		chat := apiV1.Group("/chat")
		{
			chat.POST("/message", chatHandler.Message)
			chat.GET("/history/:sessionID", chatHandler.History)
			chat.DELETE("/history/:sessionID", chatHandler.ClearHistory)
			chat.POST("/search", chatHandler.Search)
			chat.GET("/suggestions", chatHandler.Suggestions)
			chat.GET("/health", chatHandler.Health)
		}

		properties := apiV1.Group("/properties")
		{
			properties.GET("/map-data", propertiesHandler.MapData)
			properties.GET("/recommendations", propertiesHandler.Recommendations)
			properties.GET("/filters/options", propertiesHandler.FilterOptions)
			properties.GET("/:id", propertiesHandler.GetByID)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		logger.Info("🚀 Starting server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("✅ Server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
