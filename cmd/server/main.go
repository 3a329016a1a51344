package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"dendrite/internal/auth"
	"dendrite/internal/config"
	"dendrite/internal/handler"
	"dendrite/internal/middleware"
	"dendrite/internal/objectstore"
	"dendrite/internal/render"
	"dendrite/internal/repository/postgres"
	"dendrite/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging; dev runs also tee to a rotated local file
	logLevel := slog.LevelInfo
	logOutput := io.Writer(os.Stdout)
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
		if f, err := config.SetupLogFile("logs", 10); err == nil {
			defer f.Close()
			logOutput = io.MultiWriter(os.Stdout, f)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier against the identity provider's key set
	jwtVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	storyRepo := postgres.NewStoryRepository(repoConfig)
	pageRepo := postgres.NewPageRepository(repoConfig)
	variantRepo := postgres.NewVariantRepository(repoConfig)
	optionRepo := postgres.NewOptionRepository(repoConfig)
	submissionRepo := postgres.NewSubmissionRepository(repoConfig)
	moderationRepo := postgres.NewModerationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Object store for rendered artifacts
	store, err := objectstore.NewGCSStore(ctx, cfg.Bucket, cfg.EmulatorHost, logger)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}
	defer store.Close()

	// CDN invalidation is optional; without a url map the artifacts are
	// served straight from the bucket and stale cache entries age out.
	var invalidator objectstore.Invalidator
	if cfg.URLMap != "" {
		invalidator = objectstore.NewCDNInvalidator(cfg.ProjectID, cfg.URLMap, cfg.CDNHost, logger)
		logger.Info("cdn invalidation enabled", "url_map", cfg.URLMap)
	}

	// Site chrome for rendered artifacts
	site, err := render.LoadSite()
	if err != nil {
		log.Fatalf("Failed to load site config: %v", err)
	}

	// Create services
	randSource := service.NewRandomSource()
	publisher := service.NewPublisher(storyRepo, pageRepo, variantRepo, optionRepo, store, invalidator, site, logger)
	graphService := service.NewGraphService(storyRepo, pageRepo, variantRepo, optionRepo, submissionRepo, txManager, publisher, randSource, logger)
	moderationService := service.NewModerationService(moderationRepo, variantRepo, pageRepo, txManager, publisher, randSource, logger)
	readerService := service.NewReaderService(pageRepo, variantRepo, randSource, logger)

	// Create handlers
	submissionHandler := handler.NewSubmissionHandler(graphService, logger)
	moderationHandler := handler.NewModerationHandler(moderationService, logger)
	readerHandler := handler.NewReaderHandler(readerService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Submission routes (anonymous, form-encoded; a bearer token credits
	// the author when present)
	optional := middleware.OptionalAuth(jwtVerifier, logger)
	mux.Handle("POST /api/submissions/story", optional(http.HandlerFunc(submissionHandler.SubmitStory)))
	mux.Handle("POST /api/submissions/page", optional(http.HandlerFunc(submissionHandler.SubmitPage)))

	// Reader routes
	mux.HandleFunc("GET /r/{page}", readerHandler.Redirect)
	mux.HandleFunc("POST /api/moderation/report", moderationHandler.SubmitReport)

	// Moderation routes (authenticated)
	authed := middleware.Auth(jwtVerifier, logger)
	mux.Handle("GET /api/moderation/variant", authed(http.HandlerFunc(moderationHandler.GetVariant)))
	mux.Handle("POST /api/moderation/variant", authed(http.HandlerFunc(moderationHandler.GetVariant)))
	mux.Handle("POST /api/moderation/rating", authed(http.HandlerFunc(moderationHandler.SubmitRating)))

	// Build middleware chain
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
