package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"dendrite/internal/config"
	"dendrite/internal/domain/services"
	"dendrite/internal/objectstore"
	"dendrite/internal/render"
	"dendrite/internal/repository/postgres"
	"dendrite/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed a demo story")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

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
	txManager := postgres.NewTransactionManager(pool)

	// Seed writes rendered artifacts into memory; publishing to the real
	// bucket is the server's job.
	site, err := render.LoadSite()
	if err != nil {
		log.Fatalf("Failed to load site config: %v", err)
	}
	publisher := service.NewPublisher(storyRepo, pageRepo, variantRepo, optionRepo,
		objectstore.NewMemoryStore(), nil, site, logger)

	graphService := service.NewGraphService(storyRepo, pageRepo, variantRepo, optionRepo,
		submissionRepo, txManager, publisher, service.NewRandomSource(), logger)

	// Seed a demo story through the same path real submissions take
	log.Println("📝 Seeding demo story...")
	if err := seedDemoStory(ctx, graphService); err != nil {
		log.Fatalf("Failed to seed demo story: %v", err)
	}

	log.Println("✅ Seeding complete")
}

// seedDemoStory submits a small two-branch story root.
func seedDemoStory(ctx context.Context, graph services.GraphService) error {
	_, err := graph.SubmitStory(ctx, &services.SubmitStoryRequest{
		Title:      "The Lighthouse Keeper",
		Content:    "The lamp went dark an hour before the storm made landfall. You are halfway up the spiral stair when you hear the door below swing open.",
		AuthorName: "demo",
		Options: []string{
			"Keep climbing toward the lamp room",
			"Go back down and bar the door",
		},
	})
	return err
}

func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create stories table
	createStories := `
		CREATE TABLE IF NOT EXISTS ` + tables.Stories + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			root_page_id UUID,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createStories); err != nil {
		return err
	}

	// Create pages table. The page number is the reader-facing address and
	// is unique across every story; the unique index is the fence two
	// racing allocators land on.
	createPages := `
		CREATE TABLE IF NOT EXISTS ` + tables.Pages + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			story_id UUID REFERENCES ` + tables.Stories + `(id) ON DELETE CASCADE,
			number BIGINT NOT NULL,
			incoming_option_id UUID,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createPages); err != nil {
		return err
	}

	// Create variants table
	createVariants := `
		CREATE TABLE IF NOT EXISTS ` + tables.Variants + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			page_id UUID NOT NULL REFERENCES ` + tables.Pages + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			author_id UUID,
			author_name TEXT NOT NULL DEFAULT '',
			visibility DOUBLE PRECISION NOT NULL DEFAULT 1,
			moderation_rating_count INTEGER NOT NULL DEFAULT 0,
			moderator_reputation_sum DOUBLE PRECISION NOT NULL DEFAULT 0,
			rand DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(page_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createVariants); err != nil {
		return err
	}

	// Create options table
	createOptions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Options + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			variant_id UUID NOT NULL REFERENCES ` + tables.Variants + `(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			target_page_id UUID REFERENCES ` + tables.Pages + `(id) ON DELETE SET NULL,
			position INTEGER NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(variant_id, position)
		)
	`
	if _, err := pool.Exec(ctx, createOptions); err != nil {
		return err
	}

	// Create submissions table (write-once, processed flag flips once)
	createSubmissions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Submissions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			kind TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			author_name TEXT NOT NULL DEFAULT '',
			author_id UUID,
			incoming_option TEXT NOT NULL DEFAULT '',
			page_number BIGINT NOT NULL DEFAULT 0,
			options TEXT[] NOT NULL DEFAULT '{}',
			processed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSubmissions); err != nil {
		return err
	}

	// Create moderators table
	createModerators := `
		CREATE TABLE IF NOT EXISTS ` + tables.Moderators + ` (
			id TEXT PRIMARY KEY,
			assigned_variant_id UUID REFERENCES ` + tables.Variants + `(id) ON DELETE SET NULL
		)
	`
	if _, err := pool.Exec(ctx, createModerators); err != nil {
		return err
	}

	// Create moderation ratings table (append-only)
	createRatings := `
		CREATE TABLE IF NOT EXISTS ` + tables.ModerationRatings + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			moderator_id TEXT NOT NULL,
			variant_id UUID NOT NULL REFERENCES ` + tables.Variants + `(id) ON DELETE CASCADE,
			is_approved BOOLEAN NOT NULL,
			rated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createRatings); err != nil {
		return err
	}

	// Create moderation reports table (append-only)
	createReports := `
		CREATE TABLE IF NOT EXISTS ` + tables.ModerationReports + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			variant_slug TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createReports); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `pages_number ON ` + tables.Pages + `(number)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `variants_page_id ON ` + tables.Variants + `(page_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `variants_rand ON ` + tables.Variants + `(rand)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `variants_unrated_rand ON ` + tables.Variants + `(rand) WHERE moderation_rating_count = 0`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `options_variant_id ON ` + tables.Options + `(variant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `submissions_unprocessed ON ` + tables.Submissions + `(created_at) WHERE processed = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `ratings_variant_id ON ` + tables.ModerationRatings + `(variant_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops every prefixed table, children first.
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	ordered := []string{
		tables.ModerationReports,
		tables.ModerationRatings,
		tables.Moderators,
		tables.Submissions,
		tables.Options,
		tables.Variants,
		tables.Pages,
		tables.Stories,
	}
	for _, table := range ordered {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}
