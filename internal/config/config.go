package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string // external identity provider's key set
	CORSOrigins string
	TablePrefix string
	// Publishing
	Bucket       string // object store bucket for rendered HTML
	CDNHost      string // host passed to the CDN invalidation hook
	URLMap       string // CDN url map name; empty disables invalidation
	ProjectID    string
	EmulatorHost string // object store emulator; empty means real GCS
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	identityURL := getEnv("IDENTITY_URL", "")

	// Construct JWKS URL from the identity provider base URL
	jwksURL := identityURL + "/auth/v1/.well-known/jwks.json"

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     jwksURL,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		// Publishing
		Bucket:       getEnv("PUBLISH_BUCKET", "dendrite-prod-static"),
		CDNHost:      getEnv("CDN_HOST", "www.dendritestories.co.nz"),
		URLMap:       getEnv("URL_MAP", ""),
		ProjectID:    getEnv("GOOGLE_CLOUD_PROJECT", os.Getenv("GCLOUD_PROJECT")),
		EmulatorHost: getEnv("STORAGE_EMULATOR_HOST", ""),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
