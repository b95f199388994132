package config

import (
	"os"
	"strconv"
	"strings"
)

// Store backends.
const (
	StorePostgREST = "postgrest"
	StoreDynamo    = "dynamo"
	StoreSQLite    = "sqlite"
)

// Push providers.
const (
	PushFCM = "fcm"
	PushSNS = "sns"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	StoreBackend   string
	SupabaseURL    string
	SupabaseKey    string
	SQLitePath     string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	Tables         Tables

	PushProvider              string
	FirebaseServiceAccount    string // raw service-account JSON
	SNSRegion                 string
	SNSPlatformApplicationARN string

	AllowSelfReply      bool
	RequireOwnerProfile bool

	WebhookJWTSecret    string
	WebhookRequiredRole string   // when set, the token's role claim must match
	AllowedOrigins      []string // CORS allowed origins
}

// Tables holds the table name for each entity the relay touches.
type Tables struct {
	Stories  string
	Profiles string
	Replies  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StorePostgREST)),
		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseKey:    getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "relay.db"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Tables: Tables{
			Stories:  getEnv("TABLE_STORIES", "stories"),
			Profiles: getEnv("TABLE_PROFILES", "profiles"),
			Replies:  getEnv("TABLE_REPLIES", "story_replies"),
		},

		PushProvider:              strings.ToLower(getEnv("PUSH_PROVIDER", PushFCM)),
		FirebaseServiceAccount:    getEnv("FIREBASE_SERVICE_ACCOUNT", "{}"),
		SNSRegion:                 getEnv("SNS_REGION", "us-east-1"),
		SNSPlatformApplicationARN: getEnv("SNS_PLATFORM_APPLICATION_ARN", ""),

		AllowSelfReply:      getEnvBool("ALLOW_SELF_REPLY", false),
		RequireOwnerProfile: getEnvBool("REQUIRE_OWNER_PROFILE", false),

		WebhookJWTSecret:    getEnv("WEBHOOK_JWT_SECRET", ""),
		WebhookRequiredRole: getEnv("WEBHOOK_REQUIRED_ROLE", ""),
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether the relay runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
