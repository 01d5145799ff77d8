// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Development-only secrets. Startup in prod refuses to run with them.
const (
	devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"
	devJWTSecret  = "dev-only-creator-jwt-secret-change-me"
)

// appConfigKeys defines the configuration keys for StyleHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: STYLEHUB_MONGO_URI, STYLEHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stylehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "uid", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	// Creator portal
	{Name: "creator_jwt_secret", Default: devJWTSecret, Desc: "HS256 secret for creator bearer tokens"},
	{Name: "creator_token_ttl", Default: "168h", Desc: "Creator token lifetime"},

	// AI curation
	{Name: "gemini_api_key", Default: "", Desc: "Gemini API key (blank disables AI curation)"},
	{Name: "gemini_model", Default: "gemini-2.0-flash", Desc: "Gemini model name"},
	{Name: "ai_sync_batch_size", Default: 20, Desc: "Products per AI sync batch"},
	{Name: "ai_sync_max_batches", Default: 10, Desc: "Maximum batches per AI sync"},
	{Name: "ai_sync_min_score", Default: "0.6", Desc: "Minimum relevance score to curate a product"},
	{Name: "ai_sync_pause", Default: "500ms", Desc: "Pause between AI sync batches"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of a user promoted to ADMIN on startup"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Background workers
	{Name: "collab_idle_after", Default: "24h", Desc: "End collab sessions idle for this long"},
	{Name: "collab_sweep_interval", Default: "10m", Desc: "How often the idle collab sweep runs"},

	// Login throttling
	{Name: "login_rate_ip", Default: 10, Desc: "Login attempts per client IP per window"},
	{Name: "login_rate_window", Default: "1m", Desc: "Login throttling window"},

	// Handler timeouts
	{Name: "timeout_short", Default: "", Desc: "Single-document operation timeout"},
	{Name: "timeout_medium", Default: "", Desc: "List query timeout"},
	{Name: "timeout_long", Default: "", Desc: "Multi-collection write timeout"},
	{Name: "timeout_ai", Default: "", Desc: "Single Gemini call timeout"},
	{Name: "timeout_batch", Default: "", Desc: "Full AI sync timeout"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, STYLEHUB_* for app) and
// flags, with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STYLEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	minScore, err := strconv.ParseFloat(appValues.String("ai_sync_min_score"), 64)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("ai_sync_min_score: %w", err)
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		CreatorJWTSecret: appValues.String("creator_jwt_secret"),
		CreatorTokenTTL:  appValues.Duration("creator_token_ttl", 7*24*time.Hour),

		GeminiAPIKey:     appValues.String("gemini_api_key"),
		GeminiModel:      appValues.String("gemini_model"),
		AISyncBatchSize:  appValues.Int("ai_sync_batch_size"),
		AISyncMaxBatches: appValues.Int("ai_sync_max_batches"),
		AISyncMinScore:   minScore,
		AISyncPause:      appValues.Duration("ai_sync_pause", 500*time.Millisecond),

		AdminEmail: appValues.String("admin_email"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		CollabIdleAfter:     appValues.Duration("collab_idle_after", 24*time.Hour),
		CollabSweepInterval: appValues.Duration("collab_sweep_interval", 10*time.Minute),

		LoginRateIP:     appValues.Int("login_rate_ip"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
		TimeoutAI:     appValues.Duration("timeout_ai", 0),
		TimeoutBatch:  appValues.Duration("timeout_batch", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// StyleHub validates the MongoDB URI format before attempting to connect,
// rejects worker and throttling settings that cannot drive a ticker, and
// in prod refuses the development signing secrets.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := validateIntervals(appCfg); err != nil {
		return err
	}
	return validateSecrets(coreCfg.Env, appCfg)
}

func validateIntervals(appCfg AppConfig) error {
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"collab_sweep_interval", appCfg.CollabSweepInterval},
		{"collab_idle_after", appCfg.CollabIdleAfter},
		{"login_rate_window", appCfg.LoginRateWindow},
	} {
		if d.v <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.v)
		}
	}
	if appCfg.LoginRateIP < 1 {
		return fmt.Errorf("login_rate_ip must be at least 1, got %d", appCfg.LoginRateIP)
	}
	return nil
}

func validateSecrets(env string, appCfg AppConfig) error {
	if appCfg.SessionKey == "" {
		return errors.New("session_key must be set")
	}
	if appCfg.CreatorJWTSecret == "" {
		return errors.New("creator_jwt_secret must be set")
	}
	if env != "prod" {
		return nil
	}
	if appCfg.SessionKey == devSessionKey {
		return errors.New("session_key is the development default; set STYLEHUB_SESSION_KEY")
	}
	if appCfg.CreatorJWTSecret == devJWTSecret {
		return errors.New("creator_jwt_secret is the development default; set STYLEHUB_CREATOR_JWT_SECRET")
	}
	return nil
}
