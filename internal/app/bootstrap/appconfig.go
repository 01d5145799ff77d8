// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for StyleHub.
//
// These values come from environment variables (STYLEHUB_*), config
// files, or command-line flags (loaded in LoadConfig). WAFFLE's
// CoreConfig covers ports, TLS, logging level, CORS and body limits;
// everything specific to this service lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Shopper session cookie
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name (default: uid)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Creator portal bearer tokens
	CreatorJWTSecret string
	CreatorTokenTTL  time.Duration

	// AI curation. An empty key leaves the feature unconfigured (503).
	GeminiAPIKey     string
	GeminiModel      string
	AISyncBatchSize  int
	AISyncMaxBatches int
	AISyncMinScore   float64
	AISyncPause      time.Duration

	// Email promoted to ADMIN on startup (blank disables)
	AdminEmail string

	// Audit logging destinations: all, db, log, off
	AuditLogAuth  string
	AuditLogAdmin string

	// Idle collab session sweeper
	CollabIdleAfter     time.Duration
	CollabSweepInterval time.Duration

	// Login throttling per client IP; per-account limit is half of it
	LoginRateIP     int
	LoginRateWindow time.Duration

	// Handler timeouts (zero keeps the package default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutAI     time.Duration
	TimeoutBatch  time.Duration
}
