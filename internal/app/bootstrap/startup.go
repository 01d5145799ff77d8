// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	collabstore "github.com/dalemusser/stylehub/internal/app/store/collab"
	userstore "github.com/dalemusser/stylehub/internal/app/store/users"
	"github.com/dalemusser/stylehub/internal/app/system/auditlog"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/creatorauth"
	"github.com/dalemusser/stylehub/internal/app/system/curation"
	"github.com/dalemusser/stylehub/internal/app/system/ratelimit"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Services are the long-lived collaborators built once at startup and
// shared by the handlers.
type Services struct {
	AuditLog       *auditlog.Logger
	Sessions       *auth.SessionManager
	Issuer         *creatorauth.Issuer
	Classifier     *curation.Classifier
	Sync           curation.SyncConfig
	LoginLimiter   *ratelimit.LoginLimiter
	CreatorLimiter *ratelimit.LoginLimiter
	CollabSweep    *workers.CollabSweep
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
		AI:     appCfg.TimeoutAI,
		Batch:  appCfg.TimeoutBatch,
	})

	svc := deps.Services
	if svc == nil {
		return errors.New("bootstrap: services not allocated")
	}

	svc.AuditLog = auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	if err := ensureAdmin(ctx, deps.MongoDatabase, appCfg.AdminEmail, svc.AuditLog, logger); err != nil {
		return err
	}

	sm, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, coreCfg.Env == "prod", logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return err
	}
	// Fresh user data on every request, so role changes apply immediately.
	sm.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))
	svc.Sessions = sm

	issuer, err := creatorauth.NewIssuer(appCfg.CreatorJWTSecret, appCfg.CreatorTokenTTL)
	if err != nil {
		return err
	}
	svc.Issuer = issuer

	svc.Classifier, err = newClassifier(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	svc.Sync = curation.SyncConfig{
		BatchSize:  appCfg.AISyncBatchSize,
		MaxBatches: appCfg.AISyncMaxBatches,
		MinScore:   appCfg.AISyncMinScore,
		Pause:      appCfg.AISyncPause,
	}

	svc.LoginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginRateIP, appCfg.LoginRateWindow)
	svc.CreatorLimiter = ratelimit.NewLoginLimiter(appCfg.LoginRateIP, appCfg.LoginRateWindow)

	svc.CollabSweep = workers.NewCollabSweep(collabstore.New(deps.MongoDatabase), logger,
		appCfg.CollabSweepInterval, appCfg.CollabIdleAfter)
	svc.CollabSweep.Start()

	return nil
}

// newClassifier returns an unconfigured classifier when no API key is set;
// the AI endpoints then answer 503.
func newClassifier(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (*curation.Classifier, error) {
	g, err := curation.NewGemini(ctx, appCfg.GeminiAPIKey, appCfg.GeminiModel)
	if errors.Is(err, curation.ErrNotConfigured) {
		logger.Warn("gemini_api_key not set; AI curation disabled")
		return curation.NewClassifier(nil, logger), nil
	}
	if err != nil {
		logger.Error("gemini client init failed", zap.Error(err))
		return nil, err
	}
	logger.Info("AI curation enabled", zap.String("model", appCfg.GeminiModel))
	return curation.NewClassifier(g, logger), nil
}

// ensureAdmin promotes the configured admin email to ADMIN. A missing user
// is logged and skipped; the promotion is retried on every start.
func ensureAdmin(ctx context.Context, db *mongo.Database, email string, auditLog *auditlog.Logger, logger *zap.Logger) error {
	if email == "" {
		return nil
	}
	ok, err := userstore.New(db).PromoteToAdmin(ctx, email)
	if err != nil {
		logger.Error("admin promotion failed", zap.String("email", email), zap.Error(err))
		return err
	}
	if !ok {
		logger.Warn("admin_email has no matching user yet", zap.String("email", email))
		return nil
	}
	auditLog.UserPromoted(ctx, email)
	logger.Info("promoted admin user", zap.String("email", email))
	return nil
}
