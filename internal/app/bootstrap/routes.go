// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminauditfeature "github.com/dalemusser/stylehub/internal/app/features/adminaudit"
	admincreatorsfeature "github.com/dalemusser/stylehub/internal/app/features/admincreators"
	admintribesfeature "github.com/dalemusser/stylehub/internal/app/features/admintribes"
	aicurationfeature "github.com/dalemusser/stylehub/internal/app/features/aicuration"
	collabfeature "github.com/dalemusser/stylehub/internal/app/features/collab"
	creatorportalfeature "github.com/dalemusser/stylehub/internal/app/features/creatorportal"
	dropsfeature "github.com/dalemusser/stylehub/internal/app/features/drops"
	healthfeature "github.com/dalemusser/stylehub/internal/app/features/health"
	loginfeature "github.com/dalemusser/stylehub/internal/app/features/login"
	pollsfeature "github.com/dalemusser/stylehub/internal/app/features/polls"
	productsfeature "github.com/dalemusser/stylehub/internal/app/features/products"
	profilefeature "github.com/dalemusser/stylehub/internal/app/features/profile"
	questadminfeature "github.com/dalemusser/stylehub/internal/app/features/questadmin"
	questsfeature "github.com/dalemusser/stylehub/internal/app/features/quests"
	tribefeedfeature "github.com/dalemusser/stylehub/internal/app/features/tribefeed"
	tribesfeature "github.com/dalemusser/stylehub/internal/app/features/tribes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for StyleHub.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed, so every shared service in deps.Services is
// ready. All JSON endpoints live under /api; /health is for load
// balancers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	db := deps.MongoDatabase
	sm := svc.Sessions

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sm.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	loginHandler := loginfeature.NewHandler(db, sm, svc.AuditLog, svc.LoginLimiter, logger)
	profileHandler := profilefeature.NewHandler(db, logger)
	productsHandler := productsfeature.NewHandler(db, svc.AuditLog, logger)
	tribesHandler := tribesfeature.NewHandler(db, svc.AuditLog, logger)
	feedHandler := tribefeedfeature.NewHandler(db, logger)
	dropsHandler := dropsfeature.NewHandler(db, logger)
	portalHandler := creatorportalfeature.NewHandler(db, svc.Issuer, svc.AuditLog, svc.CreatorLimiter, logger)
	questsHandler := questsfeature.NewHandler(db, logger)
	collabHandler := collabfeature.NewHandler(db, logger)
	pollsHandler := pollsfeature.NewHandler(db, logger)
	aiHandler := aicurationfeature.NewHandler(db, svc.Classifier, svc.Sync, svc.AuditLog, logger)
	adminTribesHandler := admintribesfeature.NewHandler(db, svc.AuditLog, logger)
	adminCreatorsHandler := admincreatorsfeature.NewHandler(db, svc.AuditLog, logger)
	questAdminHandler := questadminfeature.NewHandler(db, svc.AuditLog, logger)
	adminAuditHandler := adminauditfeature.NewHandler(db, logger)

	r.Route("/api", func(r chi.Router) {
		// Shopper accounts
		r.Mount("/auth", loginfeature.Routes(loginHandler))
		r.Mount("/user", profilefeature.Routes(profileHandler, sm))
		r.Mount("/users", profilefeature.BadgeRoutes(profileHandler))

		// Catalog and tribes
		r.Mount("/products", productsfeature.Routes(productsHandler, sm))
		r.Route("/tribes", func(r chi.Router) {
			tribefeedfeature.MountRoutes(r, feedHandler, sm)
			tribesfeature.MountRoutes(r, tribesHandler, sm)
		})
		r.With(sm.RequireSignedIn).Mount("/my-tribes", tribesfeature.MyRoutes(tribesHandler))

		// Creators and drops
		r.Mount("/drops", dropsfeature.Routes(dropsHandler))
		r.Mount("/creators", dropsfeature.CreatorRoutes(dropsHandler))
		r.Mount("/creator", creatorportalfeature.Routes(portalHandler))

		// Quests
		r.Mount("/quests", questsfeature.Routes(questsHandler, sm))
		r.Mount("/submissions", questsfeature.SubmissionRoutes(questsHandler, sm))

		// Shared carts and polls
		r.Mount("/collab", collabfeature.Routes(collabHandler))
		r.Mount("/polls", pollsfeature.Routes(pollsHandler))

		// AI classification
		r.Mount("/ai", aicurationfeature.Routes(aiHandler, sm))

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(sm.RequireRole(models.RoleAdmin))
			r.Route("/tribes", func(r chi.Router) {
				admintribesfeature.MountRoutes(r, adminTribesHandler)
				aicurationfeature.MountSyncRoutes(r, aiHandler)
			})
			r.Route("/creators", func(r chi.Router) {
				admincreatorsfeature.MountRoutes(r, adminCreatorsHandler)
			})
			questadminfeature.MountRoutes(r, questAdminHandler)
			r.Route("/audit", func(r chi.Router) {
				adminauditfeature.MountRoutes(r, adminAuditHandler)
			})
		})
	})

	return r, nil
}
