// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	"github.com/dalemusser/stylehub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for shopper and creator authentication events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin mutations (tribes, creators, quests, products).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// requestContext fills IP and user agent from r, which may be nil for
// events raised outside a request.
func requestContext(e *audit.Event, r *http.Request) {
	if r == nil {
		return
	}
	e.IP = ratelimit.ClientIP(r)
	e.UserAgent = r.UserAgent()
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_type", event.TargetType), zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Shopper authentication ---

// Signup logs a new shopper account.
func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	e := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignup,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"username": username},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// LoginSuccess logs a successful shopper login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	e := audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": attemptedEmail},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a login with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		Success:       false,
		FailureReason: "wrong password",
		Details:       map[string]string{"email": email},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// LoginFailedRateLimit logs a throttled login. identifier is the email or
// creator username that was attempted.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, identifier, portal string) {
	e := audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		Success:       false,
		FailureReason: "rate limited",
		Details:       map[string]string{"identifier": identifier, "portal": portal},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// Logout logs a shopper logout.
// Accepts the string ID from SessionUser.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}
	e := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		Success:   true,
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// --- Creator authentication ---

// CreatorLoginSuccess logs a creator portal login.
func (l *Logger) CreatorLoginSuccess(ctx context.Context, r *http.Request, creatorID primitive.ObjectID, username string) {
	e := audit.Event{
		Category:   audit.CategoryAuth,
		EventType:  audit.EventCreatorLoginSuccess,
		TargetType: audit.TargetCreator,
		TargetID:   &creatorID,
		Success:    true,
		Details:    map[string]string{"username": username},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// CreatorLoginFailed logs a failed creator login. creatorID is nil when the
// username is unknown.
func (l *Logger) CreatorLoginFailed(ctx context.Context, r *http.Request, creatorID *primitive.ObjectID, username, reason string, attempts int) {
	e := audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventCreatorLoginFailed,
		TargetType:    audit.TargetCreator,
		TargetID:      creatorID,
		Success:       false,
		FailureReason: reason,
		Details: map[string]string{
			"username": username,
			"attempts": strconv.Itoa(attempts),
		},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// CreatorLoginLocked logs an attempt rejected by the account lock.
func (l *Logger) CreatorLoginLocked(ctx context.Context, r *http.Request, creatorID primitive.ObjectID, username string) {
	e := audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventCreatorLoginLocked,
		TargetType:    audit.TargetCreator,
		TargetID:      &creatorID,
		Success:       false,
		FailureReason: "account locked",
		Details:       map[string]string{"username": username},
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}

// --- Admin actions ---

// UserPromoted logs the startup promotion of the configured admin email.
func (l *Logger) UserPromoted(ctx context.Context, email string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventUserPromoted,
		TargetType: audit.TargetUser,
		IP:         "startup",
		Success:    true,
		Details:    map[string]string{"email": email},
	})
}

// AdminAction logs an admin mutation of a tribe, creator, quest or
// product. details may be nil.
func (l *Logger) AdminAction(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType, targetType string, targetID primitive.ObjectID, details map[string]string) {
	e := audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  eventType,
		ActorID:    &actorID,
		TargetType: targetType,
		TargetID:   &targetID,
		Success:    true,
		Details:    details,
	}
	requestContext(&e, r)
	l.Log(ctx, e)
}
