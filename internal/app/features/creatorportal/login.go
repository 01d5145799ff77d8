// internal/app/features/creatorportal/login.go
package creatorportal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/lockout"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.uber.org/zap"
)

const portal = "creator"

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	Creator models.Creator `json:"creator"`
}

type lockedResponse struct {
	Error       string    `json:"error"`
	LockedUntil time.Time `json:"locked_until"`
}

// HandleLogin handles POST /api/creator/auth/login.
//
// Checks run in a fixed order: active lock (423), attempt throttling (429),
// unknown username (401), inactive account (403), wrong password (401,
// counted toward the lock), then success, which clears the counter and
// issues a token. A locked account always answers 423.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		apiresp.BadRequest(w, "Username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := creatorstore.New(h.DB)
	c, err := store.GetByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, creatorstore.ErrNotFound) {
		apiresp.ServerError(w, h.Log, "Login failed", err)
		return
	}

	now := time.Now().UTC()
	if err == nil && c.IsLocked(now) {
		h.AuditLog.CreatorLoginLocked(ctx, r, c.ID, c.Username)
		apiresp.JSON(w, http.StatusLocked, lockedResponse{
			Error:       "Account temporarily locked due to too many failed login attempts. Please try again later.",
			LockedUntil: *c.LockedUntil,
		})
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, portal+":"+in.Username); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, in.Username, portal)
			apiresp.Error(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	if err != nil {
		h.AuditLog.CreatorLoginFailed(ctx, r, nil, in.Username, "unknown username", 0)
		apiresp.Unauthorized(w, "Invalid credentials")
		return
	}
	if c.Status != models.CreatorActive {
		h.AuditLog.CreatorLoginFailed(ctx, r, &c.ID, c.Username, "account not active", c.LoginAttempts)
		apiresp.Forbidden(w, "Account is not active. Please contact administrator.")
		return
	}

	if !creatorstore.CheckPassword(c.PasswordHash, in.Password) {
		if err := store.RecordFailedLogin(ctx, *c, now); err != nil {
			h.Log.Error("failed to record creator login failure", zap.Error(err), zap.String("creator_id", c.ID.Hex()))
		}
		next := lockout.AfterFailure(lockout.FromCreator(*c), now)
		h.AuditLog.CreatorLoginFailed(ctx, r, &c.ID, c.Username, "wrong password", next.Attempts)
		apiresp.Unauthorized(w, "Invalid credentials")
		return
	}

	if err := store.RecordSuccessfulLogin(ctx, c.ID, now); err != nil {
		apiresp.ServerError(w, h.Log, "Login failed", err, zap.String("creator_id", c.ID.Hex()))
		return
	}
	token, err := h.Issuer.Issue(*c)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Login failed", err, zap.String("creator_id", c.ID.Hex()))
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetAccount(portal + ":" + in.Username)
	}
	h.AuditLog.CreatorLoginSuccess(ctx, r, c.ID, c.Username)

	c.LoginAttempts = 0
	c.LockedUntil = nil
	c.LastLogin = &now
	apiresp.OK(w, loginResponse{Message: "Login successful", Token: token, Creator: *c})
}
