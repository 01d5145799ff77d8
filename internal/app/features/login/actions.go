// internal/app/features/login/actions.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/stylehub/internal/app/store/users"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.uber.org/zap"
)

// request carries the union of every action's fields.
type request struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Age      *int   `json:"age"`
	Gender   string `json:"gender"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type signupInput struct {
	Username string `validate:"required,max=40" label:"Username"`
	Email    string `validate:"required,email" label:"Email"`
	Password string `validate:"required,min=6,max=72" label:"Password"`
	Name     string `validate:"max=100" label:"Name"`
	Age      *int   `validate:"omitempty,gte=1,lte=120" label:"Age"`
	Gender   string `validate:"omitempty,usergender" label:"Gender"`
	Phone    string `validate:"max=20" label:"Phone"`
}

type loginInput struct {
	Email    string `validate:"required" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

type userResponse struct {
	OK   bool         `json:"ok"`
	User *models.User `json:"user"`
}

// HandleAction handles POST /api/auth.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := apiresp.Decode(r, &req); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}

	switch req.Action {
	case "signup":
		h.signup(w, r, req)
	case "login":
		h.login(w, r, req)
	case "logout":
		h.logout(w, r)
	case "me":
		h.me(w, r)
	default:
		apiresp.BadRequest(w, "Unknown action")
	}
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, req request) {
	in := signupInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Name:     htmlsanitize.PlainText(req.Name),
		Age:      req.Age,
		Gender:   req.Gender,
		Phone:    strings.TrimSpace(req.Phone),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	exists, err := users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create account", err)
		return
	}
	if exists {
		apiresp.Conflict(w, "user exists")
		return
	}

	hash, err := userstore.HashPassword(in.Password)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create account", err)
		return
	}

	u, err := users.Create(ctx, models.User{
		Username:     in.Username,
		Name:         in.Name,
		Age:          in.Age,
		Gender:       in.Gender,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
	})
	if errors.Is(err, userstore.ErrDuplicate) {
		apiresp.Conflict(w, "user exists")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create account", err, zap.String("username", in.Username))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		apiresp.ServerError(w, h.Log, "Failed to start session", err)
		return
	}
	h.AuditLog.Signup(ctx, r, u.ID, u.Username)

	apiresp.Created(w, userResponse{OK: true, User: &u})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, req request) {
	in := loginInput{Email: strings.TrimSpace(req.Email), Password: req.Password}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, "email and password required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, in.Email); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, in.Email, "shopper")
			apiresp.Error(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	u, err := userstore.New(h.DB).GetByEmail(ctx, in.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Email)
		apiresp.Unauthorized(w, "invalid credentials")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Login failed", err)
		return
	}
	if !userstore.CheckPassword(u.PasswordHash, in.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Email)
		apiresp.Unauthorized(w, "invalid credentials")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		apiresp.ServerError(w, h.Log, "Failed to start session", err)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetAccount(in.Email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Email)

	apiresp.OK(w, userResponse{OK: true, User: u})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: save session", zap.Error(err))
	}
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	apiresp.OK(w, map[string]bool{"ok": true})
}

// me returns the signed-in user, or {"user": null} for anonymous requests
// and cookies that point at a user that no longer exists.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		apiresp.OK(w, map[string]any{"user": nil})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, su.ObjectID())
	if errors.Is(err, userstore.ErrNotFound) {
		apiresp.OK(w, map[string]any{"user": nil})
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load user", err)
		return
	}
	apiresp.OK(w, map[string]any{"user": u})
}
