package login_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stylehub/internal/app/features/login"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/ratelimit"
	"github.com/dalemusser/stylehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cookieName = "test-session"

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only-32b", cookieName, "", time.Hour, false, logger)
	require.NoError(t, err)

	return login.NewHandler(db, sessionMgr, nil, limiter, logger), testutil.NewFixtures(t, db)
}

func post(h *login.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.HandleAction(rec, req)
	return rec
}

func hasCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge >= 0 {
			return true
		}
	}
	return false
}

func TestSignup_IssuesCookieAndHidesHash(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{
		"action":   "signup",
		"username": "riya",
		"email":    "Riya@Example.com",
		"password": "secret123",
		"name":     "Riya S",
	}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, hasCookie(rec), "expected session cookie")
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	var body struct {
		OK   bool `json:"ok"`
		User struct {
			Username    string `json:"username"`
			Email       string `json:"email"`
			DisplayName string `json:"displayName"`
			Gender      string `json:"gender"`
			Role        string `json:"role"`
		} `json:"user"`
	}
	testutil.DecodeJSON(t, rec, &body)
	assert.True(t, body.OK)
	assert.Equal(t, "riya@example.com", body.User.Email)
	assert.Equal(t, "Riya S", body.User.DisplayName)
	assert.Equal(t, "OTHER", body.User.Gender)
	assert.Equal(t, "USER", body.User.Role)
}

func TestSignup_Duplicate(t *testing.T) {
	h, fixtures := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures.CreateUser(ctx, "taken", "taken@example.com")

	rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{
		"action": "signup", "username": "TAKEN", "email": "new@example.com", "password": "secret123",
	}))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignup_MissingFields(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{
		"action": "signup", "username": "nobody",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	h, fixtures := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures.CreateUser(ctx, "ana", "ana@example.com")

	t.Run("wrong password", func(t *testing.T) {
		rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{
			"action": "login", "email": "ana@example.com", "password": "nope",
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid credentials")
		assert.False(t, hasCookie(rec))
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{
			"action": "login", "email": "ghost@example.com", "password": testutil.DefaultPassword,
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{
			"action": "login", "email": "ANA@example.com", "password": testutil.DefaultPassword,
		}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, hasCookie(rec))
	})
}

func TestLogin_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	h, _ := newTestHandler(t, limiter)

	var last int
	for i := 0; i < 3; i++ {
		rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{
			"action": "login", "email": "x@example.com", "password": "bad",
		}))
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestMe(t *testing.T) {
	h, fixtures := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	t.Run("anonymous", func(t *testing.T) {
		rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{"action": "me"}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user":null}`, rec.Body.String())
	})

	t.Run("signed in", func(t *testing.T) {
		u := fixtures.CreateUser(ctx, "meena", "meena@example.com")
		req := testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{"action": "me"})
		req = testutil.WithUser(req, testutil.FromUser(u.ID, u.Username, u.Role))

		rec := post(h, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"meena"`)
	})
}

func TestLogout(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := testutil.WithUser(testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{"action": "logout"}), testutil.ShopperUser())
	rec := post(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired, "expected the session cookie to be expired")
}

func TestUnknownAction(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rec := post(h, testutil.JSONRequest(t, "POST", "/api/auth", map[string]any{"action": "dance"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
