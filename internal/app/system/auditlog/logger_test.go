package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	"github.com/dalemusser/stylehub/internal/app/system/auditlog"
	"github.com/dalemusser/stylehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "a@example.com")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
	logger.UserPromoted(ctx, "admin@example.com")
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "off"})

	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Success:   true,
	})

	events, err := store.Query(ctx, audit.QueryFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_Log_ConfigLogOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "log"})
	logger.Signup(ctx, httptest.NewRequest("POST", "/api/auth", nil), primitive.NewObjectID(), "asha")

	events, _ := store.Query(ctx, audit.QueryFilter{Limit: 10})
	if len(events) != 0 {
		t.Errorf("expected nothing in DB for 'log', got %d", len(events))
	}
}

func TestLogger_Signup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})

	req := httptest.NewRequest("POST", "/api/auth", nil)
	req.Header.Set("User-Agent", "TestBrowser/1.0")
	logger.Signup(ctx, req, userID, "asha")

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID, Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.EventType != audit.EventSignup || ev.Details["username"] != "asha" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent: got %q", ev.UserAgent)
	}
}

func TestLogger_LoginFailedUserNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})
	logger.LoginFailedUserNotFound(ctx, httptest.NewRequest("POST", "/api/auth", nil), "ghost@example.com")

	events, _ := store.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailedUserNotFound})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Success {
		t.Error("expected Success=false")
	}
	if events[0].Details["attempted_email"] != "ghost@example.com" {
		t.Errorf("attempted_email: got %q", events[0].Details["attempted_email"])
	}
}

func TestLogger_Logout_InvalidID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})
	logger.Logout(ctx, httptest.NewRequest("POST", "/api/auth", nil), "not-an-id")

	events, _ := store.Query(ctx, audit.QueryFilter{Limit: 10})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].UserID != nil {
		t.Error("expected nil UserID for invalid id")
	}
}

func TestLogger_CreatorLoginFailed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creatorID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})
	logger.CreatorLoginFailed(ctx, httptest.NewRequest("POST", "/api/creator/auth/login", nil), &creatorID, "meera", "wrong password", 3)

	events, _ := store.Query(ctx, audit.QueryFilter{TargetID: &creatorID})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["attempts"] != "3" || events[0].TargetType != audit.TargetCreator {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestLogger_AdminCategoryFilteredByConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	tribe := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "db"})
	req := httptest.NewRequest("POST", "/api/admin/tribes", nil)

	logger.LoginSuccess(ctx, req, actor, "admin@example.com")
	logger.AdminAction(ctx, req, actor, audit.EventTribeCreated, audit.TargetTribe, tribe, map[string]string{"name": "Streetwear Fans"})

	events, _ := store.Query(ctx, audit.QueryFilter{Limit: 10})
	if len(events) != 1 {
		t.Fatalf("expected only the admin event, got %d", len(events))
	}
	if events[0].EventType != audit.EventTribeCreated || *events[0].ActorID != actor {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestLogger_ClientIP(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded wins", "203.0.113.195", "192.168.1.1", "127.0.0.1:12345", "203.0.113.195"},
		{"real ip", "", "192.168.1.100", "127.0.0.1:12345", "192.168.1.100"},
		{"remote addr port stripped", "", "", "10.0.0.5:12345", "10.0.0.5"},
	}
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := primitive.NewObjectID()
			req := httptest.NewRequest("GET", "/", nil)
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			req.RemoteAddr = tt.remote

			logger.LoginSuccess(ctx, req, userID, "a@example.com")

			events, _ := store.Query(ctx, audit.QueryFilter{UserID: &userID, Limit: 10})
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].IP != tt.want {
				t.Errorf("IP: got %q, want %q", events[0].IP, tt.want)
			}
		})
	}
}
