package admincreators_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stylehub/internal/app/features/admincreators"
	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*admincreators.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))
	return admincreators.NewHandler(db, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func call(t *testing.T, fn http.HandlerFunc, method string, body any, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(testutil.JSONRequest(t, method, "/", body), testutil.AdminUser())
	if id != "" {
		req = testutil.WithChiURLParam(req, "id", id)
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestHandleCreate_GeneratesPassword(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := call(t, h.HandleCreate, "POST", map[string]any{
		"name": "Maya Rao", "email": "Maya@Example.com", "username": "maya",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		models.Creator
		GeneratedPassword string `json:"generated_password"`
	}
	testutil.DecodeJSON(t, rec, &body)
	require.NotEmpty(t, body.GeneratedPassword)
	assert.Equal(t, "maya@example.com", body.Email)
	assert.Equal(t, models.CreatorActive, body.Status)
	assert.EqualValues(t, models.DefaultCreatorCommission, body.CommissionRate)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	stored, err := creatorstore.New(fixtures.DB()).GetByID(ctx, body.ID)
	require.NoError(t, err)
	assert.True(t, creatorstore.CheckPassword(stored.PasswordHash, body.GeneratedPassword))
}

func TestHandleCreate_Conflicts(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures.CreateCreator(ctx, "maya", "maya@example.com")

	rec := call(t, h.HandleCreate, "POST", map[string]any{
		"name": "X", "email": "other@example.com", "username": "MAYA", "password": "longenough",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already exists")

	rec = call(t, h.HandleCreate, "POST", map[string]any{
		"name": "X", "email": "maya@example.com", "username": "maya2", "password": "longenough",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")

	rec = call(t, h.HandleCreate, "POST", map[string]any{"name": "X"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := fixtures.CreateCreator(ctx, "maya", "maya@example.com")
	id := c.ID.Hex()

	rec := call(t, h.HandleUpdate, "PATCH", map[string]any{"verified": true, "status": "suspended"}, id)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.Creator
	testutil.DecodeJSON(t, rec, &got)
	assert.True(t, got.Verified)
	assert.Equal(t, models.CreatorSuspended, got.Status)

	rec = call(t, h.HandleUpdate, "PATCH", map[string]any{"status": "banned"}, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.ServeCreator, "GET", nil, id)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h.HandleDelete, "DELETE", nil, id)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h.ServeCreator, "GET", nil, id)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = call(t, h.HandleDelete, "DELETE", nil, id)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
