package tribes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stylehub/internal/app/features/tribes"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tribes.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return tribes.NewHandler(db, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func action(t *testing.T, h *tribes.Handler, user testutil.TestUser, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(testutil.JSONRequest(t, "POST", "/api/tribes", body), user)
	rec := httptest.NewRecorder()
	h.HandleAction(rec, req)
	return rec
}

func TestHandleAction_CreateIsAdminOnly(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, fixtures.DB()))

	rec := action(t, h, testutil.ShopperUser(), map[string]any{"action": "create", "name": "Streetwear Fans"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = action(t, h, testutil.AdminUser(), map[string]any{"action": "create", "name": "Streetwear Fans"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view models.TribeView
	testutil.DecodeJSON(t, rec, &view)
	assert.Equal(t, "streetwear-fans", view.Slug)

	rec = action(t, h, testutil.AdminUser(), map[string]any{"action": "create", "name": "streetwear fans!"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleAction_JoinLeave(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTribe(ctx, "Minimalists")
	u := fixtures.CreateUser(ctx, "dev", "dev@example.com")
	tu := testutil.FromUser(u.ID, u.Username, u.Role)

	for i := 0; i < 2; i++ {
		rec := action(t, h, tu, map[string]any{"action": "join", "tribeId": tr.ID.Hex()})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var view models.TribeView
		testutil.DecodeJSON(t, rec, &view)
		assert.Equal(t, 1, view.MemberCount, "joining twice must not double count")
	}

	rec := action(t, h, tu, map[string]any{"action": "leave", "tribeId": tr.ID.Hex()})
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.TribeView
	testutil.DecodeJSON(t, rec, &view)
	assert.Equal(t, 0, view.MemberCount)
	assert.Empty(t, view.Members)
}

func TestHandleAction_Errors(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := action(t, h, testutil.ShopperUser(), map[string]any{"action": "join", "tribeId": "64b000000000000000000000"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = action(t, h, testutil.ShopperUser(), map[string]any{"action": "join"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = action(t, h, testutil.ShopperUser(), map[string]any{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAction_AddProductsNeedsOwnerOrAdmin(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTribe(ctx, "Athleisure")
	p := fixtures.CreateProduct(ctx, "Joggers", "HRX", 999)
	body := map[string]any{"action": "addProducts", "tribeId": tr.ID.Hex(), "productIds": []string{p.ID.Hex()}}

	rec := action(t, h, testutil.ShopperUser(), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = action(t, h, testutil.AdminUser(), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view models.TribeView
	testutil.DecodeJSON(t, rec, &view)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Joggers", view.Products[0].Title)
}

func TestServeTribe_IsMember(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTribe(ctx, "Vintage Vibes")
	u := fixtures.CreateUser(ctx, "neha", "neha@example.com")
	fixtures.JoinTribe(ctx, tr.ID, u.ID)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "slug", "vintage-vibes")
	req = testutil.WithUser(req, testutil.FromUser(u.ID, u.Username, u.Role))
	rec := httptest.NewRecorder()
	h.ServeTribe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Tribe    models.TribeView `json:"tribe"`
		IsMember bool             `json:"isMember"`
	}
	testutil.DecodeJSON(t, rec, &body)
	assert.True(t, body.IsMember)
	assert.Equal(t, "Vintage Vibes", body.Tribe.Name)

	rec = httptest.NewRecorder()
	h.ServeTribe(rec, testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "slug", "nope"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeList_And_Mine(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTribe(ctx, "Boho")
	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/api/tribes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.TribeView
	testutil.DecodeJSON(t, rec, &list)
	assert.Len(t, list, 1)

	rec = httptest.NewRecorder()
	h.ServeMine(rec, httptest.NewRequest("GET", "/api/my-tribes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
