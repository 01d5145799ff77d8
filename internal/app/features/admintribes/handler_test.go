package admintribes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stylehub/internal/app/features/admintribes"
	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*admintribes.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return admintribes.NewHandler(db, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func call(t *testing.T, fn http.HandlerFunc, method string, body any, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(testutil.JSONRequest(t, method, "/api/admin/tribes", body), testutil.AdminUser())
	for i := 0; i+1 < len(params); i += 2 {
		req = testutil.WithChiURLParam(req, params[i], params[i+1])
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestTribeCRUD(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, fixtures.DB()))

	rec := call(t, h.HandleCreate, "POST", map[string]any{
		"action": "create", "name": "Boho Chic", "tags": []string{"boho", "floral"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Tribe
	testutil.DecodeJSON(t, rec, &created)
	assert.Equal(t, "boho-chic", created.Slug)
	assert.Nil(t, created.Owner)

	rec = call(t, h.HandleCreate, "POST", map[string]any{"action": "create", "name": "Boho Chic"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h.HandleCreate, "POST", map[string]any{"action": "archive", "name": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h.HandleUpdate, "PUT", map[string]any{"id": created.ID.Hex(), "name": "Boho Revival"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.TribeView
	testutil.DecodeJSON(t, rec, &updated)
	assert.Equal(t, "boho-revival", updated.Slug)

	rec = call(t, h.ServeList, "GET", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.TribeView
	testutil.DecodeJSON(t, rec, &list)
	assert.Len(t, list, 1)

	rec = call(t, h.HandleDelete, "DELETE", map[string]any{"id": created.ID.Hex()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tribe deleted successfully")

	rec = call(t, h.HandleDelete, "DELETE", map[string]any{"id": created.ID.Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h.HandleUpdate, "PUT", map[string]any{"id": created.ID.Hex(), "name": "Gone"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCuration(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTribe(ctx, "Athleisure")
	p := fixtures.CreateProduct(ctx, "Jogger", "Nike", 2499)
	tid := tr.ID.Hex()

	rec := call(t, h.HandleCurate, "POST", map[string]any{"productId": p.ID.Hex(), "reason": "Comfy"}, "tribeId", tid)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view models.CuratedProductView
	testutil.DecodeJSON(t, rec, &view)
	assert.Equal(t, "Comfy", view.Reason)
	require.NotNil(t, view.Product)
	assert.Equal(t, "Jogger", view.Product.Title)

	rec = call(t, h.HandleCurate, "POST", map[string]any{"productId": p.ID.Hex()}, "tribeId", tid)
	assert.Equal(t, http.StatusConflict, rec.Code)

	got, err := tribestore.New(fixtures.DB()).GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Products, p.ID)

	rec = call(t, h.ServeCurated, "GET", nil, "tribeId", tid)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.CuratedProductView
	testutil.DecodeJSON(t, rec, &rows)
	assert.Len(t, rows, 1)

	rec = call(t, h.HandleUncurate, "DELETE", map[string]any{"productId": p.ID.Hex()}, "tribeId", tid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product removed from curation")

	rec = call(t, h.ServeCurated, "GET", nil, "tribeId", tid)
	testutil.DecodeJSON(t, rec, &rows)
	assert.Empty(t, rows)

	// A removed product can be curated again.
	rec = call(t, h.HandleCurate, "POST", map[string]any{"productId": p.ID.Hex()}, "tribeId", tid)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCuration_NotFound(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr := fixtures.CreateTribe(ctx, "Preppy")
	missing := "64b000000000000000000000"

	rec := call(t, h.HandleCurate, "POST", map[string]any{"productId": missing}, "tribeId", tr.ID.Hex())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")

	p := fixtures.CreateProduct(ctx, "Polo", "Ralph", 3999)
	rec = call(t, h.HandleCurate, "POST", map[string]any{"productId": p.ID.Hex()}, "tribeId", missing)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tribe not found")
}
