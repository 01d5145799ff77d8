package collab_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stylehub/internal/app/features/collab"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*collab.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))
	return collab.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func post(t *testing.T, h *collab.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleAction(rec, testutil.JSONRequest(t, "POST", "/api/collab", body))
	return rec
}

func session(t *testing.T, rec *httptest.ResponseRecorder) models.CollabSessionView {
	t.Helper()
	var s models.CollabSessionView
	testutil.DecodeJSON(t, rec, &s)
	return s
}

func createSession(t *testing.T, h *collab.Handler) models.CollabSessionView {
	t.Helper()
	rec := post(t, h, map[string]any{"action": "create", "hostName": "Asha"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return session(t, rec)
}

func TestCreate_Defaults(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := post(t, h, map[string]any{"action": "create"})
	require.Equal(t, http.StatusCreated, rec.Code)

	s := session(t, rec)
	assert.Len(t, s.Code, 6)
	assert.Equal(t, collab.DefaultSessionName, s.Name)
	assert.Equal(t, collab.DefaultHostName, s.HostID)
	require.Len(t, s.Participants, 1)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, models.MessageSystem, s.Messages[0].Type)
	assert.True(t, s.IsActive)
}

func TestJoin(t *testing.T) {
	h, _ := newTestHandler(t)
	s := createSession(t, h)

	rec := post(t, h, map[string]any{"action": "join", "code": s.Code, "userName": "Ravi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := session(t, rec)
	assert.Len(t, got.Participants, 2)
	assert.Equal(t, "Ravi joined the shopping party! 👋", got.Messages[len(got.Messages)-1].Message)

	// Joining again with the same name is a no-op.
	rec = post(t, h, map[string]any{"action": "join", "code": s.Code, "userName": "Ravi"})
	got = session(t, rec)
	assert.Len(t, got.Participants, 2)
	assert.Len(t, got.Messages, 2)

	rec = post(t, h, map[string]any{"action": "join", "code": "ZZZZZZ", "userName": "Ravi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Session not found")
}

func TestItems_AddVoteRemove(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProduct(ctx, "Linen Shirt", "Roadster", 1299)
	s := createSession(t, h)

	rec := post(t, h, map[string]any{"action": "addItem", "code": s.Code, "userName": "Asha", "productId": p.ID.Hex(), "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := session(t, rec)
	require.Len(t, got.Items, 1)
	item := got.Items[0]
	require.NotNil(t, item.Product)
	assert.Equal(t, "Linen Shirt", item.Product.Title)
	assert.Equal(t, "Asha", item.AddedBy)

	// Vote up then down by the same name: the second replaces the first.
	post(t, h, map[string]any{"action": "vote", "code": s.Code, "userName": "Ravi", "itemId": item.ID.Hex(), "value": 1})
	rec = post(t, h, map[string]any{"action": "vote", "code": s.Code, "userName": "Ravi", "itemId": item.ID.Hex(), "value": -1})
	require.Equal(t, http.StatusOK, rec.Code)
	got = session(t, rec)
	require.Len(t, got.Items[0].Votes, 1)
	assert.Equal(t, -1, got.Items[0].Score)

	rec = post(t, h, map[string]any{"action": "vote", "code": s.Code, "userName": "Asha", "itemId": item.ID.Hex(), "value": 7})
	got = session(t, rec)
	assert.Equal(t, 0, got.Items[0].Score)

	rec = post(t, h, map[string]any{"action": "removeItem", "code": s.Code, "userName": "Ravi", "itemId": item.ID.Hex()})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized to remove this item")

	rec = post(t, h, map[string]any{"action": "removeItem", "code": s.Code, "userName": "Asha", "itemId": item.ID.Hex()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, session(t, rec).Items)

	rec = post(t, h, map[string]any{"action": "removeItem", "code": s.Code, "userName": "Asha", "itemId": item.ID.Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_Snapshot(t *testing.T) {
	h, _ := newTestHandler(t)
	s := createSession(t, h)

	rec := post(t, h, map[string]any{
		"action":      "addItem",
		"code":        s.Code,
		"userName":    "Asha",
		"productData": map[string]any{"title": "Tote", "brand": "Baggit", "price": 899},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := session(t, rec)
	require.Len(t, got.Items, 1)
	assert.Nil(t, got.Items[0].Product)
	require.NotNil(t, got.Items[0].ProductData)
	assert.Equal(t, "Tote", got.Items[0].ProductData.Title)

	rec = post(t, h, map[string]any{"action": "addItem", "code": s.Code, "userName": "Asha", "productId": "000000000000000000000000"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestSendMessage_AndEnd(t *testing.T) {
	h, _ := newTestHandler(t)
	s := createSession(t, h)

	rec := post(t, h, map[string]any{"action": "sendMessage", "code": s.Code, "userName": "Asha", "message": "<b>this one?</b>"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := session(t, rec)
	last := got.Messages[len(got.Messages)-1]
	assert.Equal(t, "this one?", last.Message)
	assert.Equal(t, models.MessageUser, last.Type)
	assert.NotEmpty(t, last.ID)

	rec = post(t, h, map[string]any{"action": "end", "code": s.Code})
	require.Equal(t, http.StatusOK, rec.Code)
	got = session(t, rec)
	assert.False(t, got.IsActive)
	assert.Equal(t, models.CollabEnded, got.Status)

	rec = post(t, h, map[string]any{"action": "sendMessage", "code": s.Code, "userName": "Asha", "message": "hello?"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(t, h, map[string]any{"action": "getSession", "code": s.Code})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownActionAndGet(t *testing.T) {
	h, _ := newTestHandler(t)
	s := createSession(t, h)

	rec := post(t, h, map[string]any{"action": "dance"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown action")

	rec = httptest.NewRecorder()
	h.ServeSession(rec, httptest.NewRequest("GET", "/api/collab", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "code is required")

	rec = httptest.NewRecorder()
	h.ServeSession(rec, httptest.NewRequest("GET", "/api/collab?code="+s.Code, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, s.ID, session(t, rec).ID)
}
