package quests_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/stylehub/internal/app/features/quests"
	submissionstore "github.com/dalemusser/stylehub/internal/app/store/submissions"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*quests.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))
	return quests.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func submit(t *testing.T, h *quests.Handler, user testutil.TestUser, questID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(testutil.JSONRequest(t, "POST", "/", body), user)
	req = testutil.WithChiURLParam(req, "id", questID)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)
	return rec
}

func vote(t *testing.T, h *quests.Handler, user testutil.TestUser, submissionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(httptest.NewRequest("POST", "/", nil), user)
	req = testutil.WithChiURLParam(req, "id", submissionID)
	rec := httptest.NewRecorder()
	h.HandleVote(rec, req)
	return rec
}

func TestServeList_RefreshesStatus(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q := fixtures.CreateActiveQuest(ctx, "Old Quest")
	past := time.Now().UTC().Add(-time.Minute)
	_, err := fixtures.DB().Collection("quests").UpdateOne(ctx, bson.M{"_id": q.ID},
		bson.M{"$set": bson.M{"submission_end_date": past, "voting_end_date": past}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/api/quests", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Quest
	testutil.DecodeJSON(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, models.QuestCompleted, list[0].Status)
}

func TestHandleSubmit(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q := fixtures.CreateActiveQuest(ctx, "Festive Looks")
	u := fixtures.CreateUser(ctx, "ana", "ana@example.com")
	tu := testutil.FromUser(u.ID, u.Username, u.Role)
	body := map[string]any{"imageUrl": "https://img.example.com/a.jpg", "title": "Look", "description": "Red and gold"}

	rec := submit(t, h, tu, q.ID.Hex(), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = submit(t, h, tu, q.ID.Hex(), body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = submit(t, h, tu, q.ID.Hex(), map[string]any{"title": "Look"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	upcoming := fixtures.CreateQuest(ctx, "Future", time.Hour, 2*time.Hour, 3*time.Hour)
	rec = submit(t, h, tu, upcoming.ID.Hex(), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not accepting submissions")

	rec = submit(t, h, tu, "64b000000000000000000000", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleVote(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q := fixtures.CreateActiveQuest(ctx, "Monsoon")
	author := fixtures.CreateUser(ctx, "ana", "ana@example.com")
	voter := fixtures.CreateUser(ctx, "ben", "ben@example.com")
	sub := fixtures.CreateSubmission(ctx, q.ID, author.ID, "Raincoat")

	rec := vote(t, h, testutil.FromUser(author.ID, author.Username, author.Role), sub.ID.Hex())
	assert.Equal(t, http.StatusBadRequest, rec.Code, "self vote")

	rec = vote(t, h, testutil.FromUser(voter.ID, voter.Username, voter.Role), sub.ID.Hex())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Vote cast successfully")

	rec = vote(t, h, testutil.FromUser(voter.ID, voter.Username, voter.Role), sub.ID.Hex())
	assert.Equal(t, http.StatusConflict, rec.Code)

	got, err := submissionstore.New(fixtures.DB()).GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VoteCount)

	rec = vote(t, h, testutil.FromUser(voter.ID, voter.Username, voter.Role), "64b000000000000000000000")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleVote_ClosedQuest(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q := fixtures.CreateQuest(ctx, "Done", -3*time.Hour, -2*time.Hour, -time.Hour)
	author := fixtures.CreateUser(ctx, "ana", "ana@example.com")
	sub := fixtures.CreateSubmission(ctx, q.ID, author.ID, "Look")

	rec := vote(t, h, testutil.ShopperUser(), sub.ID.Hex())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Voting is not open")
}

func TestServeSubmissions_MostVotedFirst(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q := fixtures.CreateActiveQuest(ctx, "Street")
	a := fixtures.CreateUser(ctx, "ana", "ana@example.com")
	b := fixtures.CreateUser(ctx, "ben", "ben@example.com")
	fixtures.CreateSubmission(ctx, q.ID, a.ID, "First")
	second := fixtures.CreateSubmission(ctx, q.ID, b.ID, "Second")
	require.NoError(t, submissionstore.New(fixtures.DB()).IncVotes(ctx, second.ID, 3))

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", q.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeSubmissions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.SubmissionWithUser
	testutil.DecodeJSON(t, rec, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "ben", list[0].User.Username)
}
