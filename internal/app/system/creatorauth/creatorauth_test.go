package creatorauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testCreator() models.Creator {
	return models.Creator{ID: primitive.NewObjectID(), Username: "meera"}
}

func TestIssueParse_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("secret", 7*24*time.Hour)
	require.NoError(t, err)

	c := testCreator()
	tok, err := iss.Issue(c)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, c.ID.Hex(), claims.CreatorID)
	assert.Equal(t, "meera", claims.Username)
	assert.Equal(t, TokenType, claims.Type)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_Rejects(t *testing.T) {
	iss, _ := NewIssuer("secret", time.Hour)
	c := testCreator()

	t.Run("expired", func(t *testing.T) {
		old, _ := NewIssuer("secret", time.Hour)
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, _ := old.Issue(c)
		_, err := iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewIssuer("other", time.Hour)
		tok, _ := other.Issue(c)
		_, err := iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong type", func(t *testing.T) {
		claims := Claims{
			CreatorID: c.ID.Hex(),
			Type:      "user",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		_, err := iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestRequire(t *testing.T) {
	iss, _ := NewIssuer("secret", time.Hour)
	c := testCreator()
	tok, _ := iss.Issue(c)

	var seen *Claims
	h := iss.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/creator/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, c.ID.Hex(), seen.CreatorID)
}

func TestGeneratePassword(t *testing.T) {
	a, b := GeneratePassword(), GeneratePassword()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
