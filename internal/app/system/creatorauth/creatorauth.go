// Package creatorauth issues and verifies the bearer tokens used by the
// creator portal. Creators are a separate credential entity from users and
// never carry the session cookie.
package creatorauth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenType is the "type" claim carried by every creator token.
const TokenType = "creator"

var (
	// ErrInvalidToken covers malformed, expired, mis-signed and wrong-type tokens.
	ErrInvalidToken = errors.New("invalid creator token")
	ErrNoSecret     = errors.New("creator jwt secret is empty")
)

// Claims is the token payload.
type Claims struct {
	CreatorID string `json:"creatorId"`
	Username  string `json:"username"`
	Type      string `json:"type"`
	jwt.RegisteredClaims
}

// ObjectID parses CreatorID.
func (c *Claims) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.CreatorID)
}

// Issuer signs and verifies HS256 creator tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for c that expires after the issuer's TTL.
func (i *Issuer) Issue(c models.Creator) (string, error) {
	now := i.now()
	claims := Claims{
		CreatorID: c.ID.Hex(),
		Username:  c.Username,
		Type:      TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies tok and returns its claims.
func (i *Issuer) Parse(tok string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tok, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenType {
		return nil, ErrInvalidToken
	}
	if _, err := claims.ObjectID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type ctxKey struct{}

// FromContext returns the claims set by Require.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok && c != nil
}

// WithClaims returns r carrying c, for tests.
func WithClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, c))
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// Require rejects requests without a valid creator token with 401.
func (i *Issuer) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := BearerToken(r)
		if tok == "" {
			apiresp.Unauthorized(w, "Unauthorized")
			return
		}
		claims, err := i.Parse(tok)
		if err != nil {
			apiresp.Unauthorized(w, "Unauthorized")
			return
		}
		next.ServeHTTP(w, WithClaims(r, claims))
	})
}

// GeneratePassword returns a random password for admin-created creators.
func GeneratePassword() string {
	return base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(12))
}
