package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/config"
)

// Identity is the authenticated admin attached to a request.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type Claims struct {
	Username string `json:"username"`

	jwt.RegisteredClaims
}

// Tokens issues and verifies admin JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for identity, valid for the configured TTL.
func (t *Tokens) Issue(identity Identity) (token string, expiresAt time.Time, err error) {
	now := t.now().UTC()
	expiresAt = now.Add(t.ttl)

	claims := Claims{
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, apperr.Internal(fmt.Errorf("sign token: %w", err))
	}
	return s, expiresAt, nil
}

// Verify parses token. An expired but otherwise valid token is TokenExpired;
// every other failure is InvalidToken.
func (t *Tokens) Verify(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperr.TokenExpired()
		}
		return Identity{}, apperr.InvalidToken()
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, apperr.InvalidToken()
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, apperr.InvalidToken()
	}
	return Identity{ID: id, Username: claims.Username}, nil
}

// ResolveSecret returns the configured signing secret. Without one, production
// refuses to start and other environments get a random per-process secret, in
// which case generated is true.
func ResolveSecret(cfg config.Auth, production bool) (secret []byte, generated bool, err error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), false, nil
	}
	if production {
		return nil, false, errors.New("JWT_SECRET must be set in production")
	}
	secret = make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, fmt.Errorf("generate jwt secret: %w", err)
	}
	return secret, true, nil
}
