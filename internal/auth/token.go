package auth

import (
	"crypto/rand"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/crisis-service/internal/domain"
)

// ErrInvalidToken is the single failure kind for verification: signature
// mismatch, malformed structure and expiry are indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the resolved identity attached to an authenticated request.
// It lives for the duration of one request and is never persisted.
type Principal struct {
	ID    int64
	Email string
	Role  domain.Role
}

// TokenManager issues and verifies signed session tokens. The signing key is
// fixed for the lifetime of the process; there is no refresh or rotation path.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager from the configured secret. An empty secret
// yields a random per-process key, so a restart invalidates outstanding tokens.
func NewTokenManager(secret string, ttlHours int) *TokenManager {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 64)
		if _, err := rand.Read(key); err != nil {
			panic("auth: unable to generate signing key: " + err.Error())
		}
	}
	return &TokenManager{secret: key, ttl: time.Duration(ttlHours) * time.Hour}
}

// Claims describes the JWT payload. The MAC covers the full claim set, so the
// role cannot be tampered with independently of the subject.
type Claims struct {
	UserID int64       `json:"userId"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session token for the user.
func (tm *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature integrity and expiry, returning the principal the
// claims describe. Any failure maps to ErrInvalidToken, never a partially
// trusted principal.
func (tm *TokenManager) Verify(tokenStr string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, roleErr := domain.ParseRole(string(claims.Role)); roleErr != nil {
		return nil, ErrInvalidToken
	}
	return &Principal{
		ID:    claims.UserID,
		Email: claims.Subject,
		Role:  claims.Role,
	}, nil
}
