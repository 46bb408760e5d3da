package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/idilsaglam/rate/internal/store"
)

// Claims carried by session tokens.
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

var ErrNoToken = errors.New("missing bearer token")

// Inspect decodes token claims without checking the signature. Clients use
// it to read their own token; servers must use Verify.
func Inspect(token string) (*Claims, error) {
	c := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return c, nil
}

// Verify checks an HS256 signature and the registered time claims.
func Verify(token string, secret []byte) (*Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	c := &Claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return c, nil
}

// Sign issues an HS256 token for subject, valid for ttl.
func Sign(secret []byte, subject, email string, verified bool, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		Email:         email,
		EmailVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// CanSave is the authorization gate checked before every save. A token
// with claims decides by its email_verified flag. Without readable claims
// only local stores may be written.
func CanSave(ti *TokenInfo, remote bool) bool {
	if ti == nil || ti.Token == "" {
		return !remote
	}
	c, err := Inspect(ti.Token)
	if err != nil {
		return !remote
	}
	return c.EmailVerified
}

// UserID is the token subject, or the local user.
func UserID(ti *TokenInfo) string {
	if ti == nil {
		return store.LocalUser
	}
	if c, err := Inspect(ti.Token); err == nil && c.Subject != "" {
		return c.Subject
	}
	return store.LocalUser
}
