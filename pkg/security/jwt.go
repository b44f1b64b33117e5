package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("authorization token invalid")
	ErrNoAccountID  = errors.New("token carries no account id")
)

type SessionClaims struct {
	AccountID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenCodec signs and parses the bearer tokens handed out on login.
// A zero ttl issues tokens that never expire.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Sign returns a new token bound to accountID. Every call yields a distinct
// token, even within the same second, because of the random token ID
func (t *TokenCodec) Sign(accountID string) (token string, expiresAt *time.Time, err error) {
	now := time.Now()

	claims := SessionClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  accountID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	if t.ttl > 0 {
		exp := now.Add(t.ttl)
		expiresAt = &exp
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token, %w", err)
	}

	return token, expiresAt, nil
}

// Parse verifies the signature and expiry of token and returns the account
// ID it was issued for
func (t *TokenCodec) Parse(token string) (string, error) {
	var claims SessionClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(tk *jwt.Token) (any, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tk.Method.Alg())
		}

		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w, %w", ErrTokenInvalid, err)
	}

	if !parsed.Valid {
		return "", ErrTokenInvalid
	}

	if claims.AccountID == "" {
		return "", ErrNoAccountID
	}

	return claims.AccountID, nil
}
