package utils // package utils provides helpers for issuing and reading session tokens

import (
	"errors" // sentinel errors for malformed tokens
	"time"   // expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned when a token cannot be verified or carries
// no session id.
var ErrInvalidToken = errors.New("invalid token")

// ErrInvalidTTL is returned when a token would be born expired.
var ErrInvalidTTL = errors.New("token ttl must be positive")

// SessionToken is a signed HS256 JWT identifying one application session.
// Exp is the UTC time after which the token is rejected.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken signs a token whose subject is the session id.  The
// claims are sub, exp and iat.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
	if ttl <= 0 {
		return SessionToken{}, ErrInvalidTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of raw and returns
// the session id stored in its subject.
func ParseSessionToken(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC signatures are accepted.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
