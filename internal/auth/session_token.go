package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// maxUserAgentLen caps the user-agent claim so a hostile client string
// cannot bloat the token.
const maxUserAgentLen = 120

// ErrInvalidToken is returned when a session token fails signature or claim
// validation, including expiry.
var ErrInvalidToken = errors.New("invalid session token")

// sessionClaims are the JWT claims carried by a session token.
type sessionClaims struct {
	jwt.RegisteredClaims

	// UserAgent records the client identity string the session was issued
	// to, truncated to maxUserAgentLen.
	UserAgent string `json:"ua,omitempty"`
}

// TokenIssuer mints and validates the signed session tokens that represent
// an authenticated session. Tokens are HMAC-SHA256 JWTs; validity is bounded
// by the configured TTL measured from issuance.
type TokenIssuer struct {
	signKey []byte
	issuer  string
	ttl     time.Duration
	now     func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. signKey must be non-empty; ttl
// must be positive.
func NewTokenIssuer(signKey, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if signKey == "" {
		return nil, errors.New("empty token sign key")
	}
	if ttl <= 0 {
		return nil, errors.New("non-positive session ttl")
	}

	return &TokenIssuer{
		signKey: []byte(signKey),
		issuer:  issuer,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Issue mints a signed session token for userID. The jti claim carries a
// random UUID so two tokens for the same user are never identical.
func (t *TokenIssuer) Issue(userID int64, userAgent string) (string, error) {
	if len(userAgent) > maxUserAgentLen {
		userAgent = userAgent[:maxUserAgentLen]
	}

	issuedAt := t.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
		UserAgent: userAgent,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Validate checks the token's signature, issuer, and age, and returns the
// user id it was issued for. A token older than the configured TTL is
// invalid even if its exp claim says otherwise: age is measured from iat so
// a tampered-with expiry cannot extend a session.
func (t *TokenIssuer) Validate(tokenString string) (int64, error) {
	var claims sessionClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return t.signKey, nil
		},
		jwt.WithIssuer(t.issuer),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.IssuedAt == nil || t.now().Sub(claims.IssuedAt.Time) > t.ttl {
		return 0, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return userID, nil
}
