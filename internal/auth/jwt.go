// Package auth handles sign-in and the session that follows it.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. User visits /auth/google/login → redirected to Google
//  2. Google calls back /auth/google/callback with a code
//  3. Server exchanges the code for tokens and the Google profile, upserts the
//     user and their linked Google account
//  4. Server issues a JWT session token, stores it in an HttpOnly cookie
//  5. On subsequent API calls, RequireAuth reads the cookie, validates the JWT,
//     and sets the userID in the request context
//
// The Google access token obtained in step 3 is what the calendar sync later
// uses; it is sealed before it reaches the database (see Sealer).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "interview-tracker"

// SessionTTL is how long a login lasts. There is no refresh endpoint; the
// user signs in with Google again when the cookie expires.
const SessionTTL = 7 * 24 * time.Hour

// TokenService handles JWT creation and validation.
//
// WHY A JWT IN A COOKIE?
// The session has to survive the redirect back from Google and then ride
// along on every /api call. A signed token carries the user ID itself, so
// RequireAuth checks a signature instead of looking up a session table.
// The cookie is HttpOnly, so page scripts never see it.
//
// The catch is that a JWT cannot be revoked: logout deletes the cookie, but
// a copied token stays valid until it expires. SessionTTL bounds that.
//
// WHY CHECK THE ISSUER?
// JWT_SECRET may be shared with other services. Their tokens would verify
// against our key, so Validate also requires iss == "interview-tracker".
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. "sub" carries the internal user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a session token for userID valid for SessionTTL.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, SessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Tests use a negative duration to get an already-expired token.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID stored in
// its "sub" claim.
//
// ALGORITHM CONFUSION:
// The token's header names its own algorithm. If we trusted it, an attacker
// could send "alg":"none" (no signature at all) or an RS256 header and have
// the HMAC secret treated as a public key. WithValidMethods pins HS256, and
// the keyfunc double-checks the method type before handing out the secret.
//
// Besides the signature, the token must carry an expiry and our issuer.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
