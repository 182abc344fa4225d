package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "test-secret-at-least-16-chars!!"

// Internal user IDs are xids.
const testUserID = "d0k1f2g3h4j5k6l7m8n9"

// newTestTokenService creates a TokenService with a fixed secret so tests
// are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testJWTSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// signForeign signs a session-shaped token with our secret but another
// issuer, as a sibling app sharing JWT_SECRET would.
func signForeign(t *testing.T, iss string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   testUserID,
		Issuer:    iss,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing foreign token: %v", err)
	}
	return signed
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService_SecretLength(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Error("NewTokenService() should reject secrets shorter than 16 chars")
	}
	if _, err := NewTokenService("exactly-16-chars"); err != nil {
		t.Errorf("NewTokenService() unexpected error for 16-char secret: %v", err)
	}
}

// =========================================================================
// SESSION ISSUE + VERIFY
// =========================================================================

func TestSession_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(testUserID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// header.payload.signature
	if n := strings.Count(token, "."); n != 2 {
		t.Fatalf("session token has %d dots, want 2", n)
	}

	got, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != testUserID {
		t.Errorf("Validate() userID = %q, want %q", got, testUserID)
	}
}

func TestSession_DistinctPerUser(t *testing.T) {
	ts := newTestTokenService(t)

	alice, _ := ts.Generate("alice-xid")
	bob, _ := ts.Generate("bob-xid")

	if alice == bob {
		t.Error("two users received the same session token")
	}
}

func TestGenerate_UsesSessionTTL(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(testUserID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
	if err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("GetExpirationTime: %v", err)
	}
	iss, _ := parsed.Claims.GetIssuer()
	if iss != issuer {
		t.Errorf("issuer = %q, want %q", iss, issuer)
	}

	remaining := time.Until(exp.Time)
	if remaining < SessionTTL-time.Minute || remaining > SessionTTL {
		t.Errorf("session expires in %v, want about %v", remaining, SessionTTL)
	}
}

// =========================================================================
// REJECTIONS
// =========================================================================

func TestValidate_Rejects(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("another-deployment-secret-32chars")

	expired, _ := ts.GenerateWithDuration(testUserID, -time.Second)
	good, _ := ts.Generate(testUserID)
	fromOther, _ := other.Generate(testUserID)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   testUserID,
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing alg=none token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired session", expired},
		{"tampered signature", good[:len(good)-3] + "xxx"},
		{"signed by another deployment", fromOther},
		{"issued by another app", signForeign(t, "coding-playground")},
		{"alg none", unsigned},
		{"empty", ""},
		{"garbage", "not.a.jwt.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.Validate(tt.token); err == nil {
				t.Fatal("Validate() accepted a token it should reject")
			}
		})
	}
}

// A cookie minted by a sibling app that shares JWT_SECRET must not open the
// interview API, even though its signature verifies.
func TestRequireAuth_RejectsForeignIssuerSession(t *testing.T) {
	ts := newTestTokenService(t)
	h := RequireAuth(ts)(echoIdentity)

	req := httptest.NewRequest(http.MethodGet, "/api/interviews?userId="+testUserID, nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: signForeign(t, "coding-playground")})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// The same user logging in through Google gets through.
	session, err := ts.Generate(testUserID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/interviews?userId="+testUserID, nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: session})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != testUserID {
		t.Fatalf("status = %d body = %q, want 200 %q", rec.Code, rec.Body.String(), testUserID)
	}
}
