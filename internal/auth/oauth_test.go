package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newFakeGoogle serves a token endpoint and a userinfo endpoint, and returns
// a provider pointed at them.
func newFakeGoogle(t *testing.T, userinfo string, userinfoStatus int) *GoogleProvider {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"ya29.access","refresh_token":"1//refresh","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ya29.access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userinfoStatus)
		w.Write([]byte(userinfo))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := NewGoogleProvider("client-id", "client-secret", "http://localhost/auth/google/callback")
	p.config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	p.userInfoURL = srv.URL + "/userinfo"
	return p
}

func TestGoogleProvider_AuthURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost/cb")

	u, err := url.Parse(p.AuthURL("state-123"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "openid email profile "+CalendarScope, q.Get("scope"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
}

func TestGoogleProvider_Exchange(t *testing.T) {
	p := newFakeGoogle(t, `{"sub":"10987","email":"ada@example.com","name":"Ada","picture":"https://example.com/a.png"}`, http.StatusOK)

	user, token, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)

	assert.Equal(t, "10987", user.Sub)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ya29.access", token.AccessToken)
	assert.Equal(t, "1//refresh", token.RefreshToken)
	assert.False(t, token.Expiry.IsZero())
}

func TestGoogleProvider_Exchange_BadCode(t *testing.T) {
	p := newFakeGoogle(t, `{}`, http.StatusOK)

	_, _, err := p.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleProvider_Exchange_UserinfoFailure(t *testing.T) {
	p := newFakeGoogle(t, `{"error":"boom"}`, http.StatusInternalServerError)

	_, _, err := p.Exchange(context.Background(), "good-code")
	assert.Error(t, err)
}

func TestGoogleProvider_Exchange_MissingSubject(t *testing.T) {
	p := newFakeGoogle(t, `{"email":"nobody@example.com"}`, http.StatusOK)

	_, _, err := p.Exchange(context.Background(), "good-code")
	assert.Error(t, err)
}
