package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFakeProvider(t *testing.T, tokenStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		require.NotEmpty(t, r.PostFormValue("code"))

		if tokenStatus != http.StatusOK {
			w.WriteHeader(tokenStatus)
			_, _ = w.Write([]byte(`{"error_message":"Invalid authorization code"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "IGQ-token",
			"user_id":      178414,
		})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "IGQ-token", r.URL.Query().Get("access_token"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                  "178414",
			"username":            "wanderlust.wren",
			"followers_count":     52100,
			"profile_picture_url": "https://cdn.provider.test/wren.jpg",
			"biography":           "travel and food",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(base string) *Client {
	return NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.test/callback",
		AuthBaseURL:  base,
		APIBaseURL:   base,
	})
}

func TestAuthorizationURL(t *testing.T) {
	c := newTestClient("https://api.instagram.com")

	u, err := url.Parse(c.AuthorizationURL())
	require.NoError(t, err)
	require.Equal(t, "/oauth/authorize", u.Path)

	q := u.Query()
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Equal(t, "https://app.test/callback", q.Get("redirect_uri"))
	require.Equal(t, "code", q.Get("response_type"))
	require.NotEmpty(t, q.Get("scope"))
	require.Empty(t, q.Get("client_secret"), "secret never leaves the server")
}

func TestExchange(t *testing.T) {
	srv := newFakeProvider(t, http.StatusOK)
	c := newTestClient(srv.URL)

	id, err := c.Exchange(context.Background(), "valid-code")
	require.NoError(t, err)
	require.Equal(t, "178414", id.UserID)
	require.Equal(t, "wanderlust.wren", id.Handle)
	require.EqualValues(t, 52100, id.Followers)
	require.Equal(t, "https://cdn.provider.test/wren.jpg", id.AvatarURL)
	require.Equal(t, "IGQ-token", id.AccessToken)
}

func TestExchangeProviderRejection(t *testing.T) {
	srv := newFakeProvider(t, http.StatusBadRequest)
	c := newTestClient(srv.URL)

	_, err := c.Exchange(context.Background(), "spent-code")
	require.ErrorIs(t, err, ErrProvider)
	require.NotErrorIs(t, err, ErrTimeout)
}

func TestExchangeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)
	_, err := c.Exchange(context.Background(), "code")
	require.ErrorIs(t, err, ErrProvider)
}

func TestExchangeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Exchange(ctx, "slow-code")
	require.ErrorIs(t, err, ErrTimeout)
}
