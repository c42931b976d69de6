// Package instagram is the OAuth boundary to the external provider. It
// builds authorization URLs and trades authorization codes for a normalized
// identity. It holds no onboarding state; the orchestrator owns that.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrProvider reports a provider-side rejection or malformed payload.
	// Authorization codes are single-use by provider contract: after a
	// rejection the caller must start a fresh authorization round-trip, not
	// retry the same code.
	ErrProvider = errors.New("instagram: provider error")

	// ErrTimeout reports that the provider did not answer within the
	// client's deadline.
	ErrTimeout = errors.New("instagram: provider timeout")
)

// Identity is the provider profile attached to a successful exchange.
type Identity struct {
	UserID      string
	Handle      string
	Followers   int64
	AvatarURL   string
	Bio         string
	AccessToken string
}

// Config carries the OAuth application registration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	// AuthBaseURL hosts the interactive authorize endpoint.
	// APIBaseURL hosts the token and profile endpoints.
	AuthBaseURL string
	APIBaseURL  string
}

// Client talks to the provider's OAuth and profile endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a provider client with a bounded request timeout so a
// slow provider fails the operation instead of hanging it.
func NewClient(cfg Config) *Client {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = "https://api.instagram.com"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://graph.instagram.com"
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"user_profile", "user_media"}
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthorizationURL returns the provider authorize endpoint for the browser
// redirect. Stateless: nothing is persisted before the callback returns.
func (c *Client) AuthorizationURL() string {
	q := url.Values{
		"client_id":     {c.cfg.ClientID},
		"redirect_uri":  {c.cfg.RedirectURI},
		"scope":         {strings.Join(c.cfg.Scopes, ",")},
		"response_type": {"code"},
	}
	return c.cfg.AuthBaseURL + "/oauth/authorize?" + q.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      any    `json:"user_id"` // provider sends number or string depending on API version
}

type profileResponse struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FollowersCount    int64  `json:"followers_count"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Biography         string `json:"biography"`
}

// Exchange trades an authorization code for an access token, then reads the
// provider profile with it. The code is consumed by the provider on first
// use, so Exchange never retries the token request.
func (c *Client) Exchange(ctx context.Context, code string) (Identity, error) {
	token, err := c.exchangeCode(ctx, code)
	if err != nil {
		return Identity{}, err
	}

	profile, err := c.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		UserID:      profile.ID,
		Handle:      profile.Username,
		Followers:   profile.FollowersCount,
		AvatarURL:   profile.ProfilePictureURL,
		Bio:         profile.Biography,
		AccessToken: token.AccessToken,
	}, nil
}

func (c *Client) exchangeCode(ctx context.Context, code string) (tokenResponse, error) {
	data := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {c.cfg.RedirectURI},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.cfg.AuthBaseURL+"/oauth/access_token",
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tokenResponse{}, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return tokenResponse{}, fmt.Errorf(
			"%w: token endpoint returned %d: %s",
			ErrProvider, resp.StatusCode, string(bodyBytes),
		)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return tokenResponse{}, fmt.Errorf("%w: malformed token response: %v", ErrProvider, err)
	}
	if token.AccessToken == "" {
		return tokenResponse{}, fmt.Errorf("%w: token response missing access_token", ErrProvider)
	}

	return token, nil
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (profileResponse, error) {
	q := url.Values{
		"fields":       {"id,username,followers_count,profile_picture_url,biography"},
		"access_token": {accessToken},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.cfg.APIBaseURL+"/me?"+q.Encode(),
		nil,
	)
	if err != nil {
		return profileResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return profileResponse{}, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return profileResponse{}, fmt.Errorf(
			"%w: profile endpoint returned %d: %s",
			ErrProvider, resp.StatusCode, string(bodyBytes),
		)
	}

	var profile profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return profileResponse{}, fmt.Errorf("%w: malformed profile response: %v", ErrProvider, err)
	}
	if profile.ID == "" || profile.Username == "" {
		return profileResponse{}, fmt.Errorf("%w: profile response missing id or username", ErrProvider)
	}

	return profile, nil
}

func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("failed to send request: %w", err)
}
