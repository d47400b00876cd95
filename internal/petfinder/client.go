package petfinder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultBaseURL is the public Petfinder v2 API.
const DefaultBaseURL = "https://api.petfinder.com/v2"

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 10 * time.Second

// tokenSkew is how long before its expiry a token stops being reused.
const tokenSkew = 30 * time.Second

const (
	maxResponseBytes = 4 << 20
	maxPhotoBytes    = 10 << 20
)

// TokenCache persists access tokens across restarts.
type TokenCache interface {
	LoadToken(ctx context.Context) (string, time.Time, error)
	SaveToken(ctx context.Context, token string, expiry time.Time) error
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration

	// HTTPClient overrides the default client (mainly for tests).
	HTTPClient *http.Client
	// Cache is optional.
	Cache TokenCache
}

// Client talks to a Petfinder-style adoption API using the OAuth2
// client-credentials flow.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
	cache        TokenCache
	now          func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewClient creates a client. ClientID and ClientSecret are required.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("client id and secret are required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         httpClient,
		cache:        cfg.Cache,
		now:          time.Now,
	}, nil
}

// Token returns a bearer token, exchanging client credentials for a new one
// when no unexpired token is held in memory or in the cache.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid(c.expiry) {
		return c.token, nil
	}

	if c.cache != nil {
		token, expiry, err := c.cache.LoadToken(ctx)
		if err != nil {
			slog.Warn("failed to load cached api token", "error", err)
		} else if token != "" && c.valid(expiry) {
			c.token, c.expiry = token, expiry
			return token, nil
		}
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp tokenResponse
	if err := c.doJSON(req, &resp); err != nil {
		return "", externalErr("exchanging client credentials", err)
	}
	if resp.AccessToken == "" {
		return "", externalErr("exchanging client credentials", errors.New("empty access token"))
	}

	c.token = resp.AccessToken
	c.expiry = c.tokenExpiry(resp)
	slog.Info("api token acquired", "expires_at", c.expiry.Format(time.RFC3339))

	if c.cache != nil {
		if err := c.cache.SaveToken(ctx, c.token, c.expiry); err != nil {
			slog.Warn("failed to cache api token", "error", err)
		}
	}
	return c.token, nil
}

func (c *Client) valid(expiry time.Time) bool {
	return !expiry.IsZero() && c.now().Add(tokenSkew).Before(expiry)
}

// tokenExpiry prefers the exp claim of the (JWT) access token and falls back
// to expires_in. The signature can't be checked without the issuer's key, and
// the token is only read to learn when to refresh it.
func (c *Client) tokenExpiry(resp tokenResponse) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token, c.expiry = "", time.Time{}
	c.mu.Unlock()
}

// SearchParams narrows an animals search.
type SearchParams struct {
	Type     string
	Location string
	Limit    int
}

// SearchAnimals fetches one page of animals matching params.
func (c *Client) SearchAnimals(ctx context.Context, params SearchParams) ([]Animal, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	if params.Location != "" {
		q.Set("location", params.Location)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Type != "" {
		q.Set("type", params.Type)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/animals?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var resp animalsResponse
	if err := c.doJSON(req, &resp); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
			c.invalidateToken()
		}
		return nil, externalErr("searching animals", err)
	}
	return resp.Animals, nil
}

// FetchPhoto downloads an image.
func (c *Client) FetchPhoto(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building photo request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, externalErr("fetching photo", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, externalErr("fetching photo", &HTTPError{StatusCode: resp.StatusCode})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, externalErr("reading photo", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("photo larger than %d bytes", maxPhotoBytes)
	}
	return data, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
