// Package api is the HTTP client for the shorts backend: feed pages,
// bookmarks, and auth. The backend itself is an external collaborator;
// this package only speaks its wire contract and maps failures onto the
// client error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alshorts/shorts/internal/feed"
)

const userAgent = "shorts/1.0 (terminal client)"

// TokenSource supplies the current bearer token, or "" when logged out.
// The session store implements it.
type TokenSource interface {
	Token() string
}

// User is the authenticated user profile as the backend reports it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is a login/signup result: token and user are always
// issued together.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Client talks to one backend base URL. Safe for concurrent use.
type Client struct {
	base    string
	client  *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
}

// NewClient creates a Client for the given base URL. tokens may be nil
// for a client that only hits public endpoints.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		tokens:  tokens,
	}
}

// feedResponse wraps the feed page payload.
type feedResponse struct {
	Data []feed.Item `json:"data"`
}

// FetchFeed retrieves one feed page. An empty slice is a valid response
// and means the feed is exhausted at this cursor.
func (c *Client) FetchFeed(ctx context.Context, page int, lang feed.Language, limit int) ([]feed.Item, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("language", string(lang))

	var out feedResponse
	if err := c.do(ctx, http.MethodGet, "/feed?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// bookmarkEntry is one element of the bookmarks listing. The backend
// returns full items; only the id matters for membership.
type bookmarkEntry struct {
	ID string `json:"id"`
}

// Bookmarks retrieves the ids the current user has bookmarked.
// Requires auth; a missing or invalid token yields ErrAuth.
func (c *Client) Bookmarks(ctx context.Context) ([]string, error) {
	var entries []bookmarkEntry
	if err := c.do(ctx, http.MethodGet, "/bookmarks", nil, &entries); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

// ToggleBookmark flips the bookmark state of one item on the server.
// The caller is expected to re-run Bookmarks afterwards; the response
// body carries no authoritative membership.
func (c *Client) ToggleBookmark(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing item id", ErrValidation)
	}
	return c.do(ctx, http.MethodPost, "/bookmarks/"+url.PathEscape(id), nil, nil)
}

// Login exchanges credentials for a token+user pair.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	if email == "" || password == "" {
		return Credentials{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	var creds Credentials
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Signup registers a new user and returns the issued token+user pair.
func (c *Client) Signup(ctx context.Context, name, email, password string) (Credentials, error) {
	if name == "" || email == "" || password == "" {
		return Credentials{}, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	var creds Credentials
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

// do performs one request and decodes the response into out (when out is
// non-nil). Failures map onto the taxonomy: transport errors become
// ErrNetwork, 401 becomes ErrAuth, any other non-2xx becomes ErrServer.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrValidation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s %s", ErrAuth, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("%w: %s", ErrServer, detail)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}

// readDetail extracts the backend's error detail, tolerating bodies that
// are not the expected envelope.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var e errorResponse
	if json.Unmarshal(data, &e) == nil && e.Detail != "" {
		return e.Detail
	}
	return ""
}
