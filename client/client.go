// Package client talks to the intranet API the way the web front end does:
// it keeps the session in one of two storage tiers, caches selected GET
// responses for a minute and returns camelCase payloads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vintegcorp/vintegcorp/internal/keycase"
)

// ErrSessionExpired matches the error returned when the server rejects the session
var ErrSessionExpired = errors.New("session expired")

// ErrNoSession is returned by calls that need a logged in user
var ErrNoSession = errors.New("not logged in")

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets a 401 match ErrSessionExpired
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	persistent Storage
	tab        Storage
	cache      *Cache
	logger     zerolog.Logger
	onExpired  func()

	mu    sync.RWMutex
	user  *User
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPersistentStorage sets the tier used by "remember me" logins
func WithPersistentStorage(s Storage) Option {
	return func(c *Client) {
		c.persistent = s
	}
}

// WithTabStorage sets the tier used by ordinary logins
func WithTabStorage(s Storage) Option {
	return func(c *Client) {
		c.tab = s
	}
}

func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithSessionExpiredHook is called after a 401 has cleared the session
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}

// New returns a client for the API at baseURL and restores any stored session
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: http.DefaultClient,
		persistent: NewMemoryStorage(),
		tab:        NewMemoryStorage(),
		cache:      NewCache(DefaultCacheTTL, time.Now),
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	c.restoreSession()
	return c
}

// restoreSession prefers the persistent tier. A record that cannot be read
// clears the session entirely.
func (c *Client) restoreSession() {
	rawUser, token, err := readSession(c.persistent)
	if err == nil && (rawUser == "" || token == "") {
		rawUser, token, err = readSession(c.tab)
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("Stored session unreadable, logging out")
		c.Logout()
		return
	}
	if rawUser == "" || token == "" {
		return
	}

	var u User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil || u.ID == "" {
		c.logger.Warn().Msg("Stored session corrupt, logging out")
		c.Logout()
		return
	}
	c.mu.Lock()
	c.user, c.token = &u, token
	c.mu.Unlock()
}

func readSession(s Storage) (string, string, error) {
	rawUser, _, err := s.Get(KeyUser)
	if err != nil {
		return "", "", err
	}
	token, _, err := s.Get(KeyToken)
	if err != nil {
		return "", "", err
	}
	return rawUser, token, nil
}

// CurrentUser returns a copy of the logged in user, or nil
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Logout forgets the session in memory, in both storage tiers and in the cache
func (c *Client) Logout() {
	c.mu.Lock()
	c.user, c.token = nil, ""
	c.mu.Unlock()

	for _, s := range []Storage{c.persistent, c.tab} {
		for _, key := range []string{KeyUser, KeyToken} {
			if err := s.Delete(key); err != nil {
				c.logger.Warn().Err(err).Str("key", key).Msg("Failed to clear stored session")
			}
		}
	}
	c.cache.Clear()
}

// Request performs one API call and returns the decoded, camelCased payload.
// Only GETs with useCache set are served from and stored in the cache; any
// other method clears the cache once it succeeds.
func (c *Client) Request(ctx context.Context, path, method string, body any, useCache bool) (any, error) {
	cacheable := useCache && method == http.MethodGet
	if cacheable {
		if data, ok := c.cache.Get(path); ok {
			return data, nil
		}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client Request] failed to encode body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client Request] failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client Request] %s %s failed", method, path)
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client Request] failed to read response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.Logout()
		if c.onExpired != nil {
			c.onExpired()
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	mutation := method != http.MethodGet
	if resp.StatusCode == http.StatusNoContent {
		if mutation {
			c.cache.Clear()
		}
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(respBody))
	decoder.UseNumber()
	var data any
	if err := decoder.Decode(&data); err != nil {
		return nil, errors.Wrap(err, "[Client Request] failed to decode response")
	}
	data = keycase.ToCamel(data)

	if cacheable {
		c.cache.Set(path, data)
	}
	if mutation {
		c.cache.Clear()
	}
	return data, nil
}

// errorMessage prefers the server's {message} envelope
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fmt.Sprintf("server error: %d", status)
}

// call runs Request and decodes the payload into T
func call[T any](ctx context.Context, c *Client, path, method string, body any, useCache bool) (T, error) {
	var out T
	data, err := c.Request(ctx, path, method, body, useCache)
	if err != nil || data == nil {
		return out, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return out, errors.Wrap(err, "[Client call] failed to re-encode payload")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.Wrapf(err, "[Client call] unexpected payload from %s %s", method, path)
	}
	return out, nil
}

// Login starts a session. remember keeps it in the persistent tier, otherwise
// it lives in the tab tier; the other tier is cleared either way.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (*User, error) {
	result, err := call[loginResult](ctx, c, "/api/auth/login", http.MethodPost,
		map[string]string{"email": email, "password": password}, false)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.user, c.token = &result.User, result.Token
	c.mu.Unlock()

	target, other := c.tab, c.persistent
	if remember {
		target, other = c.persistent, c.tab
	}
	for _, key := range []string{KeyUser, KeyToken} {
		if err := other.Delete(key); err != nil {
			return nil, errors.Wrap(err, "[Client Login] failed to clear the other session tier")
		}
	}
	if err := writeSession(target, &result.User, result.Token); err != nil {
		return nil, err
	}
	return c.CurrentUser(), nil
}

func writeSession(s Storage, u *User, token string) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return errors.Wrap(err, "[Client writeSession] failed to encode user")
	}
	if err := s.Set(KeyUser, string(raw)); err != nil {
		return errors.Wrap(err, "[Client writeSession] failed to store user")
	}
	return errors.Wrap(s.Set(KeyToken, token), "[Client writeSession] failed to store token")
}

// UpdateCurrentUser patches the logged in user's profile and rewrites
// whichever storage tier holds the session.
func (c *Client) UpdateCurrentUser(ctx context.Context, patch ProfilePatch) (*User, error) {
	current := c.CurrentUser()
	if current == nil {
		return nil, ErrNoSession
	}
	updated, err := call[User](ctx, c, "/api/users/"+current.ID, http.MethodPatch, patch, false)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.user = &updated
	token := c.token
	c.mu.Unlock()

	target := c.tab
	if _, ok, err := c.persistent.Get(KeyUser); err == nil && ok {
		target = c.persistent
	}
	if err := writeSession(target, &updated, token); err != nil {
		return nil, err
	}
	c.cache.Clear()
	return c.CurrentUser(), nil
}
