package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bhvr/bhvr-api-go/internal/model"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrNotAuthenticated is returned by calls that need a token when none is held.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrSessionExpired is returned when the server rejects the held token.
	// The token has been discarded by the time it is returned.
	ErrSessionExpired = errors.New("session expired, sign in again")
)

// APIError is a failure response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client talks to the auth API and keeps the local session in sync.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	machine *Machine
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient returns a client for the API at baseURL (for example
// http://localhost:8080/api). A token found in store is restored, leaving
// the session authenticated without a user until Profile is called.
func NewClient(ctx context.Context, baseURL string, store TokenStore, opts ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		machine: NewMachine(),
	}
	for _, opt := range opts {
		opt(c)
	}

	token, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.machine.Restore(token)
	return c, nil
}

// State returns the current session state.
func (c *Client) State() State {
	return c.machine.State()
}

// ClearError drops the last error message.
func (c *Client) ClearError() {
	c.machine.ClearError()
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (model.UserResponse, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return model.UserResponse{}, err
	}
	return c.authenticate(ctx, "/auth/login", model.LoginRequest{Email: email, Password: password})
}

// Register creates an account and signs in with it.
func (c *Client) Register(ctx context.Context, email, name, password string) (model.UserResponse, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return model.UserResponse{}, err
	}
	return c.authenticate(ctx, "/auth/register", model.RegisterRequest{Email: email, Name: name, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (model.UserResponse, error) {
	if err := c.machine.Begin(); err != nil {
		return model.UserResponse{}, err
	}

	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, "", body, &resp); err != nil {
		return model.UserResponse{}, c.fail(ctx, errorMessage(err), err)
	}

	if err := c.store.Save(ctx, resp.Token); err != nil {
		return model.UserResponse{}, c.fail(ctx, err.Error(), err)
	}

	// A Logout while the request was pending leaves nothing to complete;
	// the token just saved must not outlive it.
	if err := c.machine.Succeed(resp.User, resp.Token); err != nil {
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			return model.UserResponse{}, errors.Join(err, clearErr)
		}
		return model.UserResponse{}, err
	}
	return resp.User, nil
}

// fail ends the pending request with msg and drops any stored token, so a
// restart does not bring back the session the failed call replaced.
func (c *Client) fail(ctx context.Context, msg string, cause error) error {
	c.machine.Fail(msg)
	if err := c.store.Clear(ctx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Profile fetches the signed-in user. A rejected token is discarded and
// ErrSessionExpired returned.
func (c *Client) Profile(ctx context.Context) (model.UserResponse, error) {
	st := c.machine.State()
	if !st.Authenticated() {
		return model.UserResponse{}, ErrNotAuthenticated
	}

	var user model.UserResponse
	err := c.do(ctx, http.MethodGet, "/auth/profile", st.Token, nil, &user)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		if err := c.discard(ctx); err != nil {
			return model.UserResponse{}, err
		}
		return model.UserResponse{}, ErrSessionExpired
	}
	if err != nil {
		return model.UserResponse{}, err
	}

	c.machine.SetUser(user)
	return user, nil
}

// Logout notifies the server and discards the local token. The server call
// is best effort; the local session ends either way.
func (c *Client) Logout(ctx context.Context) error {
	st := c.machine.State()
	if st.Token != "" {
		if err := c.do(ctx, http.MethodPost, "/auth/logout", st.Token, nil, nil); err != nil {
			slog.WarnContext(ctx, "logout request failed", "error", err)
		}
	}
	return c.discard(ctx)
}

func (c *Client) discard(ctx context.Context) error {
	c.machine.Logout()
	return c.store.Clear(ctx)
}

// do sends a JSON request and decodes the data field of the envelope into out.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

// errorMessage is the text shown to the user for a failed request.
func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
