// Package client is a Go client for the movies HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/Mrugank93/movies/internal/session"
	"github.com/Mrugank93/movies/pkg/proto"
)

// DefaultTimeout bounds each request when New is given zero.
const DefaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.RWMutex
	sess *session.Session
}

// New returns a client for the API at baseURL. sess may be nil for a
// signed-out client.
func New(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		sess:    sess,
	}
}

// Session returns the current session, or nil when signed out.
func (c *Client) Session() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess
}

func (c *Client) setSession(sess *session.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = sess
}

// SignUp registers a user and starts a session for it.
func (c *Client) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	return c.authenticate(ctx, "/auth/sign-up", email, password)
}

// SignIn starts a session for an existing user.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	return c.authenticate(ctx, "/auth/sign-in", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*session.Session, error) {
	var resp proto.TokenResponse
	if err := c.do(ctx, http.MethodPost, path, proto.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	sess := &session.Session{
		Token:    resp.Token,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		IssuedAt: time.Now().UTC(),
	}
	c.setSession(sess)
	return sess, nil
}

// SignOut ends the session. The local session is dropped even when the
// server cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/sign-out", nil, nil)
	c.setSession(nil)
	return err
}

// ListMovies returns one page of the catalog.
func (c *Client) ListMovies(ctx context.Context, page int) (*proto.ListResponse[proto.Movie], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var resp proto.ListResponse[proto.Movie]
	if err := c.do(ctx, http.MethodGet, "/movies?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMovie returns one movie.
func (c *Client) GetMovie(ctx context.Context, id string) (*proto.Movie, error) {
	var resp proto.DataResponse[proto.Movie]
	if err := c.do(ctx, http.MethodGet, "/movies/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateMovie adds a movie to the catalog.
func (c *Client) CreateMovie(ctx context.Context, req proto.CreateMovie) (*proto.Movie, error) {
	var resp proto.DataResponse[proto.Movie]
	if err := c.do(ctx, http.MethodPost, "/movies", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateMovie changes the fields set in req and keeps the rest.
func (c *Client) UpdateMovie(ctx context.Context, id string, req proto.UpdateMovie) (*proto.Movie, error) {
	var resp proto.DataResponse[proto.Movie]
	if err := c.do(ctx, http.MethodPatch, "/movies/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess := c.Session(); sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &apperr.Error{Kind: apperr.ErrTransient, Message: "server unreachable, please retry"}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response back into an apperr kind.
func decodeError(resp *http.Response) error {
	var body proto.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)

	message := body.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	var kind error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = apperr.ErrValidation
	case http.StatusRequestEntityTooLarge:
		kind = apperr.ErrTooLarge
	case http.StatusUnauthorized:
		kind = apperr.ErrUnauthorized
	case http.StatusNotFound:
		kind = apperr.ErrNotFound
	case http.StatusConflict:
		kind = apperr.ErrConflict
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = apperr.ErrTransient
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, message)
	}
	return &apperr.Error{Kind: kind, Message: message, Fields: body.Errors}
}
