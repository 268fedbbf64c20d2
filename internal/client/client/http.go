package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/common"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

const defaultTimeout = 30 * time.Second

// HTTPClient implements Client over the JSON API. It is safe for concurrent
// use; the token pair is guarded by a mutex.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewHTTPClient targets baseURL, e.g. "http://127.0.0.1:8080". A nil
// httpClient gets a default with a 30s timeout.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	Member *domain.Member `json:"member"`
	tokenPair
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *HTTPClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *HTTPClient) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = access, refresh
}

// send performs one request and returns the raw body of a 2xx answer.
func (c *HTTPClient) send(ctx context.Context, method, path string, in any, withAuth bool) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		if access, _ := c.tokens(); access != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+access)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return nil, &StatusError{Code: resp.StatusCode, Message: eb.Error}
	}
	return data, nil
}

// sendAuthed sends with the bearer token. An expired access token is
// refreshed once and the request retried.
func (c *HTTPClient) sendAuthed(ctx context.Context, method, path string, in any) ([]byte, error) {
	data, err := c.send(ctx, method, path, in, true)

	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusUnauthorized && se.Message == common.ErrTokenExpired.Error() {
		if rerr := c.refresh(ctx); rerr != nil {
			return nil, err
		}
		data, err = c.send(ctx, method, path, in, true)
	}
	return data, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	data, err := c.sendAuthed(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return ErrUnauthorized
	}
	data, err := c.send(ctx, http.MethodPost, "/auth/refresh", tokenPair{RefreshToken: refresh}, false)
	if err != nil {
		return err
	}
	var tp tokenPair
	if err := json.Unmarshal(data, &tp); err != nil {
		return err
	}
	c.setTokens(tp.AccessToken, tp.RefreshToken)
	return nil
}

// Login signs in and keeps the returned tokens for later calls.
func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*domain.Member, error) {
	data, err := c.send(ctx, http.MethodPost, "/auth/login",
		map[string]string{"identifier": identifier, "password": password}, false)
	if err != nil {
		return nil, err
	}
	var lr loginResponse
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, err
	}
	c.setTokens(lr.AccessToken, lr.RefreshToken)
	return lr.Member, nil
}

// Logout forgets the tokens. The server keeps no session to end.
func (c *HTTPClient) Logout() {
	c.setTokens("", "")
}

// RecoverID asks the server to send the identifier registered for phone out
// of band and returns the server's message.
func (c *HTTPClient) RecoverID(ctx context.Context, phone string) (string, error) {
	data, err := c.send(ctx, http.MethodPost, "/auth/recover", map[string]string{"phone": phone}, false)
	if err != nil {
		return "", err
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	var out []*domain.Member
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	var out domain.Member
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMember registers m. The endpoint is public.
func (c *HTTPClient) CreateMember(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	data, err := c.send(ctx, http.MethodPost, "/users", m, false)
	if err != nil {
		return nil, err
	}
	var out domain.Member
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMember replaces the record at m.ID wholesale.
func (c *HTTPClient) UpdateMember(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	var out domain.Member
	if err := c.do(ctx, http.MethodPut, "/users/"+m.ID, m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Member, error) {
	var out domain.Member
	if err := c.do(ctx, http.MethodPatch, "/users/"+id+"/status", map[string]string{"status": string(status)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Card downloads the server-rendered artifact.
func (c *HTTPClient) Card(ctx context.Context, id string, f card.Format) ([]byte, error) {
	return c.sendAuthed(ctx, http.MethodGet, fmt.Sprintf("/users/%s/card.%s", id, f), nil)
}

// Publication is where a published card can be fetched until Expires.
type Publication struct {
	Key     string    `json:"key"`
	URL     string    `json:"url"`
	Expires time.Time `json:"expires"`
}

// PublishCard asks the server to upload the member's PDF card to object
// storage and returns a temporary download link.
func (c *HTTPClient) PublishCard(ctx context.Context, id string) (*Publication, error) {
	var out Publication
	if err := c.do(ctx, http.MethodPost, "/users/"+id+"/card/publish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Ask(ctx context.Context, topic string) (string, error) {
	data, err := c.send(ctx, http.MethodPost, "/assistant", map[string]string{"topic": topic}, false)
	if err != nil {
		return "", err
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}
