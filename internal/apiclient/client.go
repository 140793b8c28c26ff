// Package apiclient talks to the A+ generator API. It only obtains data and
// tokens; adopting a session is the caller's job.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aplusgen/aplus/internal/projects"
)

// APIError carries the server-supplied detail message for a failed call.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// Client handles communication with the remote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tokenEnvelope struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.authExchange(ctx, "/api/auth/login", email, password)
}

// Signup registers a new account and returns its first bearer token.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	return c.authExchange(ctx, "/api/auth/signup", email, password)
}

func (c *Client) authExchange(ctx context.Context, path, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required")
	}

	body := map[string]string{"email": email, "password": password}
	var env tokenEnvelope
	if err := c.post(ctx, path, "", body, &env); err != nil {
		return "", err
	}
	if env.AccessToken == "" {
		return "", fmt.Errorf("server returned no token")
	}
	return env.AccessToken, nil
}

// ListProjects returns the owner's projects, newest first.
func (c *Client) ListProjects(ctx context.Context, token string) ([]projects.Project, error) {
	if token == "" {
		return nil, fmt.Errorf("token required")
	}

	var out []projects.Project
	if err := c.get(ctx, "/api/projects", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject registers a named project stub. The name is checked before
// any network traffic happens.
func (c *Client) CreateProject(ctx context.Context, token, name string) (*projects.Project, error) {
	if token == "" {
		return nil, fmt.Errorf("token required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("project name required")
	}

	var out projects.Project
	if err := c.post(ctx, "/api/projects", token, map[string]string{"name": strings.TrimSpace(name)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProject(ctx context.Context, token, id string) (*projects.Project, error) {
	if token == "" {
		return nil, fmt.Errorf("token required")
	}

	var out projects.Project
	if err := c.get(ctx, "/api/projects/"+id, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token, out)
}

func (c *Client) do(req *http.Request, token string, out interface{}) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError pulls the server's {detail} message out of an error
// response, falling back to a generic message when there is none.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Detail = strings.TrimSpace(payload.Detail)
		}
	}
	if apiErr.Detail == "" {
		apiErr.Detail = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return apiErr
}
