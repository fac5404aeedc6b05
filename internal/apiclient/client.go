package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// talks to the users REST API
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// creates a client; pass the session's http.Client so requests carry the credential
func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if httpClient.Timeout == 0 {
		httpClient.Timeout = requestTimeout
	}

	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}
}

// exchanges email and password for a credential ("Bearer <jwt>")
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse

	if err := c.do(ctx, http.MethodPost, "/api/users/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}

	if !resp.Success || resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}

	return resp.Token, nil
}

// creates an account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	var account Account

	if err := c.do(ctx, http.MethodPost, "/api/users/register", req, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// fetches the authenticated caller
func (c *Client) Current(ctx context.Context) (*CurrentUser, error) {
	var user CurrentUser

	if err := c.do(ctx, http.MethodGet, "/api/users/current", nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader

	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// maps a non-200 response to ErrUnauthorized, a FieldError or an APIError
func decodeError(status int, body []byte) error {
	if status == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err == nil && apiErr.Code != "" {
		return apiErr
	}

	var fields map[string]string
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		return &FieldError{Status: status, Fields: fields}
	}

	return &APIError{Status: status}
}
