package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to an HTTP identity API
type Client struct {
	Endpoint string
	Timeout  time.Duration
}

// NewClient creates a new identity API client
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		Endpoint: endpoint,
		Timeout:  timeout,
	}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Authenticate validates credentials against the identity API
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	return c.post(ctx, "/v1/login", authRequest{Email: email, Password: password}, ErrInvalidCredentials)
}

// Register creates an account through the identity API
func (c *Client) Register(ctx context.Context, email, password, name string) error {
	return c.post(ctx, "/v1/register", authRequest{Email: email, Password: password, Name: name}, ErrAlreadyRegistered)
}

// SendPasswordReset asks the identity API to deliver a reset email
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "/v1/password-reset", authRequest{Email: email}, ErrDeliveryFailed)
}

func (c *Client) post(ctx context.Context, path string, body authRequest, rejection error) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusConflict:
		return rejection
	default:
		return fmt.Errorf("identity API returned status %s", resp.Status)
	}

	var response apiResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&response); err != nil {
		return fmt.Errorf("could not decode identity response: %w", err)
	}
	if !response.OK {
		if response.Error != "" {
			return fmt.Errorf("%w: %s", rejection, response.Error)
		}
		return rejection
	}
	return nil
}
