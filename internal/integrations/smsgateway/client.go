package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config параметры подключения к шлюзу уведомлений
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	SenderID     string
	Timeout      time.Duration
}

// Client клиент шлюза SMS-уведомлений
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента шлюза
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// FetchToken получает токен доступа. Токен запрашивается один раз на запуск планировщика.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(TokenRequest{ClientID: c.cfg.ClientID, ClientSecret: c.cfg.ClientSecret})
	if err != nil {
		return "", fmt.Errorf("%w: marshal token request: %v", ErrInternal, err)
	}

	resp, err := c.post(ctx, "/oauth/token", "", body)
	if err != nil {
		return "", fmt.Errorf("%w: FetchToken: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	default:
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: FetchToken - unexpected status code %d: %s", ErrUnavailable, resp.StatusCode, string(raw))
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: FetchToken - decode response: %v", ErrUnavailable, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: FetchToken - empty access token", ErrUnavailable)
	}

	return token.AccessToken, nil
}

// Send отправляет SMS на номер phone
func (c *Client) Send(ctx context.Context, token, phone, message string) error {
	body, err := json.Marshal(SendRequest{To: phone, Message: message, SenderID: c.cfg.SenderID})
	if err != nil {
		return fmt.Errorf("%w: marshal send request: %v", ErrInternal, err)
	}

	resp, err := c.post(ctx, "/messages", token, body)
	if err != nil {
		return fmt.Errorf("%w: Send: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: Send - unexpected status code %d: %s", ErrSendFailed, resp.StatusCode, string(raw))
	}
}

func (c *Client) post(ctx context.Context, path, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}
