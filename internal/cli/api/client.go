package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIKeyHeader: заголовок с ключом доступа к серверу синхронизации.
const APIKeyHeader = "X-API-Key"

// DefaultTimeout: таймаут HTTP-клиента по умолчанию.
const DefaultTimeout = 15 * time.Second

// Envelope: общий формат ответа сервера.
type Envelope struct {
	Success   bool    `json:"success"`
	Data      *string `json:"data,omitempty"`
	Error     string  `json:"error,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// PutRequest: тело запроса на сохранение блоба.
type PutRequest struct {
	VaultID string `json:"vaultId,omitempty"`
	Data    string `json:"data"`
}

// Client: HTTP-клиент сервера синхронизации (opaque blob store).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient создаёт клиента. timeout <= 0: DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch возвращает сохранённый шифротекст хранилища. found=false, если блоба нет.
func (c *Client) Fetch(ctx context.Context, vaultID string) (string, bool, error) {
	var env Envelope
	if err := c.do(ctx, "fetch", http.MethodGet, c.syncURL(vaultID), nil, &env); err != nil {
		return "", false, err
	}
	if env.Data == nil || *env.Data == "" {
		return "", false, nil
	}
	return *env.Data, true, nil
}

// Put сохраняет шифротекст, заменяя предыдущий.
func (c *Client) Put(ctx context.Context, vaultID, ciphertext string) error {
	return c.do(ctx, "put", http.MethodPost, c.syncURL(vaultID), PutRequest{VaultID: vaultID, Data: ciphertext}, nil)
}

// Delete удаляет блоб хранилища на сервере.
func (c *Client) Delete(ctx context.Context, vaultID string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.syncURL(vaultID), nil, nil)
}

// Health проверяет доступность сервера (без авторизации).
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, c.baseURL+"/health", nil, nil)
}

func (c *Client) syncURL(vaultID string) string {
	return c.baseURL + "/api/sync?vaultId=" + url.QueryEscape(vaultID)
}

func (c *Client) do(ctx context.Context, op, method, u string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: ErrUnauthorized}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(serverMessage(raw, resp.Status))}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// serverMessage достаёт поле error из ответа, иначе возвращает статус.
func serverMessage(raw []byte, status string) string {
	var env Envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		return env.Error
	}
	return status
}
