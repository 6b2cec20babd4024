// Package client talks to the FoodWagen items API over HTTP and keeps the
// item list a front end renders.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Fraol7/FoodWagen/models"
	"github.com/Fraol7/FoodWagen/validation"
)

const itemsPath = "/api/items"

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	ID         string
	Fields     []validation.FieldError
}

func (e *APIError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("api error %d: %s (id %s)", e.StatusCode, e.Message, e.ID)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Client issues exactly one HTTP request per call. It never retries and
// holds no state besides its configuration.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL, e.g. "http://localhost:3000". A nil
// httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) ListItems(ctx context.Context) ([]models.Food, error) {
	foods := []models.Food{}
	if err := c.do(ctx, http.MethodGet, itemsPath, nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

func (c *Client) GetItem(ctx context.Context, id string) (models.Food, error) {
	var food models.Food
	err := c.do(ctx, http.MethodGet, itemPath(id), nil, &food)
	return food, err
}

func (c *Client) CreateItem(ctx context.Context, in models.FoodInput) (models.Food, error) {
	var food models.Food
	err := c.do(ctx, http.MethodPost, itemsPath, in, &food)
	return food, err
}

func (c *Client) UpdateItem(ctx context.Context, id string, patch models.FoodPatch) (models.Food, error) {
	var food models.Food
	err := c.do(ctx, http.MethodPatch, itemPath(id), patch, &food)
	return food, err
}

func (c *Client) DeleteItem(ctx context.Context, id string) (DeleteResult, error) {
	var res DeleteResult
	err := c.do(ctx, http.MethodDelete, itemPath(id), nil, &res)
	return res, err
}

func itemPath(id string) string {
	return itemsPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) *APIError {
	var body struct {
		Message string                  `json:"message"`
		ID      string                  `json:"id"`
		Fields  []validation.FieldError `json:"fields"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}
	apiErr.Message = body.Message
	apiErr.ID = body.ID
	apiErr.Fields = body.Fields
	return apiErr
}
