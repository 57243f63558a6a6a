package wp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to a WordPress site's REST API (/wp-json/wp/v2), authenticated
// with an application password. It is a deliberately thin wrapper: one JSON
// request in, one JSON payload or error out.
type Client struct {
	baseURL     *url.URL
	username    string
	appPassword string
	http        *http.Client
	log         *zap.Logger
}

// Config holds the connection settings for one site.
type Config struct {
	BaseURL     string
	Username    string
	AppPassword string
}

func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}
	return &Client{
		baseURL:     base,
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		http:        httpClient,
		log:         logger,
	}, nil
}

// APIError is a non-2xx answer from the REST API. Code carries WordPress'
// machine-readable error code when the body was parseable.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wordpress API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("wordpress API error %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the error represents a missing resource. The REST
// API answers some missing-route cases with 404 rest_no_route and others
// with rest_post_invalid_id.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Do performs one REST call. path is relative to /wp-json, e.g.
// "/wp/v2/posts/42". A non-nil body is sent as JSON. The raw response body
// is returned for the caller to decode.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/wp-json" + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.appPassword)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.Debug("wordpress request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("requestId", requestID),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
		var detail struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(payload, &detail) == nil && detail.Code != "" {
			apiErr.Code = detail.Code
			apiErr.Message = detail.Message
		}
		return nil, apiErr
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	payload, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := c.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}
