package clients

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

	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// APIError is returned for every non-2xx answer of the external API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: api returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: api returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

// UserMessage is the text shown to the user in a toast.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return "The requested item no longer exists"
		case apiErr.StatusCode == http.StatusUnauthorized:
			return "Your session has expired, please log in again"
		case apiErr.StatusCode == http.StatusForbidden:
			return "You are not allowed to do that"
		case apiErr.StatusCode >= 500:
			return "The shop service is temporarily unavailable"
		}
		return "The request was rejected"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The shop service did not answer in time"
	}
	return "Could not reach the shop service"
}

type tokenKey struct{}

// WithToken stores the bearer token that outgoing API calls should carry.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func newAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *apiClient) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *apiClient) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *apiClient) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.log.Errorf("APIClient: Failed to marshal body for %s %s: %v", method, path, err)
			return fmt.Errorf("failed to prepare request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.log.Errorf("APIClient: Failed to create request %s %s: %v", method, path, err)
		return fmt.Errorf("failed to create api request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debugf("APIClient: %s %s", method, target)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("APIClient: Failed to execute %s %s: %v", method, path, err)
		return fmt.Errorf("failed to communicate with api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("APIClient: Failed to read response of %s %s: %v", method, path, err)
		return fmt.Errorf("failed to read api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    errorMessage(raw),
		}
		if resp.StatusCode >= 500 {
			c.log.Errorf("APIClient: %v", apiErr)
		} else {
			c.log.Warnf("APIClient: %v", apiErr)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrap(raw), out); err != nil {
		c.log.Errorf("APIClient: Failed to decode response of %s %s: %v", method, path, err)
		return fmt.Errorf("failed to decode api response: %w", err)
	}
	return nil
}

// unwrap returns the "data" member of an enveloped response, or the body itself.
func unwrap(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return raw
	}
	return env.Data
}

func errorMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if len(body.Message) > 0 {
		var single string
		if err := json.Unmarshal(body.Message, &single); err == nil && single != "" {
			return single
		}
		var many []string
		if err := json.Unmarshal(body.Message, &many); err == nil && len(many) > 0 {
			return strings.Join(many, "; ")
		}
	}
	return body.Error
}
