package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

const defaultTimeout = 10 * time.Second

var ErrNoBaseURL = errors.New("remote: base url is required")

// StatusError is a non-2xx reply from the task service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: %d %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the task service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type Options struct {
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client talks to a task service over the /tasks JSON contract.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *log.Logger
}

func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(opts.Token),
		client:  client,
		logger:  logger,
	}, nil
}

func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Task{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, in model.NewTaskInput) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) Patch(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), patch, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Printf("remote=request method=%s path=%s error=%q", method, path, err)
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read response: %w", err)
	}
	c.logger.Printf("remote=request method=%s path=%s status=%d duration=%s", method, path, resp.StatusCode, time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(resp, respBody)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}

// errorMessage prefers {"error": ...}, then {"detail": ...}, then the raw
// body, then the status text.
func errorMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
