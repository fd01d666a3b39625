package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hr-console/internal/shared/contextutil"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client is the one configured HTTP client shared by every resource facade. It carries no
// mutable state after construction.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

func New(cfg Config, logger ...*zap.Logger) *Client {
	l := zap.L().Named("apiclient")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("apiclient")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{http: rc, logger: l}
}

// BaseURL reports the configured API root.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Do performs exactly one request. On 2xx the body is decoded into out (when out is
// non-nil); every other outcome comes back as *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, c.logger)

	r := c.http.R().SetContext(ctx)
	if rid != "" {
		r.SetHeader("X-Request-ID", rid)
	}
	if q := compactQuery(req.Query); len(q) > 0 {
		r.SetQueryParams(q)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	log.Debug("hr api request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Any("query", req.Query),
	)

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		apiErr := fromTransport(err)
		log.Warn("hr api transport failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Bool("timeout", apiErr.IsTimeout()),
			zap.Error(err),
		)
		return apiErr
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		apiErr := fromResponse(status, decodeErrorPayload(resp.Body()))
		log.Warn("hr api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status", status),
			zap.String("message", apiErr.FriendlyMessage),
			zap.Int("field_errors", len(apiErr.Errors)),
		)
		return apiErr
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			log.Error("hr api decode failed",
				zap.String("path", req.Path),
				zap.Error(err),
			)
			return &Error{
				StatusCode:      status,
				FriendlyMessage: fmt.Sprintf("Unexpected response from %s", req.Path),
				Err:             err,
			}
		}
	}

	log.Debug("hr api response",
		zap.String("path", req.Path),
		zap.Int("status", status),
		zap.Duration("elapsed", resp.Time()),
	)
	return nil
}

func (c *Client) Get(ctx context.Context, path string, query map[string]string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

func compactQuery(q map[string]string) map[string]string {
	if len(q) == 0 {
		return nil
	}
	out := make(map[string]string, len(q))
	for k, v := range q {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// decodeErrorPayload tolerates bodies that are not JSON and "errors" maps whose values are
// plain strings instead of lists.
func decodeErrorPayload(body []byte) errorPayload {
	var raw struct {
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
		Errors  json.RawMessage `json:"errors"`
	}
	if len(body) == 0 || json.Unmarshal(body, &raw) != nil {
		return errorPayload{}
	}

	p := errorPayload{Message: raw.Message, Detail: raw.Detail}
	if len(raw.Errors) == 0 {
		return p
	}

	var lists map[string][]string
	if err := json.Unmarshal(raw.Errors, &lists); err == nil {
		p.Errors = lists
		return p
	}

	var singles map[string]string
	if err := json.Unmarshal(raw.Errors, &singles); err == nil {
		p.Errors = make(map[string][]string, len(singles))
		for k, v := range singles {
			p.Errors[k] = []string{v}
		}
	}
	return p
}
