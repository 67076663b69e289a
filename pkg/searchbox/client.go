package searchbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Searcher runs one search. Client implements it; tests and embedders may
// provide their own.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Response, error)
}

// Client talks to a nivosearch server over HTTP.
type Client struct {
	http     *http.Client
	endpoint string
	obs      *observer
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	cfg := clientConfig{endpoint: DefaultEndpoint}
	for _, o := range opts {
		o.apply(&cfg)
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("searchbox: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("searchbox: base url %q needs scheme and host", baseURL)
	}
	endpoint, err := base.Parse(base.Path + "/" + strings.TrimLeft(cfg.endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("searchbox: parse endpoint: %w", err)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{http: hc, endpoint: endpoint.String(), obs: obs}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type failure struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Search posts the query as a form and decodes the envelope. A canceled
// ctx surfaces as context.Canceled.
func (c *Client) Search(ctx context.Context, q Query) (_ *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe(q.Text, start, err) }()

	form := url.Values{}
	for k, v := range q.Overrides {
		form.Set(k, v)
	}
	form.Set("s", q.Text)
	if q.PresetID > 0 {
		form.Set("preset_id", strconv.FormatInt(q.PresetID, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("searchbox: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("searchbox: do request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("searchbox: read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ServerError{Status: res.StatusCode, Message: "malformed response"}
	}
	if !env.Success {
		var f failure
		_ = json.Unmarshal(env.Data, &f)
		return nil, &ServerError{Status: res.StatusCode, Code: f.Code, Message: f.Message}
	}

	var out Response
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("searchbox: decode results: %w", err)
	}
	out.Total = -1
	if tc := res.Header.Get("X-Total-Count"); tc != "" {
		if n, convErr := strconv.Atoi(tc); convErr == nil {
			out.Total = n
		}
	}
	return &out, nil
}

// IsAbort reports whether err comes from a superseded or canceled request.
func IsAbort(err error) bool {
	return errors.Is(err, context.Canceled)
}
