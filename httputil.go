package dogefolio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// contains http utils to deal with remote services

// UserAgent is sent with every request; some community feeds reject anonymous clients.
const UserAgent = "dogefolio/1.0 (+https://github.com/etnz/dogefolio)"

// throttle implements a rate limited, logging http.RoundTripper.
type throttle struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

func (t *throttle) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Debugw("http", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "error", err)
		return nil, err
	}
	t.log.Debugw("http", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "status", resp.Status, "elapsed", time.Since(start))
	return resp, nil
}

// NewHTTPClient returns a client that issues at most perSecond requests per second
// (bursting to burst) and logs every round trip at debug level.
func NewHTTPClient(timeout time.Duration, perSecond float64, burst int, log *zap.SugaredLogger) *http.Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &throttle{
			base:    http.DefaultTransport,
			limiter: rate.NewLimiter(limit, burst),
			log:     log,
		},
	}
}

// Fetch performs an HTTP GET and returns the body. Any transport failure or non 200 status
// is returned as a *NetworkError.
func Fetch(ctx context.Context, client *http.Client, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, &NetworkError{URL: addr, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: addr, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: resp.Request.URL.Host + resp.Request.URL.Path, Status: resp.StatusCode}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, &NetworkError{URL: addr, Err: err}
	}
	return buf.Bytes(), nil
}

// FetchJSON performs an HTTP GET and unmarshals the JSON response into data.
// A body that is not valid JSON for data is returned as a *SchemaError.
func FetchJSON(ctx context.Context, client *http.Client, addr, source string, data any) error {
	body, err := Fetch(ctx, client, addr)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		return &SchemaError{Source: source, Err: err}
	}
	return nil
}
