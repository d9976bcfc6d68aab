package apiclient

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Response is the raw result of one GET.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs a single GET and returns the body, or fails.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url string) (*Response, error)

func (f TransportFunc) Get(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// HTTPTransport is the net/http backed Transport. A limiter, when set, is
// waited on before every request.
type HTTPTransport struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPTransport returns a transport with the given request timeout. A
// requestsPerSecond of zero or less disables throttling.
func NewHTTPTransport(timeout time.Duration, requestsPerSecond float64) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: &http.Client{Timeout: timeout},
	}
	if requestsPerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return t
}

func (t *HTTPTransport) Get(ctx context.Context, url string) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "failure waiting for rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failure creating request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failure sending request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failure reading response body")
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
