package apiclient

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type requestExecutor struct {
	transport Transport
	logger    zerolog.Logger
}

// execute issues exactly one GET for ep. A non-2xx status is not a failure:
// the API reports logical errors in the body, which the decoder handles.
func (x *requestExecutor) execute(ctx context.Context, ep *Endpoint) (*Response, error) {
	redacted := ep.Redacted()
	x.logger.Debug().Str("url", redacted).Msg("sending API request")

	start := time.Now()
	resp, err := x.transport.Get(ctx, ep.URL())
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redacted
		}
		x.logger.Warn().Err(err).Str("url", redacted).Msg("API request failed")
		return nil, &TransportError{URL: redacted, Err: err}
	}
	if resp == nil {
		return nil, &TransportError{URL: redacted, Err: errors.New("transport returned no response")}
	}

	event := x.logger.Debug()
	if resp.StatusCode >= 400 {
		event = x.logger.Info()
	}
	event.Str("url", redacted).
		Int("status", resp.StatusCode).
		Int("bytes", len(resp.Body)).
		Dur("took", time.Since(start)).
		Msg("received API response")

	return resp, nil
}
