package retry

import (
	"context"
	"errors"
	"fmt"

	"github.com/loykin/graphcall/internal/graph"
)

// statusError marks a 5xx response so WithRetry can decide on it.
type statusError struct {
	resp *graph.Response
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server error: status %d", e.resp.Status)
}

// Transport retries idempotent Graph requests that fail at the network level
// or, when enabled, with a 5xx status.
type Transport struct {
	next   graph.Transport
	config *Config
}

var _ graph.Transport = (*Transport)(nil)

// NewTransport wraps next. A nil config uses DefaultRetryConfig.
func NewTransport(next graph.Transport, config *Config) *Transport {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &Transport{next: next, config: config.clamped()}
}

// MakeRequest forwards to the wrapped transport, retrying as configured. When
// every attempt ends in a 5xx the last response is returned without error so
// the caller still interprets it.
func (t *Transport) MakeRequest(ctx context.Context, path string, params graph.Params, verb string, httpOptions map[string]any) (*graph.Response, error) {
	if !t.config.retriesVerb(verb) {
		return t.next.MakeRequest(ctx, path, params, verb, httpOptions)
	}

	var resp *graph.Response
	err := WithRetry(ctx, t.config, func() error {
		r, err := t.next.MakeRequest(ctx, path, params, verb, httpOptions)
		if err != nil {
			return err
		}
		resp = r
		if r != nil && r.Status >= graph.ServerErrorStatus {
			return &statusError{resp: r}
		}
		return nil
	})

	var se *statusError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
