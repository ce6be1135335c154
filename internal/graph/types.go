package graph

import (
	"context"
	"net/http"
)

// Params holds the parameters of a single Graph call.
type Params map[string]any

// Response is the raw result handed back by a Transport. It is never mutated
// after the transport returns it.
type Response struct {
	Status  int
	Body    string
	Headers http.Header
}

// NewResponse builds a Response from its parts.
func NewResponse(status int, body string, headers http.Header) *Response {
	return &Response{Status: status, Body: body, Headers: headers}
}

// Transport performs the network round trip for a prepared call.
type Transport interface {
	MakeRequest(ctx context.Context, path string, params Params, verb string, httpOptions map[string]any) (*Response, error)
}

// TransportFunc adapts a plain function to the Transport interface.
type TransportFunc func(ctx context.Context, path string, params Params, verb string, httpOptions map[string]any) (*Response, error)

func (f TransportFunc) MakeRequest(ctx context.Context, path string, params Params, verb string, httpOptions map[string]any) (*Response, error) {
	return f(ctx, path, params, verb, httpOptions)
}
