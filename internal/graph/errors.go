package graph

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformedJSON is wrapped by ParseError when a body is not valid JSON.
var ErrMalformedJSON = errors.New("graph: malformed JSON body")

// APIError is returned when the Graph server answers with a 5xx status.
// Status and Body are always set; the remaining fields are filled from the
// body's "error" object when it has one.
type APIError struct {
	Status    int
	Body      string
	Type      string
	Message   string
	Code      int
	Subcode   int
	FBTraceID string
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		if e.Type != "" {
			return fmt.Sprintf("graph: status %d: %s: %s (code %d)", e.Status, e.Type, e.Message, e.Code)
		}
		return fmt.Sprintf("graph: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("graph: server error (status %d): %s", e.Status, e.Body)
}

// newAPIError builds an APIError, pulling Graph error details out of body.
func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{Status: resp.Status, Body: resp.Body}
	if !gjson.Valid(resp.Body) {
		return apiErr
	}
	e := gjson.Get(resp.Body, "error")
	if !e.IsObject() {
		return apiErr
	}
	apiErr.Type = e.Get("type").String()
	apiErr.Message = e.Get("message").String()
	apiErr.Code = int(e.Get("code").Int())
	apiErr.Subcode = int(e.Get("error_subcode").Int())
	apiErr.FBTraceID = e.Get("fbtrace_id").String()
	return apiErr
}

// ParseError reports a body that could not be decoded.
type ParseError struct {
	Status int
	Body   string
}

func (e *ParseError) Error() string {
	body := e.Body
	if len(body) > 64 {
		body = body[:64] + "..."
	}
	return fmt.Sprintf("%s (status %d): %q", ErrMalformedJSON.Error(), e.Status, body)
}

func (e *ParseError) Unwrap() error { return ErrMalformedJSON }

// IsServerError reports whether err is (or wraps) an *APIError.
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
