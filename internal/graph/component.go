package graph

import (
	"net/http"
	"strings"
)

type componentKind int

const (
	componentDefault componentKind = iota
	componentResponse
	componentField
)

// Component selects which part of the raw response a call returns.
type Component struct {
	kind  componentKind
	field string
}

var (
	// ComponentDefault returns the JSON-decoded body.
	ComponentDefault = Component{}
	// ComponentResponse returns the raw *Response.
	ComponentResponse = Component{kind: componentResponse}
)

// ComponentField returns the named response field (status, body or headers).
func ComponentField(name string) Component {
	return Component{kind: componentField, field: strings.ToLower(strings.TrimSpace(name))}
}

// ParseComponent maps a user supplied name onto a Component.
func ParseComponent(s string) Component {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ComponentDefault
	case "response":
		return ComponentResponse
	default:
		return ComponentField(s)
	}
}

func (c Component) String() string {
	switch c.kind {
	case componentResponse:
		return "response"
	case componentField:
		return c.field
	default:
		return ""
	}
}

// IsDefault reports whether c selects the decoded body.
func (c Component) IsDefault() bool { return c.kind == componentDefault }

// responseFields is the accessor table for ComponentField.
var responseFields = map[string]func(*Response) any{
	"status":  func(r *Response) any { return r.Status },
	"body":    func(r *Response) any { return r.Body },
	"headers": func(r *Response) any { return headersOrEmpty(r.Headers) },
}

// resolve looks the field up on resp. ok is false for names the table does not know.
func (c Component) resolve(resp *Response) (any, bool) {
	if c.kind != componentField {
		return nil, false
	}
	get, ok := responseFields[c.field]
	if !ok {
		return nil, false
	}
	return get(resp), true
}

func headersOrEmpty(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	return h
}
