package graph

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// ServerErrorStatus is the lowest status treated as a server failure.
const ServerErrorStatus = 500

// Interpret turns a raw response into the value a Call returns.
//
// The error callback, if any, sees the response first regardless of status.
// A 5xx status yields *APIError. Otherwise the selected component is returned,
// falling back to the JSON-decoded body.
func Interpret(resp *Response, opts CallOptions) (any, error) {
	if opts.ErrorCallback != nil {
		opts.ErrorCallback(resp)
	}

	if resp.Status >= ServerErrorStatus {
		return nil, newAPIError(resp)
	}

	switch opts.Component.kind {
	case componentResponse:
		return resp, nil
	case componentField:
		if v, ok := opts.Component.resolve(resp); ok {
			return v, nil
		}
	}

	return DecodeBody(resp)
}

// DecodeBody decodes the response body as JSON. A blank body decodes to nil
// and a single-element array is unwrapped to its element.
func DecodeBody(resp *Response) (any, error) {
	body := strings.TrimSpace(resp.Body)
	if body == "" {
		return nil, nil
	}
	v, ok := ParseJSON(body)
	if !ok {
		return nil, &ParseError{Status: resp.Status, Body: resp.Body}
	}
	if list, ok := v.([]any); ok && len(list) == 1 {
		return list[0], nil
	}
	return v, nil
}

// ParseJSON decodes s into maps, slices and scalars with json.Number numbers.
// It reports false when s is not valid JSON.
func ParseJSON(s string) (any, bool) {
	if !gjson.Valid(s) {
		return nil, false
	}
	return jsonValue(gjson.Parse(s)), true
}

// jsonValue converts a gjson result into plain Go values. Numbers stay
// json.Number so large object ids survive.
func jsonValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		items := r.Array()
		list := make([]any, 0, len(items))
		for _, item := range items {
			list = append(list, jsonValue(item))
		}
		return list
	}

	obj := map[string]any{}
	r.ForEach(func(key, value gjson.Result) bool {
		obj[key.Str] = jsonValue(value)
		return true
	})
	return obj
}
