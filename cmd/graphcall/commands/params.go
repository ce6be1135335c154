package commands

import (
	"fmt"

	"github.com/loykin/graphcall"
	"github.com/loykin/graphcall/internal/graph"
	"github.com/loykin/graphcall/internal/util"
)

// ParseParams builds call parameters from key=value pairs. A key given more
// than once becomes a list, which the client joins with commas.
func ParseParams(pairs []string) (graphcall.Params, error) {
	params := graphcall.Params{}
	for _, pair := range pairs {
		key, value, err := util.SplitKeyValue(pair)
		if err != nil {
			return nil, fmt.Errorf("invalid --param: %w", err)
		}
		addParam(params, key, value)
	}
	return params, nil
}

// ParseJSONParams merges key=<json> pairs into params. Objects and arrays are
// sent JSON-encoded.
func ParseJSONParams(params graphcall.Params, pairs []string) error {
	for _, pair := range pairs {
		key, raw, err := util.SplitKeyValue(pair)
		if err != nil {
			return fmt.Errorf("invalid --json-param: %w", err)
		}
		v, ok := graph.ParseJSON(raw)
		if !ok {
			return fmt.Errorf("invalid --json-param %s: not valid JSON: %q", key, raw)
		}
		params[key] = v
	}
	return nil
}

func addParam(params graphcall.Params, key, value string) {
	existing, ok := params[key]
	if !ok {
		params[key] = value
		return
	}
	if list, isList := existing.([]any); isList {
		params[key] = append(list, value)
		return
	}
	params[key] = []any{existing, value}
}
