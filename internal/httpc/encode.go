package httpc

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/loykin/graphcall/internal/graph"
)

// EncodeParams flattens graph params into string form values. Scalars use
// their literal form and containers are sent as JSON.
func EncodeParams(params graph.Params) (map[string]string, error) {
	out := make(map[string]string, len(params))
	for k, v := range params {
		s, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("encode param %q: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

func encodeValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return val.String(), nil
	case fmt.Stringer:
		return val.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
