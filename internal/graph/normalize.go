package graph

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// NormalizePath makes sure path starts with a slash.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// NormalizeParams returns a copy of params in which every list made only of
// scalars is replaced by its elements joined with commas. Lists holding a
// nested list or map are left as they are for the transport to deal with.
func NormalizeParams(params Params) Params {
	out := make(Params, len(params))
	for k, v := range params {
		if joined, ok := joinScalarList(v); ok {
			out[k] = joined
			continue
		}
		out[k] = v
	}
	return out
}

// NormalizeArgs applies NormalizePath and NormalizeParams.
func NormalizeArgs(path string, params Params) (string, Params) {
	return NormalizePath(path), NormalizeParams(params)
}

func joinScalarList(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		// raw bytes are a single value
		return "", false
	}

	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		for elem.Kind() == reflect.Interface || elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				break
			}
			elem = elem.Elem()
		}
		if isContainer(elem) {
			return "", false
		}
		parts = append(parts, scalarString(elem))
	}
	return strings.Join(parts, ","), true
}

func isContainer(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		return v.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// scalarString renders v the way it would be written literally.
func scalarString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && v.IsNil() {
		return ""
	}
	if v.CanInterface() {
		switch val := v.Interface().(type) {
		case string:
			return val
		case []byte:
			return string(val)
		case fmt.Stringer:
			return val.String()
		case error:
			return val.Error()
		}
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v.Interface())
	}
}
