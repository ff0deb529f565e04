package harness

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is the result of a completed HTTP call.
//
// If the status was 2xx, the body was parsed as JSON and can be read through the typed lookup
// methods. Otherwise the body is only available as Raw, because error bodies are not
// guaranteed to be well-formed.
type Response struct {
	Method string
	URL    string
	Status int
	Header http.Header
	Raw    []byte

	value  ldvalue.Value
	parsed bool
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// OK returns true if the status was 2xx.
func (r *Response) OK() bool {
	return isSuccess(r.Status)
}

// ErrorDetail returns the raw body of a non-success response, for diagnostics.
func (r *Response) ErrorDetail() string {
	return fmt.Sprintf("HTTP %d: %s", r.Status, strings.TrimSpace(string(r.Raw)))
}

// Value returns the parsed body.
func (r *Response) Value() (ldvalue.Value, error) {
	if !r.parsed {
		return ldvalue.Null(), fmt.Errorf("%s %s: %w (%s)", r.Method, r.URL, ErrNotParsed, r.ErrorDetail())
	}
	return r.value, nil
}

// Field looks up a nested value. Each path element is an object key, or a decimal index when
// the current value is an array. With no path it returns the whole body.
func (r *Response) Field(path ...string) (ldvalue.Value, error) {
	v, err := r.Value()
	if err != nil {
		return v, err
	}
	return lookup(v, path)
}

func lookup(v ldvalue.Value, path []string) (ldvalue.Value, error) {
	for i, key := range path {
		where := strings.Join(path[:i+1], ".")
		switch v.Type() {
		case ldvalue.ObjectType:
			if !hasKey(v, key) {
				return ldvalue.Null(), fmt.Errorf("%q: %w", where, ErrFieldMissing)
			}
			v = v.GetByKey(key)
		case ldvalue.ArrayType:
			index, err := strconv.Atoi(key)
			if err != nil {
				return ldvalue.Null(), fmt.Errorf("%q: %w: %q is not an array index", where, ErrFieldType, key)
			}
			if index < 0 || index >= v.Count() {
				return ldvalue.Null(), fmt.Errorf("%q: %w: index out of range", where, ErrFieldMissing)
			}
			v = v.GetByIndex(index)
		default:
			return ldvalue.Null(), fmt.Errorf("%q: %w: parent is %s", where, ErrFieldMissing, v.Type())
		}
	}
	return v, nil
}

func hasKey(v ldvalue.Value, key string) bool {
	for _, k := range v.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func typeError(path []string, want string, got ldvalue.Value) error {
	return fmt.Errorf("%q: %w: wanted %s, got %s", strings.Join(path, "."), ErrFieldType, want, got.JSONString())
}

// String returns a string field.
func (r *Response) String(path ...string) (string, error) {
	v, err := r.Field(path...)
	if err != nil {
		return "", err
	}
	if v.Type() != ldvalue.StringType {
		return "", typeError(path, "string", v)
	}
	return v.StringValue(), nil
}

// Number returns a numeric field. A string holding a decimal number is accepted, because the
// backend stores several prices and quantities as text.
func (r *Response) Number(path ...string) (float64, error) {
	v, err := r.Field(path...)
	if err != nil {
		return 0, err
	}
	switch v.Type() {
	case ldvalue.NumberType:
		return v.Float64Value(), nil
	case ldvalue.StringType:
		if n, ok := parseDecimal(v.StringValue()); ok {
			return n.value, nil
		}
	}
	return 0, typeError(path, "number", v)
}

// Int returns an integral numeric field.
func (r *Response) Int(path ...string) (int, error) {
	f, err := r.Number(path...)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q: %w: %v is not an integer", strings.Join(path, "."), ErrFieldType, f)
	}
	return int(f), nil
}

func (r *Response) Bool(path ...string) (bool, error) {
	v, err := r.Field(path...)
	if err != nil {
		return false, err
	}
	if v.Type() != ldvalue.BoolType {
		return false, typeError(path, "boolean", v)
	}
	return v.BoolValue(), nil
}

// Len returns the number of elements of an array field, or of the body itself if no path is
// given.
func (r *Response) Len(path ...string) (int, error) {
	v, err := r.Field(path...)
	if err != nil {
		return 0, err
	}
	if v.Type() != ldvalue.ArrayType {
		return 0, typeError(path, "array", v)
	}
	return v.Count(), nil
}

// Items returns the elements of an array field, or of the body itself if no path is given.
func (r *Response) Items(path ...string) ([]ldvalue.Value, error) {
	v, err := r.Field(path...)
	if err != nil {
		return nil, err
	}
	if v.Type() != ldvalue.ArrayType {
		return nil, typeError(path, "array", v)
	}
	ret := make([]ldvalue.Value, 0, v.Count())
	for i := 0; i < v.Count(); i++ {
		ret = append(ret, v.GetByIndex(i))
	}
	return ret, nil
}

// Lookup reads a nested field out of a value obtained from Items or Field, with the same
// rules as Response.Field.
func Lookup(v ldvalue.Value, path ...string) (ldvalue.Value, error) {
	return lookup(v, path)
}
