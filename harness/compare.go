package harness

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultTolerance is the epsilon used when both compared values are floating point.
const DefaultTolerance = 1e-9

// numeric is a value that takes part in numeric comparison. isFloat is false for Go integer
// types, for JSON numbers that are integral, and for integral text such as "100".
type numeric struct {
	value   float64
	isFloat bool
}

// Equal reports whether expected and actual are the same value.
//
// Numbers, and strings holding a decimal number, are compared by value. Integers must match
// exactly; when both sides are floating point they may differ by at most tolerance. All other
// values are compared as JSON values. An error, which callers pass as the actual value when
// it could not be obtained, never equals anything.
func Equal(expected, actual interface{}, tolerance float64) bool {
	if _, ok := expected.(error); ok {
		return false
	}
	if _, ok := actual.(error); ok {
		return false
	}
	ev, av := toValue(expected), toValue(actual)
	en, eok := asNumeric(ev, av)
	an, aok := asNumeric(av, ev)
	if eok && aok {
		en.isFloat = en.isFloat || isGoFloat(expected)
		an.isFloat = an.isFloat || isGoFloat(actual)
		if en.isFloat && an.isFloat {
			return math.Abs(en.value-an.value) <= tolerance
		}
		return en.value == an.value
	}
	return ev.Equal(av)
}

// asNumeric converts v to a number. Strings are only treated as numbers when the other
// operand is a number or a numeric string, so "KG" never compares numerically.
func asNumeric(v, other ldvalue.Value) (numeric, bool) {
	switch v.Type() {
	case ldvalue.NumberType:
		return numeric{value: v.Float64Value(), isFloat: !v.IsInt()}, true
	case ldvalue.StringType:
		if other.Type() != ldvalue.NumberType && other.Type() != ldvalue.StringType {
			return numeric{}, false
		}
		n, ok := parseDecimal(v.StringValue())
		if !ok {
			return numeric{}, false
		}
		if other.Type() == ldvalue.StringType {
			if _, otherOK := parseDecimal(other.StringValue()); !otherOK {
				return numeric{}, false
			}
		}
		return n, true
	}
	return numeric{}, false
}

func parseDecimal(s string) (numeric, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return numeric{}, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return numeric{value: float64(i)}, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return numeric{}, false
	}
	return numeric{value: f, isFloat: true}, true
}

// toValue converts an arbitrary Go value to an ldvalue.Value.
func toValue(v interface{}) ldvalue.Value {
	switch x := v.(type) {
	case ldvalue.Value:
		return x
	case json.Number:
		if n, ok := parseDecimal(string(x)); ok {
			return ldvalue.Float64(n.value)
		}
		return ldvalue.String(string(x))
	}
	return ldvalue.CopyArbitraryValue(v)
}

// isGoFloat reports whether v is a Go floating point value. ldvalue does not keep that
// distinction, and 1.0 must still count as floating point.
func isGoFloat(v interface{}) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// FormatValue renders a compared value for failure messages.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case ldvalue.Value:
		return x.JSONString()
	case error:
		return x.Error()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
