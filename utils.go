package cdx

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"www.velocidex.com/golang/vfilter"
)

func to_int64(x interface{}) (int64, bool) {
	switch t := x.(type) {
	case bool:
		if t {
			return 1, true
		} else {
			return 0, true
		}
	case int:
		return int64(t), true
	case uint8:
		return int64(t), true
	case int8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case int16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true

	default:
		return 0, false
	}
}

func to_float64(x interface{}) (float64, bool) {
	switch t := x.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		i, ok := to_int64(x)
		return float64(i), ok
	}
}

// Tags may be written as integers or as strings such as "0x8000".
func to_tag(x interface{}) (uint16, error) {
	var value int64

	switch t := x.(type) {
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(t), 0, 16)
		if err != nil {
			return 0, fmt.Errorf("tag %q: %w", t, err)
		}
		return uint16(parsed), nil

	default:
		var ok bool
		value, ok = to_int64(x)
		if !ok {
			return 0, fmt.Errorf("tag should be an integer not %T", x)
		}
	}

	if value < 0 || value > 0xFFFF {
		return 0, fmt.Errorf("tag %#x does not fit in 16 bits", value)
	}
	return uint16(value), nil
}

func to_string_list(x interface{}) ([]string, bool) {
	switch t := x.(type) {
	case []string:
		return t, true

	case string:
		return []string{t}, true

	case []interface{}:
		result := make([]string, 0, len(t))
		for _, item := range t {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, str)
		}
		return result, true

	default:
		return nil, false
	}
}

func sortedKeys(dict map[string]interface{}) []string {
	result := make([]string, 0, len(dict))
	for k := range dict {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

func formatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func joinKinds(kinds []string) string {
	return "[" + strings.Join(kinds, ", ") + "]"
}

// Some helpers

func SizeOf(obj interface{}) int {
	sizer, ok := obj.(Sizer)
	if ok {
		return sizer.Size()
	}
	return 0
}

// Associative walks a dotted path such as "Children.0.Name" through
// the scope's protocols.
func Associative(scope vfilter.Scope, a vfilter.Any, field string) vfilter.Any {
	var result vfilter.Any = a
	var ok bool

	for _, item := range strings.Split(field, ".") {
		result, ok = scope.Associative(result, item)
		if !ok {
			return vfilter.Null{}
		}
	}
	return result
}

// We need to do this stupid check because Go does not allow
// comparison to nil with interfaces.
func IsNil(v interface{}) bool {
	if v == nil {
		return true
	}

	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return value.IsNil()
	}

	_, ok := v.(vfilter.Null)
	return ok
}

func to_index(x string) (int, bool) {
	idx, err := strconv.Atoi(x)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
