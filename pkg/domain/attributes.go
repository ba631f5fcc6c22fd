package domain

import (
	"fmt"
	"sort"
)

// Attributes holds free-form ODIM metadata keyed "group/name", e.g.
// "how/wavelength". Values are string, int64, float64 or []float64.
type Attributes map[string]any

// Set stores value under key, rejecting unsupported value types.
func (a Attributes) Set(key string, value any) error {
	switch v := value.(type) {
	case string, int64, float64, []float64:
		a[key] = v
	case int:
		a[key] = int64(v)
	case float32:
		a[key] = float64(v)
	default:
		return fmt.Errorf("attribute %s: unsupported type %T", key, value)
	}
	return nil
}

// Keys returns attribute names in lexical order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns the attribute as float64 when it is numeric.
func (a Attributes) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// String returns the attribute when it is a string.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}
