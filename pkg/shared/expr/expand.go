package expr

import (
	"strings"
)

// Expand turns the dotted keys of a flat map into nested maps, {"a.b": 1} becomes {"a": {"b": 1}}.
func Expand(value map[string]interface{}) map[string]interface{} {
	return ExpandPrefixed(value, "")
}

func ExpandPrefixed(value map[string]interface{}, prefix string) map[string]interface{} {
	m := make(map[string]interface{})
	ExpandPrefixedToResult(value, prefix, m)
	return m
}

func ExpandPrefixedToResult(value map[string]interface{}, prefix string, result map[string]interface{}) {
	if prefix != "" {
		prefix += "."
	}
	for k, val := range value {
		if !strings.HasPrefix(k, prefix) {
			continue
		}

		key := k[len(prefix):]
		idx := strings.Index(key, ".")
		if idx != -1 {
			key = key[:idx]
		}
		// It is possible for the map to contain conflicts:
		// {"a.b": 1, "a": 2}
		// What should the result be? We overwrite the less-specific key.
		// {"a.b": 1, "a": 2} -> {"a.b": 1, "a": 2}
		if _, ok := result[key]; ok && idx == -1 {
			continue
		}
		if idx == -1 {
			result[key] = val
			continue
		}

		// It contains a period, so it is a more complex structure
		result[key] = ExpandPrefixed(value, k[:len(prefix)+len(key)])
	}
}
