package domain

import (
	"fmt"
	"strings"
)

// CollapseToDottedKeys flattens a decoded JSON tree into dst using dotted keys under prefix.
// Nested objects extend the key path. Lists of scalars are joined with commas; lists
// containing objects are indexed ("prefix.key.0.field").
func CollapseToDottedKeys(tree map[string]any, prefix string, dst map[string]string) {
	for k, v := range tree {
		collapseValue(joinKey(prefix, k), v, dst)
	}
}

func collapseValue(key string, v any, dst map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		CollapseToDottedKeys(val, key, dst)
	case []any:
		if scalars, ok := scalarList(val); ok {
			dst[key] = strings.Join(scalars, ",")
			return
		}
		for i, item := range val {
			collapseValue(fmt.Sprintf("%s.%d", key, i), item, dst)
		}
	case nil:
		dst[key] = ""
	default:
		dst[key] = scalarString(val)
	}
}

func scalarList(items []any) ([]string, bool) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch item.(type) {
		case map[string]any, []any:
			return nil, false
		}
		out = append(out, scalarString(item))
	}
	return out, true
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; keep integers free of exponent notation.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
