package util

import (
	"fmt"
)

// JSONMap represents a JSON object as a map.
type JSONMap = map[string]interface{}

// MapSlice transforms a slice of type T to a slice of type U using a mapping function.
func MapSlice[T any, U any](slice []T, mapFn func(T) U) []U {
	result := make([]U, 0, len(slice))
	for _, v := range slice {
		result = append(result, mapFn(v))
	}
	return result
}

// SerializeContexts validates and converts a slice of JSON-LD context entries.
func SerializeContexts(contexts []interface{}) ([]interface{}, error) {
	if len(contexts) == 0 {
		return nil, fmt.Errorf("failed to validate context: at least one context is required")
	}

	validated := make([]interface{}, 0, len(contexts))
	for i, ctx := range contexts {
		if ctx == nil {
			return nil, fmt.Errorf("failed to validate context: context entry at index %d is nil", i)
		}
		switch v := ctx.(type) {
		case string:
			if v == "" {
				return nil, fmt.Errorf("failed to validate context: context string at index %d is empty", i)
			}
			validated = append(validated, v)
		case JSONMap:
			if _, hasContext := v["@context"]; hasContext {
				return nil, fmt.Errorf("failed to validate context: context object at index %d must not contain nested @context", i)
			}
			for key, value := range v {
				if key == "" {
					return nil, fmt.Errorf("failed to validate context: context object at index %d has empty key", i)
				}
				if str, ok := value.(string); ok && str == "" {
					return nil, fmt.Errorf("failed to validate context: context object at index %d has empty string value for key %q", i, key)
				}
			}
			validated = append(validated, v)
		default:
			return nil, fmt.Errorf("failed to validate context: invalid context entry at index %d: must be string or map, got %T", i, v)
		}
	}
	return validated, nil
}
