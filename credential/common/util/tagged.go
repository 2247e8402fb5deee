package util

import (
	"encoding/json"
	"fmt"
)

// MarshalTagged encodes v as an externally tagged value: {"<tag>": v}.
func MarshalTagged(tag string, v interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{tag: v})
}

// UnmarshalTagged splits an externally tagged value into its tag and body.
func UnmarshalTagged(data []byte) (string, json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, fmt.Errorf("failed to decode tagged value: %w", err)
	}
	if len(m) != 1 {
		return "", nil, fmt.Errorf("tagged value must have exactly one key, got %d", len(m))
	}
	for tag, body := range m {
		return tag, body, nil
	}
	return "", nil, nil
}
