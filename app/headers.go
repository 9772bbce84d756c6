package app

import (
	"encoding/json"
	"fmt"
	"os"
)

type Headers map[string]string

// LoadHeadersFromFile reads a JSON object of header key-value pairs.
// An empty path yields no headers.
func LoadHeadersFromFile(path string) (Headers, error) {
	if path == "" {
		return Headers{}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var headers Headers
	err = json.Unmarshal(content, &headers)
	if err != nil {
		return nil, fmt.Errorf("cannot unmarshal %s file: %w", path, err)
	}

	return headers, nil
}

// Merge returns a copy of h with other applied on top.
func (h Headers) Merge(other Headers) Headers {
	merged := make(Headers, len(h)+len(other))
	for key, value := range h {
		merged[key] = value
	}
	for key, value := range other {
		merged[key] = value
	}

	return merged
}
