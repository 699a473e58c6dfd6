package parse

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSON decodes the file at path into plain Go values.
func JSON(path string) (any, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse json %s: %w", path, err)
	}
	var v any
	if err := json.Unmarshal(contents, &v); err != nil {
		return nil, fmt.Errorf("parse json %s: %w", path, err)
	}
	return v, nil
}
