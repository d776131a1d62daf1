package savaged

import (
	"encoding/json"
	"fmt"
)

// ParseList parses one export file: a JSON array of T.
//
// Precondition: data must be a JSON array.
// Postcondition: returns the decoded entries or a non-nil error.
func ParseList[T any](data []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing export list: %w", err)
	}
	return out, nil
}
