package report

import (
	"fmt"

	"github.com/goccy/go-json"
)

// JSON renders the view, including the bi-weekly column the other formats
// omit.
func JSON(v View) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report %s: %w", v.ID, err)
	}
	return data, nil
}
