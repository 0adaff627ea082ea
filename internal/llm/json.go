package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseableResponse is returned when a completion holds no decodable
// JSON object.
var ErrUnparseableResponse = errors.New("unparseable llm response")

// ExtractJSON decodes the span from the first '{' to the last '}' of text
// into v. Surrounding prose and code fences are ignored.
func ExtractJSON(text string, v any) error {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%w: no JSON object found", ErrUnparseableResponse)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
	}
	return nil
}
