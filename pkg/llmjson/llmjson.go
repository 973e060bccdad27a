// Package llmjson extracts JSON payloads from language model replies.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmpty = errors.New("llmjson: empty response")

// Clean removes markdown code fences (```json and ```) and surrounding whitespace.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// Unmarshal cleans text and decodes it into v.
func Unmarshal(text string, v any) error {
	cleaned := Clean(text)
	if cleaned == "" {
		return ErrEmpty
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("llmjson: decode: %w", err)
	}
	return nil
}
