package dispatch

import (
	"encoding/json"
	"strings"

	"smartsdlc/internal/models"
)

// ExtractClassification locates the first { and the last } in free-form
// model text, parses the slice as JSON, and falls back to a tagged failure
// carrying the raw text. The two stages are deliberate: the candidate slice
// and the strict parse fail independently and both fallbacks are testable.
func ExtractClassification(text string) models.Classification {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return models.Classification{
			Error:       "no valid JSON found in response",
			RawResponse: text,
		}
	}

	var categories map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &categories); err != nil {
		return models.Classification{
			Error:       "failed to parse classification",
			RawResponse: text,
		}
	}

	return models.Classification{Categories: categories}
}
