package completion

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/MelanieChenMC/meliora/pkg/errors"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON unmarshals the model's response into out, tolerating the
// usual wrapping: code fences around the payload or prose before and
// after the JSON object. It tries a strict parse first, then the first
// fenced block, then the outermost brace-delimited substring.
func ExtractJSON(raw string, out interface{}) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return errors.New(errors.ErrCodeUpstreamFormat, "empty completion response")
	}

	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return nil
	}

	if match := fencedBlockPattern.FindStringSubmatch(trimmed); match != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), out); err == nil {
			return nil
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), out); err == nil {
			return nil
		}
	}

	return errors.UpstreamFormatError(nil)
}
