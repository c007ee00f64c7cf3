package quizparse

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoObject = errors.New("no JSON object found in response")

// ExtractJSON locates the quiz document in a provider reply.
//
// The whole reply is tried first. Failing that, the text between the first '{' and
// the last '}' is tried, which recovers replies that wrap the payload in prose or
// code fences. This is a heuristic, not a parser: nested prose containing braces
// defeats it, and callers only ever see the decoded object or an error.
func ExtractJSON(raw string) (map[string]any, error) {
	if obj, err := decodeObject(strings.TrimSpace(raw)); err == nil {
		return obj, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errNoObject
	}
	return decodeObject(raw[start : end+1])
}

func decodeObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNoObject
	}
	return obj, nil
}
