package alert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DefaultTitle is used when an alert is sent without a title.
const DefaultTitle = "Alert"

// Alert is one (title, message) pair to broadcast.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Normalize fills in the default title.
func (a Alert) Normalize() Alert {
	if a.Title == "" {
		a.Title = DefaultTitle
	}
	return a
}

// Validate reports whether the alert can be dispatched.
// Go strings cannot be null, so an empty message stands in for a missing one.
func (a Alert) Validate() error {
	if a.Message == "" {
		return Invalid("message", "message is required")
	}
	return nil
}

// FormatText renders an alert for plain-text chat backends.
func FormatText(title, message string) string {
	return "Title: " + title + "\n" + message
}

// DecodeAlert parses a JSON object {"title": ..., "message": ...}.
//
// Unlike json.Unmarshal into Alert, it rejects values of the wrong type
// with a *ValidationError instead of a decoder error, and treats a null
// title as absent.
func DecodeAlert(data []byte) (Alert, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Alert{}, Invalid("body", fmt.Sprintf("expected a JSON object: %v", err))
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Alert{}, Invalid("body", "trailing data after JSON object")
	}
	if raw == nil {
		return Alert{}, Invalid("body", "expected a JSON object, got null")
	}

	var a Alert
	msg, ok := raw["message"]
	if !ok || isNull(msg) {
		return Alert{}, Invalid("message", "message is required")
	}
	if err := json.Unmarshal(msg, &a.Message); err != nil {
		return Alert{}, Invalid("message", "message must be a string, found "+jsonKind(msg))
	}
	if title, ok := raw["title"]; ok && !isNull(title) {
		if err := json.Unmarshal(title, &a.Title); err != nil {
			return Alert{}, Invalid("title", "title must be a string, found "+jsonKind(title))
		}
	}
	if err := a.Validate(); err != nil {
		return Alert{}, err
	}
	return a.Normalize(), nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

func jsonKind(v json.RawMessage) string {
	b := bytes.TrimSpace(v)
	if len(b) == 0 {
		return "nothing"
	}
	switch b[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
