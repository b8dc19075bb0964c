// internal/models/ids.go
package models

import (
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectID reports whether value has the upstream identifier format
// (24 hexadecimal characters).
func IsObjectID(value string) bool {
	return objectIDRegex.MatchString(strings.TrimSpace(value))
}

// rawIDString accepts an identifier encoded either as a JSON string or a
// JSON number.
func rawIDString(raw jsoniter.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n jsoniter.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
