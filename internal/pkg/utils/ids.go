package utils

import (
	"encoding/json"
	"strings"
)

// IDsToString stores a list of opaque ids as a JSON array in a text column.
func IDsToString(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// StringToIDs reads a column written by IDsToString. Comma-separated legacy values are accepted.
func StringToIDs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		ids = nil
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				ids = append(ids, p)
			}
		}
	}
	return ids
}
