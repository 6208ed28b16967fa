package domain

import "time"

// ToWire renders a local wall-clock instant as the ISO-8601 UTC string the API expects.
func ToWire(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FromWire parses an API timestamp into local wall-clock time.
func FromWire(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
