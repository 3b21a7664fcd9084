package devices

import "strings"

// Normalize maps a free-form display string to its canonical lookup key.
// It is applied both when populating the normalized name/brand columns and
// when building search filters, so "Apple", " apple " and "APPLE" all
// match the same stored record.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
