package normalize

import "strings"

var keyReplacer = strings.NewReplacer("/", "_", "\\", "_")

// Key sanitizes an externally sourced identifier for use as a storage key.
// Path separators would otherwise corrupt document paths downstream.
func Key(raw string) string {
	return keyReplacer.Replace(strings.TrimSpace(raw))
}
