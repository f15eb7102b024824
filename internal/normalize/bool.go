package normalize

import "strings"

// Boolean collapses the truthy encodings that appear in upstream CRM
// exports ("checked", "Checked", true, "true", 1, "1", "yes") into a
// single bool. Applied once at load time so a new encoding is added here
// instead of at every comparison site.
func Boolean(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "checked", "yes", "y", "1":
			return true
		}
	}
	return false
}
