package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps length. Used for
// free-text inputs like the opening note before they reach the open log.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
