package logger

import "strings"

// MaskSecret renders a secret as a short preview safe for log output: the
// first four and last four characters with the middle elided. Secrets too
// short to preview are fully redacted.
func MaskSecret(s string) string {
	if len(s) < 12 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + "..." + s[len(s)-4:]
}
