package helpers

const ellipsis = "..."

// Truncate shortens s to at most n runes, ending with "..." when truncation occurs.
// For n shorter than the ellipsis, the first n runes are returned as is.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string(runes[:n])
	}
	return string(runes[:n-len(ellipsis)]) + ellipsis
}
