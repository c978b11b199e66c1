package scholar

import "strings"

const maxFilenameLen = 150

// filename-hostile characters on common filesystems
const unsafeFilenameChars = `<>:"/\|?*`

// SanitizeFilename derives a filesystem-safe name from free text:
// unsafe characters are stripped, surrounding whitespace trimmed,
// interior spaces replaced with underscores, and the result truncated.
// Sanitizing an already-sanitized name is a no-op.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(unsafeFilenameChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if runes := []rune(cleaned); len(runes) > maxFilenameLen {
		cleaned = string(runes[:maxFilenameLen])
	}
	return cleaned
}
