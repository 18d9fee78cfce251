// Package ingestion stores uploaded candidate documents and converts them to plain text.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpacePattern  = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRunPattern    = regexp.MustCompile(`\n\n\n+`)
	bulletGlyphPattern = regexp.MustCompile(`^[•·▪◦●■]\s*`)
)

// CleanText normalizes extracted document text while keeping its line structure.
// Section heuristics downstream rely on one logical entry per line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ToValidUTF8(content, "")
	content = strings.ReplaceAll(content, "\x00", "")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankRunPattern.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace and rewrites bullet glyphs to "- "
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	if bulletGlyphPattern.MatchString(trimmed) {
		trimmed = "- " + bulletGlyphPattern.ReplaceAllString(trimmed, "")
	}

	return multiSpacePattern.ReplaceAllString(trimmed, " ")
}
