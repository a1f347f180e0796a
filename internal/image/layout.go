package imagepkg

import (
	"strings"

	"golang.org/x/image/font"
)

// WrapText greedily fills lines with whitespace-separated words so that each
// line measures at most maxWidth pixels in face. A word that is wider than
// maxWidth on its own is kept whole on a line of its own.
func WrapText(text string, face font.Face, maxWidth int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if TextWidth(face, candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// TextWidth returns the advance width of s in whole pixels.
func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}
