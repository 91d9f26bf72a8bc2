package layout

import (
	"regexp"
	"strings"
)

// bulletChars are glyphs used as list bullets
const bulletChars = "•◦▪▫●○■□‣⁃·∙➢➤►▶✓✔"

var (
	// bulletPattern matches a bullet glyph, or a dash or asterisk followed
	// by whitespace
	bulletPattern = regexp.MustCompile(`^\s*(?:[` + bulletChars + `]|[-–—*](?:\s|$))`)

	// numberedPatterns match "1." "2)" "(3)" "a." "iv)" and similar, always
	// followed by whitespace or the end of the line
	numberedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*\(?\d{1,3}[.)](?:\s|$)`),
		regexp.MustCompile(`^\s*\(?[a-zA-Z][.)](?:\s|$)`),
		regexp.MustCompile(`^\s*\(?[ivxlcdmIVXLCDM]{1,6}[.)](?:\s|$)`),
	}

	leadingBullet = regexp.MustCompile(`^\s*(?:[` + bulletChars + `]|[-–—*](?:\s|$))\s*`)
)

// IsListMarker reports whether text begins with a bullet or numbering
// pattern
func IsListMarker(text string) bool {
	if bulletPattern.MatchString(text) {
		return true
	}
	for _, p := range numberedPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// StripBullet removes a leading bullet glyph and the whitespace after it.
// Numbering is kept.
func StripBullet(text string) string {
	return strings.TrimSpace(leadingBullet.ReplaceAllString(text, ""))
}
