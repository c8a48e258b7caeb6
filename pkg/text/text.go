// Package text provides text normalization and layout helpers for search
// keywords and rendered song lists.
package text

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize prepares a user-supplied search keyword: NFKC normalization
// (folds fullwidth forms common in CJK input), whitespace collapsed to
// single spaces, surrounding space trimmed.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Wrap greedily wraps s at width runes per line. Words longer than width
// are broken at rune boundaries, so unspaced CJK titles wrap too.
// A width of zero or less returns s unchanged.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var lines []string
	var line []rune

	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0]
		}
	}

	for _, word := range strings.Fields(s) {
		runes := []rune(word)

		for len(runes) > width {
			flush()
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}

		if len(runes) == 0 {
			continue
		}

		if len(line) == 0 {
			line = append(line, runes...)
			continue
		}

		if len(line)+1+len(runes) <= width {
			line = append(line, ' ')
			line = append(line, runes...)
			continue
		}

		flush()
		line = append(line, runes...)
	}
	flush()

	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n")
}

// FormatDuration renders a track duration as "m:ss", or "h:mm:ss" from one
// hour up. Negative durations render as 0:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
