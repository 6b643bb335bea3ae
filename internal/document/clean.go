package document

import (
	"regexp"
	"strings"
)

// Cleanup patterns for text extracted from vendor PDF guides. The guides
// repeat a copyright footer and the vendor URL on every page, number each
// page on its own line, and render headings with a space between every
// letter ("C O L L I D E R S").
var (
	reCopyrightFooter = regexp.MustCompile(`(?i)©\s*\d{4}\s*Unity\s*Technologies.*?unity\s*\.com`)
	reGuideFooter     = regexp.MustCompile(`(?i)Unity .*?Guide`)
	reVendorURL       = regexp.MustCompile(`(?i)unity\s*\.com`)
	rePageNumber      = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	reBullet          = regexp.MustCompile("[•●]")
	reSpacedHeading   = regexp.MustCompile(`(?:[A-Z]\s+){2,}[A-Z](?:\s|$)`)
	reBlankRuns       = regexp.MustCompile(`\n{3,}`)
	reDoubleSpace     = regexp.MustCompile(` {2,}`)
)

// Clean normalizes raw page text for heading detection and chunking:
// footers, page numbers and bullet glyphs are removed, spaced-out
// ALL-CAPS headings are joined onto their own line, blank runs and
// doubled spaces are squeezed.
func Clean(text string) string {
	text = reCopyrightFooter.ReplaceAllString(text, "")
	text = reGuideFooter.ReplaceAllString(text, "")
	text = reVendorURL.ReplaceAllString(text, "")
	text = rePageNumber.ReplaceAllString(text, "")
	text = reBullet.ReplaceAllString(text, "")

	text = reSpacedHeading.ReplaceAllStringFunc(text, func(m string) string {
		var b strings.Builder
		for _, r := range m {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				b.WriteRune(r)
			}
		}
		return b.String() + "\n\n"
	})

	text = reBlankRuns.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = reDoubleSpace.ReplaceAllString(strings.TrimSpace(line), " ")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// CleanPages cleans each extracted page and joins the non-empty results
// with blank lines, preserving page boundaries for heading detection.
func CleanPages(pages []string) string {
	cleaned := make([]string, 0, len(pages))
	for _, page := range pages {
		if c := Clean(page); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.Join(cleaned, "\n\n")
}
