package document

import (
	"regexp"
	"strings"
)

// Section is a heading-delimited region of a cleaned document. Body text
// before the first heading gets an empty Heading.
type Section struct {
	Heading string
	Body    string
}

// reHeadingChars matches lines made only of the characters headings use.
var reHeadingChars = regexp.MustCompile(`^[A-Z0-9&\-:()\s]{3,}$`)

// isHeadingLine reports whether a cleaned line is a section heading:
// ALL-CAPS, only heading punctuation, and at least three alphanumerics.
func isHeadingLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if !reHeadingChars.MatchString(s) {
		return false
	}
	if s != strings.ToUpper(s) {
		return false
	}
	alnum := 0
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			alnum++
		}
	}
	return alnum >= 3
}

// SplitSections groups cleaned text into heading-delimited sections,
// preserving document order. Sections with empty bodies are dropped.
func SplitSections(text string) []Section {
	var (
		sections []Section
		heading  string
		buffer   []string
	)

	flush := func() {
		body := strings.TrimSpace(strings.Join(buffer, "\n"))
		if body != "" {
			sections = append(sections, Section{Heading: heading, Body: body})
		}
		buffer = buffer[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if isHeadingLine(line) {
			flush()
			heading = strings.TrimSpace(line)
			continue
		}
		buffer = append(buffer, line)
	}
	flush()

	return sections
}

// Headings returns the distinct section headings in document order.
func Headings(sections []Section) []string {
	seen := make(map[string]bool, len(sections))
	var out []string
	for _, sec := range sections {
		if sec.Heading == "" || seen[sec.Heading] {
			continue
		}
		seen[sec.Heading] = true
		out = append(out, sec.Heading)
	}
	return out
}
