package parser

import (
	"regexp"
	"strings"
)

// FieldSeparator joins fields the page spread over several lines.
const FieldSeparator = "\t"

var (
	// The page prints ride dates as MM/DD/YY; every occurrence starts a ride.
	datePattern = regexp.MustCompile(`[0-9]{2}/[0-9]{2}/[0-9]{2}`)
	spaceRuns   = regexp.MustCompile(` {2,}`)
)

// Prepare flattens the pasted page into a single separator-delimited string.
// Lines are only trimmed on the left: a trailing tab is an empty field.
// Blank lines disappear and runs of spaces collapse to one.
func Prepare(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	b.Grow(len(text))
	for i, line := range lines {
		line = strings.TrimLeft(strings.TrimSuffix(line, "\r"), " \t\v\f")
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString(FieldSeparator)
		}
	}
	return spaceRuns.ReplaceAllString(b.String(), " ")
}

// Segment splits prepared text into one chunk per ride. A chunk starts at a
// date token and runs up to the next one; the last chunk runs to the end.
// Anything before the first date is dropped. Text without a single date is
// returned whole so the caller can report it.
func Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	locs := datePattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	records := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		records = append(records, text[loc[0]:end])
	}
	return records
}

// Tokenize trims a record and splits it on the field separator.
func Tokenize(record string) []string {
	return strings.Split(strings.TrimSpace(record), FieldSeparator)
}
