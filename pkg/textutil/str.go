package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// DefaultPattern separates words: one or more non-word characters.
const DefaultPattern = `\W+`

// Split splits s around every match of pattern. An empty pattern means
// DefaultPattern.
func Split(s, pattern string) ([]string, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return re.Split(s, -1), nil
}

// LStrip removes the leading run of pattern matches from s.
func LStrip(s, pattern string) (string, error) {
	re, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return regexp.MustCompile(`^(?:` + re.String() + `)+`).ReplaceAllString(s, ""), nil
}

// RStrip removes the trailing run of pattern matches from s.
func RStrip(s, pattern string) (string, error) {
	re, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return regexp.MustCompile(`(?:` + re.String() + `)+$`).ReplaceAllString(s, ""), nil
}

// Strip trims both ends of s by pattern.
func Strip(s, pattern string) (string, error) {
	out, err := LStrip(s, pattern)
	if err != nil {
		return "", err
	}
	return RStrip(out, pattern)
}

// Capitalize upper-cases the first letter of every word in s, where words
// are the chunks between DefaultPattern separators; separators are kept.
func Capitalize(s string) string {
	re := regexp.MustCompile(DefaultPattern)
	var b strings.Builder
	last := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		b.WriteString(capitalizeWord(s[last:m[0]]))
		b.WriteString(s[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(capitalizeWord(s[last:]))
	return b.String()
}

func capitalizeWord(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ParseDate parses a date out of a noisy string: non-word edges are stripped
// and the remainder truncated to the rendered length of layout before
// parsing, so trailing garbage after the date is ignored.
func ParseDate(s, layout string) (time.Time, error) {
	stripped, err := Strip(s, DefaultPattern)
	if err != nil {
		return time.Time{}, err
	}
	n := len(time.Now().Format(layout))
	if len(stripped) > n {
		stripped = stripped[:n]
	}
	t, err := time.Parse(layout, stripped)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q as %q: %w", s, layout, err)
	}
	return t, nil
}

// FormatDate renders t with layout.
func FormatDate(t time.Time, layout string) string {
	return t.Format(layout)
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return re, nil
}
