// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil holds the text normalization shared by scoring,
// classification and synthesis: slugs, HTML cleanup and sentence splitting.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// SlugMaxLen is the maximum length of a slug produced by Slugify.
const SlugMaxLen = 100

var (
	slugQuotes   = regexp.MustCompile(`['"]`)
	slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace   = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// Slugify lower-cases s, collapses every run of non-alphanumeric characters
// into a single hyphen and caps the result at SlugMaxLen characters.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = slugQuotes.ReplaceAllString(slug, "")
	slug = slugNonAlnum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > SlugMaxLen {
		slug = strings.TrimRight(slug[:SlugMaxLen], "-")
	}
	return slug
}

// CleanText strips markup, decodes entities and collapses whitespace.
// Plain text without markup skips HTML parsing.
func CleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Sentences splits text into sentences terminated by '.', '!' or '?'.
// Text without a terminator is returned as a single sentence.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	matches := sentenceRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Truncate shortens s to at most max runes, replacing the tail with "..."
// when it was cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}

// Prefix returns the first n runes of s.
func Prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
