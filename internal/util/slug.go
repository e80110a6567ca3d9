// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared by the blog packages: post
// slugs and request parameter parsing.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength caps generated slugs so long titles still give readable URLs.
const MaxSlugLength = 80

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a post title into a URL path segment: accents are stripped,
// whitespace becomes hyphens and anything outside [a-z0-9-] is dropped.
// The result may be empty when the title has no latin letters or digits.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	slug, _, _ := transform.String(t, title)

	slug = strings.ToLower(slug)
	slug = strings.Join(strings.Fields(slug), "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = multipleHyphens.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
		// Cut at the last word boundary when there is one.
		if i := strings.LastIndexByte(slug, '-'); i > 0 {
			slug = slug[:i]
		}
	}
	return slug
}

// IsValidSlug reports whether s looks like a slug produced by Slugify.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return s[0] != '-' && s[len(s)-1] != '-' && !strings.Contains(s, "--")
}
