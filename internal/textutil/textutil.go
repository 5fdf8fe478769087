// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides the pure string functions shared by the splitter
// and the resolution pipeline: whitespace normalization, query-line cleaning,
// and ISBN extraction. All functions are total; they return empty values on
// no match and never fail.
package textutil

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRun matches any run of whitespace for collapsing.
	whitespaceRun = regexp.MustCompile(`\s+`)

	// bracketedAside matches a bracketed aside in any of the four paired
	// bracket styles, non-greedy.
	bracketedAside = regexp.MustCompile(`[【\[\(（][^】\]\)）]*?[】\]\)）]`)

	// leadingOrdinal matches a list marker at the start of a line:
	// "1. " / "1、" / "1) " / "1- " / "1:" and full-width variants.
	leadingOrdinal = regexp.MustCompile(`^\s*\d+\s*[\.、\)\-：:]\s*`)

	// isbnPattern matches an ISBN-13 starting 978/979 or a nine-digit
	// sequence plus a check character (digit or X). Applied to text with
	// hyphens and whitespace already stripped.
	isbnPattern = regexp.MustCompile(`(97[89]\d{10}|\d{9}[0-9Xx])`)

	hyphensAndSpace = regexp.MustCompile(`[-\s]`)
)

// separatorFolder maps list separators and full-width spacing to plain spaces.
var separatorFolder = strings.NewReplacer(
	"+", " ",
	"/", " ",
	"、", " ",
	"　", " ",
	"\t", " ",
)

// Normalize collapses internal whitespace runs to single spaces and trims.
func Normalize(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Clean normalizes a raw query line: bracketed asides are stripped, a leading
// ordinal marker is removed, list separators fold to single spaces, and
// whitespace runs collapse.
func Clean(s string) string {
	s = bracketedAside.ReplaceAllString(s, "")
	s = leadingOrdinal.ReplaceAllString(s, "")
	s = separatorFolder.Replace(s)
	return Normalize(s)
}

// FindISBN returns the first ISBN-10/13 found in text, with hyphens and
// whitespace ignored, or "" when none is present. The check character of an
// ISBN-10 is upper-cased.
func FindISBN(text string) string {
	if text == "" {
		return ""
	}
	t := hyphensAndSpace.ReplaceAllString(text, "")
	m := isbnPattern.FindString(t)
	return strings.ToUpper(m)
}

// NormalizeISBN strips hyphens and whitespace and upper-cases the check
// character, so ISBNs from different sources compare equal.
func NormalizeISBN(isbn string) string {
	return strings.ToUpper(hyphensAndSpace.ReplaceAllString(isbn, ""))
}
