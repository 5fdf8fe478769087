// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package splitter derives a title and author list from a free-text book
// query. An optional entity-extraction backend proposes person names and a
// title candidate; a deterministic rule fallback always runs alongside it,
// and a confidence-gated arbitration picks between the two. Split is total:
// it never fails and degrades to the cleaned input as the title.
package splitter

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/bookdex/internal/textutil"
)

const (
	// extractorThreshold gates the arbitration: below it the extractor's
	// output is ignored entirely.
	extractorThreshold = 0.6

	// maxAuthorRunes bounds how long a trailing token may be and still be
	// taken for an author name.
	maxAuthorRunes = 12
)

var (
	// roleSuffix matches a trailing authorship role word.
	roleSuffix = regexp.MustCompile(`(著|编|译|主编|等)$`)

	// trailingRole matches "<title><separator><name><role>" lines, e.g.
	// "明朝那些事儿 当年明月 著".
	trailingRole = regexp.MustCompile(`^(.*?)[\s:：\-—·]+([^\d]{1,30})(著|编|译|主编|等)$`)

	// trailingParen matches a parenthetical name at the end of the line.
	trailingParen = regexp.MustCompile(`^(.*?)[\s\(（](.*?)[\)）]$`)

	// titleTokens are markers that make a candidate look like a book title
	// during arbitration scoring.
	titleTokens = []string{
		"研究", "简史", "教程", "导论", "原理", "方法", "文明",
		"世界", "社会", "历史", "算法", "原本", "文学", "文化",
	}
)

// Splitter splits raw queries into (title, authors). The zero value works
// with no extraction backend; inject one with New.
type Splitter struct {
	extractor Extractor
}

// New builds a Splitter around an optional extraction strategy. A nil
// extractor means rule-based splitting only.
func New(extractor Extractor) *Splitter {
	return &Splitter{extractor: extractor}
}

// Split derives (title, authors) from a raw query. Empty or whitespace-only
// input yields ("", nil). Authors are de-duplicated in first-seen order with
// role suffixes stripped.
func (s *Splitter) Split(ctx context.Context, raw string) (string, []string) {
	raw = textutil.Normalize(raw)
	if raw == "" {
		return "", nil
	}

	cleaned := textutil.Clean(raw)

	var ex Extraction
	if s.extractor != nil {
		if got, err := s.extractor.Extract(ctx, cleaned); err == nil {
			ex = got
		}
	}
	exTitle := trimTitle(ex.Title)
	exAuthors := dedupAuthors(ex.Persons)

	ruleTitle, ruleAuthors := ruleSplit(cleaned)
	ruleTitle = trimTitle(ruleTitle)

	if len(exAuthors) > 0 && ex.Confidence >= extractorThreshold {
		title := pickTitle(exTitle, ruleTitle)
		if title == "" {
			title = cleaned
		}
		return title, exAuthors
	}

	return ruleTitle, ruleAuthors
}

// ruleSplit is the deterministic fallback. It tries, in order: a trailing
// role-suffix pattern, a trailing parenthetical name, and a short final
// whitespace token; otherwise the whole line is the title.
func ruleSplit(s string) (string, []string) {
	if m := trailingRole.FindStringSubmatch(s); m != nil {
		title := strings.Trim(m[1], " -—·:：")
		return title, dedupAuthors([]string{m[2]})
	}

	if m := trailingParen.FindStringSubmatch(s); m != nil && utf8.RuneCountInString(m[2]) <= maxAuthorRunes {
		return m[1], dedupAuthors([]string{m[2]})
	}

	parts := strings.Fields(s)
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if utf8.RuneCountInString(last) <= maxAuthorRunes {
			return strings.Join(parts[:len(parts)-1], " "), dedupAuthors([]string{last})
		}
	}

	return s, nil
}

// pickTitle scores the extractor and rule candidates and returns the better
// one. Ties keep the first candidate, so the extractor's title wins a draw.
func pickTitle(exTitle, ruleTitle string) string {
	var best string
	bestScore := 0
	for _, cand := range []string{exTitle, ruleTitle} {
		if cand == "" {
			continue
		}
		if score := titleScore(cand); best == "" || score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best
}

// titleScore rates how title-like a candidate is: longer is better, a
// trailing role word counts against it, and known title markers count for it.
func titleScore(t string) int {
	score := utf8.RuneCountInString(t)
	if roleSuffix.MatchString(t) {
		score -= 2
	}
	for _, tok := range titleTokens {
		if strings.Contains(t, tok) {
			score += 2
			break
		}
	}
	return score
}

// dedupAuthors normalizes, strips role suffixes, and de-duplicates while
// preserving first-seen order.
func dedupAuthors(authors []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, a := range authors {
		a = stripRole(textutil.Normalize(a))
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// stripRole removes a trailing authorship role word from a name.
func stripRole(a string) string {
	a = strings.TrimSuffix(a, "主编")
	for _, suffix := range []string{"著", "编", "译"} {
		if trimmed := strings.TrimSuffix(a, suffix); trimmed != a {
			a = trimmed
			break
		}
	}
	return strings.TrimSpace(a)
}

// trimTitle removes stray quoting brackets around a title candidate.
func trimTitle(t string) string {
	return strings.Trim(t, " 《》[]（）()")
}
