package search

import (
	"strings"
	"unicode"
)

// maxVariants bounds the expansion of a single query.
const maxVariants = 10

type Query struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lowercases input, keeps letters, digits and the separators
// used in occupation codes, and collapses whitespace.
func NormalizeQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '-', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '/', r == ',':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExpandQuery returns normalized followed by its synonym variants. A leading
// word or two-word phrase with synonyms is replaced in place, so
// "software dev jobs" also yields "software developer jobs".
func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range Synonyms(normalized) {
		add(syn)
	}

	words := strings.Fields(normalized)
	replace := func(i, j int) {
		phrase := strings.Join(words[i:j], " ")
		for _, syn := range Synonyms(phrase) {
			parts := append(append(append([]string{}, words[:i]...), syn), words[j:]...)
			add(strings.Join(parts, " "))
		}
	}
	for i := range words {
		replace(i, i+1)
		if i+2 <= len(words) {
			replace(i, i+2)
		}
	}

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

func ProcessQuery(input string) Query {
	q := Query{Original: input, Normalized: NormalizeQuery(input)}
	q.Variants = ExpandQuery(q.Normalized)
	return q
}
