package search

import (
	"sort"
	"strings"

	"careerpath/internal/domain/career"
)

const maxRelevance = 10

// Relevance scores how well occ answers any of the query variants. A code
// prefix is a direct hit; otherwise title matches weigh most, then sample
// titles, then the description.
func Relevance(occ career.Occupation, variants []string) float64 {
	if len(variants) == 0 {
		return 0
	}

	code := strings.ToLower(occ.Code)
	title := strings.ToLower(occ.Title)
	desc := strings.ToLower(occ.Description)

	score := 0.0
	for _, v := range variants {
		if v == "" {
			continue
		}
		if strings.HasPrefix(code, v) {
			return maxRelevance
		}
		switch {
		case title == v:
			score += 5
		case strings.Contains(title, v):
			score += 3
		}
		for _, alt := range occ.SampleTitles {
			if strings.Contains(strings.ToLower(alt), v) {
				score += 2
				break
			}
		}
		if desc != "" && strings.Contains(desc, v) {
			score++
		}
		if score >= maxRelevance {
			return maxRelevance
		}
	}
	return score
}

// Occupations filters occs down to those relevant to query, most relevant
// first. Ties keep their input order. An empty query returns occs as is.
func Occupations(occs []career.Occupation, query string) []career.Occupation {
	q := ProcessQuery(query)
	if len(q.Variants) == 0 {
		return occs
	}

	type scored struct {
		idx   int
		score float64
	}
	hits := make([]scored, 0, len(occs))
	for i := range occs {
		if s := Relevance(occs[i], q.Variants); s > 0 {
			hits = append(hits, scored{idx: i, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]career.Occupation, 0, len(hits))
	for _, h := range hits {
		out = append(out, occs[h.idx])
	}
	return out
}
