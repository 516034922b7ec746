package matching

import (
	"sort"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/career"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type SkillGap struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Required float64  `json:"required"`
	Current  float64  `json:"current"`
	Gap      float64  `json:"gap"`
	Priority Priority `json:"priority"`
}

func PriorityFor(gap float64) Priority {
	switch {
	case gap >= 40:
		return PriorityHigh
	case gap >= 20:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// SkillGaps lists the occupation's skill requirements the user scores below.
// Without a skills profile there is nothing to compare against and the result
// is empty.
func SkillGaps(userSkills map[string]float64, occ career.Occupation) []SkillGap {
	if len(userSkills) == 0 || len(occ.Skills) == 0 {
		return nil
	}

	out := make([]SkillGap, 0)
	for cat, req := range occ.Skills {
		cur := clampScore(userSkills[cat])
		req = clampScore(req)
		if cur >= req {
			continue
		}
		gap := round2(req - cur)
		out = append(out, SkillGap{
			Category: cat,
			Label:    assessment.CategoryLabel(cat),
			Required: req,
			Current:  cur,
			Gap:      gap,
			Priority: PriorityFor(gap),
		})
	}
	SortGaps(out)
	return out
}

// MergeGaps keeps the largest gap per category across candidates and
// recomputes priorities from the merged values.
func MergeGaps(candidates []Candidate) []SkillGap {
	best := map[string]SkillGap{}
	for _, c := range candidates {
		for _, g := range c.Gaps {
			if cur, ok := best[g.Category]; !ok || g.Gap > cur.Gap {
				best[g.Category] = g
			}
		}
	}
	out := make([]SkillGap, 0, len(best))
	for _, g := range best {
		g.Priority = PriorityFor(g.Gap)
		out = append(out, g)
	}
	SortGaps(out)
	return out
}

func SortGaps(gaps []SkillGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Gap != gaps[j].Gap {
			return gaps[i].Gap > gaps[j].Gap
		}
		oi, oj := skillOrder(gaps[i].Category), skillOrder(gaps[j].Category)
		if oi != oj {
			return oi < oj
		}
		return gaps[i].Category < gaps[j].Category
	})
}
