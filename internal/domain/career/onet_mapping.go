package career

import "math"

// O*NET scale identifiers read from the reference tables.
const (
	ScaleOccupationalInterest = "OI"
	ScaleImportance           = "IM"
)

// InterestElements maps O*NET interest element ids onto RIASEC letters.
var InterestElements = map[string]string{
	"1.B.1.a": "R",
	"1.B.1.b": "I",
	"1.B.1.c": "A",
	"1.B.1.d": "S",
	"1.B.1.e": "E",
	"1.B.1.f": "C",
}

// SkillElements maps O*NET skill element ids onto skill domains.
var SkillElements = map[string]string{
	"2.A.1.a": "communication",  // Reading Comprehension
	"2.A.1.b": "communication",  // Active Listening
	"2.A.1.c": "communication",  // Writing
	"2.A.1.d": "communication",  // Speaking
	"2.A.1.e": "numerical",      // Mathematics
	"2.A.1.f": "analytical",     // Science
	"2.A.2.a": "analytical",     // Critical Thinking
	"2.A.2.b": "analytical",     // Active Learning
	"2.B.1.a": "interpersonal",  // Social Perceptiveness
	"2.B.1.b": "interpersonal",  // Coordination
	"2.B.1.c": "leadership",     // Persuasion
	"2.B.1.d": "leadership",     // Negotiation
	"2.B.1.e": "communication",  // Instructing
	"2.B.1.f": "interpersonal",  // Service Orientation
	"2.B.2.i": "analytical",     // Complex Problem Solving
	"2.B.3.a": "technical",      // Operations Analysis
	"2.B.3.b": "technical",      // Technology Design
	"2.B.3.e": "technical",      // Programming
	"2.B.3.m": "technical",      // Quality Control Analysis
	"2.B.3.k": "technical",      // Troubleshooting
	"2.B.4.e": "organizational", // Judgment and Decision Making
	"2.B.4.g": "analytical",     // Systems Analysis
	"2.B.5.a": "organizational", // Time Management
	"2.B.5.b": "numerical",      // Management of Financial Resources
	"2.B.5.c": "organizational", // Management of Material Resources
	"2.B.5.d": "leadership",     // Management of Personnel Resources
}

// WorkStyleElements maps O*NET work style element ids onto personality traits.
var WorkStyleElements = map[string]string{
	"1.C.1.a": "conscientiousness",   // Achievement/Effort
	"1.C.1.b": "conscientiousness",   // Persistence
	"1.C.1.c": "extraversion",        // Initiative
	"1.C.2.b": "extraversion",        // Leadership
	"1.C.3.a": "agreeableness",       // Cooperation
	"1.C.3.b": "agreeableness",       // Concern for Others
	"1.C.3.c": "extraversion",        // Social Orientation
	"1.C.4.a": "emotional_stability", // Self-Control
	"1.C.4.b": "emotional_stability", // Stress Tolerance
	"1.C.4.c": "openness",            // Adaptability/Flexibility
	"1.C.5.a": "conscientiousness",   // Dependability
	"1.C.5.b": "conscientiousness",   // Attention to Detail
	"1.C.5.c": "agreeableness",       // Integrity
	"1.C.6":   "conscientiousness",   // Independence
	"1.C.7.a": "openness",            // Innovation
	"1.C.7.b": "openness",            // Analytical Thinking
}

// NormalizeInterest maps an OI rating (1-7) onto 0-100.
func NormalizeInterest(v float64) float64 {
	return normalizeRange(v, 1, 7)
}

// NormalizeImportance maps an IM rating (1-5) onto 0-100.
func NormalizeImportance(v float64) float64 {
	return normalizeRange(v, 1, 5)
}

func normalizeRange(v, lo, hi float64) float64 {
	n := (v - lo) / (hi - lo) * 100
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return math.Round(n*100) / 100
}

// ElementRating is one raw O*NET rating row.
type ElementRating struct {
	Code      string
	ElementID string
	Value     float64
}

// AggregateProfile folds raw ratings into a category profile: each rating is
// normalized, mapped through elements, and categories take the mean of their
// mapped elements. Unmapped elements are ignored.
func AggregateProfile(ratings []ElementRating, elements map[string]string, normalize func(float64) float64) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range ratings {
		cat, ok := elements[r.ElementID]
		if !ok {
			continue
		}
		sums[cat] += normalize(r.Value)
		counts[cat]++
	}
	if len(sums) == 0 {
		return nil
	}
	out := make(map[string]float64, len(sums))
	for cat, s := range sums {
		out[cat] = math.Round(s/float64(counts[cat])*100) / 100
	}
	return out
}
