package search

// synonyms maps common shorthand to the wording O*NET uses in titles.
var synonyms = map[string][]string{
	"dev":            {"developer", "developers"},
	"developer":      {"developers", "programmer"},
	"programmer":     {"programmers", "software developer"},
	"coder":          {"programmer", "software developer"},
	"frontend":       {"web developer", "web and digital interface designer"},
	"backend":        {"software developer"},
	"it":             {"computer", "information technology"},
	"doctor":         {"physician", "physicians", "surgeon"},
	"nurse":          {"registered nurse", "nurses", "nursing"},
	"teacher":        {"teachers", "instructor", "educator"},
	"lawyer":         {"lawyers", "attorney"},
	"designer":       {"designers", "graphic designer"},
	"ux":             {"user experience", "interface designer"},
	"data scientist": {"data scientists", "statistician"},
	"counselor":      {"counselors", "advisor"},
	"accountant":     {"accountants", "auditor"},
	"engineer":       {"engineers"},
}

// Synonyms returns a copy of the variants registered for phrase.
func Synonyms(phrase string) []string {
	v, ok := synonyms[phrase]
	if !ok {
		return nil
	}
	return append([]string(nil), v...)
}
