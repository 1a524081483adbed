package criteria

import "strings"

const bulletMarkers = " \t-*•–"

// ExistingLines splits plain-text criteria into trimmed, non-blank lines
// with leading bullet markers removed.
func ExistingLines(plain string) []string {
	var out []string
	for _, line := range strings.Split(plain, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, bulletMarkers))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Diff keeps the catalog rules that do not appear verbatim among the
// existing criteria lines. Categories left without rules or field types are
// dropped.
func Diff(existingPlain string, cat Catalog) Catalog {
	present := make(map[string]struct{})
	for _, line := range ExistingLines(existingPlain) {
		present[line] = struct{}{}
	}

	out := Catalog{}
	for _, c := range cat.Criteria {
		kept := Category{Category: c.Category, FieldTypes: c.FieldTypes}
		for _, rule := range c.Rules {
			if _, ok := present[rule]; !ok {
				kept.Rules = append(kept.Rules, rule)
			}
		}
		if len(kept.Rules) > 0 || len(kept.FieldTypes) > 0 {
			out.Criteria = append(out.Criteria, kept)
		}
	}
	return out
}
