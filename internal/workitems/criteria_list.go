package workitems

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseCriteriaList splits stored acceptance criteria into items. Text after
// a "•" glyph or a leading "-" is taken as the item.
func ParseCriteriaList(criteria string) []string {
	var out []string
	for _, line := range lineBreak.Split(criteria, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(line, "•"); i >= 0 {
			line = line[i+len("•"):]
		} else if strings.HasPrefix(line, "-") {
			line = line[1:]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// FormatCriteriaList renders items the way the tracker stores them.
func FormatCriteriaList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			lines = append(lines, "• "+item)
		}
	}
	return strings.Join(lines, "\n")
}
