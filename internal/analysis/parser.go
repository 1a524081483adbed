package analysis

import "strings"

type section int

const (
	sectionNone section = iota
	sectionCriteria
	sectionSuggestions
)

const bulletMarkers = "-*–•"

// Result is the structured outcome of an analysis.
type Result struct {
	Analysis           string   `json:"analysis"`
	SuggestedCriteria  []string `json:"suggestedCriteria"`
	MissingCriteria    []string `json:"missingCriteria"`
	GeneralSuggestions []string `json:"generalSuggestions"`
	RequiresRevision   bool     `json:"requiresRevision"`
	Language           Language `json:"language"`
}

// ParseResponse splits a model reply into criteria and suggestion lists.
// It is a single pass over the lines: a line containing a section header
// switches section, and bullet lines are collected into the current one.
// Header detection is by substring, so a bullet that quotes a header also
// switches section.
func ParseResponse(raw string, lang Language) Result {
	m := messagesFor(lang)
	criteriaItems := []string{}
	suggestions := []string{}
	current := sectionNone

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case containsAny(line, m.criteriaHeaders):
			current = sectionCriteria
			continue
		case containsAny(line, m.suggestionHeaders):
			current = sectionSuggestions
			continue
		}

		item, ok := bulletItem(line)
		if !ok {
			continue
		}
		switch current {
		case sectionCriteria:
			criteriaItems = append(criteriaItems, item)
		case sectionSuggestions:
			suggestions = append(suggestions, item)
		}
	}

	return Result{
		Analysis:           raw,
		SuggestedCriteria:  criteriaItems,
		MissingCriteria:    criteriaItems,
		GeneralSuggestions: suggestions,
		RequiresRevision:   len(criteriaItems) > 0 || len(suggestions) > 0,
		Language:           lang,
	}
}

func containsAny(line string, headers []string) bool {
	for _, h := range headers {
		if strings.Contains(line, h) {
			return true
		}
	}
	return false
}

// bulletItem strips leading bullet markers. Markdown emphasis ("**") is not
// a bullet.
func bulletItem(line string) (string, bool) {
	if strings.HasPrefix(line, "**") || !strings.ContainsAny(firstRune(line), bulletMarkers) {
		return "", false
	}
	item := strings.TrimSpace(strings.TrimLeft(line, bulletMarkers+" \t"))
	return item, item != ""
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
