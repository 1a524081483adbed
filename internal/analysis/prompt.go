package analysis

import (
	"fmt"
	"strings"

	"github.com/NancyCima/Azure-Dashboard/internal/content"
	"github.com/NancyCima/Azure-Dashboard/internal/criteria"
)

// PromptInput carries the ticket fields that go into a prompt. Description
// and AcceptanceCriteria may contain markup; they are reduced to plain text.
type PromptInput struct {
	Title              string
	Description        string
	AcceptanceCriteria string
	FigmaLink          string
	ImageCount         int
	Criteria           criteria.Catalog
}

// BuildPrompt assembles the user prompt and reports the language it asks
// the model to answer in.
func BuildPrompt(in PromptInput, fallback Language) (string, Language) {
	description := content.PlainText(in.Description)
	acceptance := content.PlainText(in.AcceptanceCriteria)

	detectFrom := strings.TrimSpace(description + " " + acceptance)
	if detectFrom == "" {
		detectFrom = in.Title
	}
	lang := DetectLanguage(detectFrom, fallback)
	m := messagesFor(lang)

	imageOnly := description == "" && acceptance == "" && in.ImageCount > 0

	var b strings.Builder
	if imageOnly {
		fmt.Fprintf(&b, "%s:\n\n", m.imageOnlyHeader)
		fmt.Fprintf(&b, "%s: %s\n", m.titleLabel, strings.TrimSpace(in.Title))
	} else {
		fmt.Fprintf(&b, "%s:\n\n", m.header)
		fmt.Fprintf(&b, "%s: %s\n", m.titleLabel, strings.TrimSpace(in.Title))
		fmt.Fprintf(&b, "%s: %s\n", m.descLabel, description)
		fmt.Fprintf(&b, "%s: %s\n", m.criteriaLabel, acceptance)
	}

	extra := criteria.Diff(acceptance, in.Criteria)
	if !extra.IsEmpty() {
		b.WriteString("\n")
		writeCriteriaContext(&b, m, extra)
	}

	if in.ImageCount > 0 || strings.TrimSpace(in.FigmaLink) != "" {
		b.WriteString("\n")
	}
	if in.ImageCount > 0 {
		fmt.Fprintf(&b, m.imagesAttached+"\n", in.ImageCount)
	}
	if link := strings.TrimSpace(in.FigmaLink); link != "" {
		fmt.Fprintf(&b, m.figmaLink+"\n", link)
	}

	fmt.Fprintf(&b, "\n%s\n\n", m.structure)
	writeSection(&b, 1, m.criteriaSection, m.criteriaHints)
	b.WriteString("\n")
	writeSection(&b, 2, m.suggestSection, m.suggestHints)
	fmt.Fprintf(&b, "\n%s\n", m.replyLanguage)

	return b.String(), lang
}

func writeCriteriaContext(b *strings.Builder, m messages, cat criteria.Catalog) {
	b.WriteString(m.criteriaContext + "\n")
	for _, c := range cat.Criteria {
		fmt.Fprintf(b, "\n%s:\n", c.Category)
		for _, rule := range c.Rules {
			fmt.Fprintf(b, "- %s\n", rule)
		}
		if len(c.FieldTypes) > 0 {
			fmt.Fprintf(b, "\n%s\n", m.fieldTypes)
			for _, ft := range c.FieldTypes {
				fmt.Fprintf(b, "- %s: %s\n", ft.Name, ft.Description)
			}
		}
	}
}

func writeSection(b *strings.Builder, n int, title string, hints []string) {
	fmt.Fprintf(b, "%d. %s\n", n, title)
	for _, h := range hints {
		fmt.Fprintf(b, "   - %s\n", h)
	}
}
