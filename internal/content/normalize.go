package content

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	anyTag     = regexp.MustCompile(`<[^>]*>`)
)

// Normalize cleans tracker HTML while keeping it renderable: attributes are
// dropped (except href on links), <br> becomes a newline, <div> becomes <p>,
// list items are trimmed and runs of blank lines collapse to one newline.
// It never fails; markup it cannot handle is stripped to text instead.
func Normalize(raw string) string {
	if IsEmpty(raw) {
		return ""
	}
	out, ok := normalizeOnce(raw)
	if !ok {
		return stripTags(raw)
	}
	// Renaming div to p can nest paragraphs, which the parser splits apart on
	// the next read. Re-run until the rendering is stable.
	for i := 0; i < maxPasses; i++ {
		next, ok := normalizeOnce(out)
		if !ok || next == out {
			break
		}
		out = next
	}
	return out
}

const maxPasses = 3

func normalizeOnce(raw string) (string, bool) {
	nodes, err := parseFragment(raw)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		clean(n)
		if err := html.Render(&buf, n); err != nil {
			return "", false
		}
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(buf.String(), "\n")), true
}

func parseFragment(raw string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(raw), body)
}

func clean(n *html.Node) {
	if n.Type == html.ElementNode {
		n.Attr = keepHref(n)
		if n.DataAtom == atom.Div {
			n.DataAtom = atom.P
			n.Data = "p"
		}
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			c = replaceBreak(n, c)
			continue
		}
		clean(c)
		c = next
	}

	if n.Type == html.ElementNode && n.DataAtom == atom.Li {
		trimListItem(n)
	}
}

func keepHref(n *html.Node) []html.Attribute {
	if n.DataAtom != atom.A {
		return nil
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "href" {
			return []html.Attribute{a}
		}
	}
	return nil
}

// replaceBreak swaps br for a newline text node, absorbing the text sibling
// that follows it, and returns the node to continue the walk from.
func replaceBreak(parent, br *html.Node) *html.Node {
	text := "\n"
	after := br.NextSibling
	if after != nil && after.Type == html.TextNode {
		text += after.Data
		next := after.NextSibling
		parent.RemoveChild(after)
		after = next
	}
	parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, br)
	parent.RemoveChild(br)
	return after
}

func trimListItem(li *html.Node) {
	if first := li.FirstChild; first != nil && first.Type == html.TextNode {
		first.Data = strings.TrimLeft(first.Data, " \t\r\n")
	}
	if last := li.LastChild; last != nil && last.Type == html.TextNode {
		last.Data = strings.TrimRight(last.Data, " \t\r\n")
	}
}

func stripTags(raw string) string {
	return strings.TrimSpace(anyTag.ReplaceAllString(raw, ""))
}
