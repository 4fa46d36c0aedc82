package source

import (
	"strings"

	"golang.org/x/net/html"
)

// stripMarkup extracts the visible text from an HTML fragment. Listing
// APIs return rendered bodies with markup and escaped entities; statements
// should carry neither.
func stripMarkup(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if buf.Len() > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}
