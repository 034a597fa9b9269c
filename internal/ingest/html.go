package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// blockElements end the current line so headings stay at line starts
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true,
	"blockquote": true, "pre": true, "table": true, "ol": true, "ul": true,
	"dt": true, "dd": true, "title": true,
}

// HTMLText returns the visible text of an HTML document. Block elements
// become line breaks; script, style and similar elements are skipped.
func HTMLText(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var buf strings.Builder
	lineStart := true

	newline := func() {
		if !lineStart {
			buf.WriteString("\n")
			lineStart = true
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "svg":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				if !lineStart && !strings.ContainsRune(".,;:!?)", rune(text[0])) {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
				lineStart = false
			}
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			newline()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			newline()
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}
