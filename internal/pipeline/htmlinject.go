package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AddStylesheet parses document and appends css as a <style> element at the
// end of its <head>. Documents without a head get one from the parser.
func AddStylesheet(ctx context.Context, document, css string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if css == "" {
		return document, nil
	}

	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("parsing document: %w", err)
	}
	head := findElement(doc, atom.Head)
	if head == nil {
		return "", fmt.Errorf("parsing document: no head element")
	}

	style := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: escapeStyle(css)})
	head.AppendChild(style)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return buf.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// escapeStyle keeps the stylesheet from closing its own element. Style
// contents are written raw, so "</" cannot appear.
func escapeStyle(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
