package markdown

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractOutline parses rendered HTML and builds the nested heading tree
// (h1–h6). Heading ids produced by the auto-heading-id parser become
// fragments.
func ExtractOutline(rendered string) ([]Heading, error) {
	doc, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return nil, err
	}

	var flat []Heading
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.DataAtom); level > 0 {
				flat = append(flat, Heading{
					Level:    level,
					Text:     textContent(n),
					Fragment: attr(n, "id"),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	nested, _ := nest(flat, 0, 1)
	return nested, nil
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nest folds the flat heading list into a tree: a heading adopts following
// headings of a deeper level until one of its own (or shallower) level
// appears.
func nest(flat []Heading, start, minLevel int) ([]Heading, int) {
	var out []Heading
	i := start
	for i < len(flat) {
		h := flat[i]
		if h.Level < minLevel {
			break
		}
		children, next := nest(flat, i+1, h.Level+1)
		h.Children = children
		out = append(out, h)
		i = next
	}
	return out, i
}
