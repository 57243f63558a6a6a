package render

import (
	"strings"

	"golang.org/x/net/html"
)

// selectNode resolves a minimal selector against the parsed document: "#id"
// matches by id attribute, ".class" by class list membership, anything else
// by tag name. Returns nil when nothing matches.
func selectNode(doc *html.Node, selector string) *html.Node {
	switch {
	case strings.HasPrefix(selector, "#"):
		id := strings.TrimPrefix(selector, "#")
		return findNode(doc, func(n *html.Node) bool { return attr(n, "id") == id })
	case strings.HasPrefix(selector, "."):
		class := strings.TrimPrefix(selector, ".")
		return findNode(doc, func(n *html.Node) bool { return hasClass(n, class) })
	default:
		return findNode(doc, func(n *html.Node) bool { return n.Data == selector })
	}
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func pageTitle(doc *html.Node) string {
	title := findNode(doc, func(n *html.Node) bool { return n.Data == "title" })
	if title == nil || title.FirstChild == nil || title.FirstChild.Type != html.TextNode {
		return ""
	}
	return title.FirstChild.Data
}

// metaContent reads the content attribute of the first <meta name=...> tag.
func metaContent(doc *html.Node, name string) string {
	meta := findNode(doc, func(n *html.Node) bool {
		return n.Data == "meta" && attr(n, "name") == name
	})
	if meta == nil {
		return ""
	}
	return attr(meta, "content")
}

func splitKeywords(content string) []string {
	var keywords []string
	for _, k := range strings.Split(content, ",") {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
