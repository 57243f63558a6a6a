package elementor

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// OutlineEntry is one line of a structure dump.
type OutlineEntry struct {
	ID         string `json:"id"`
	ElType     string `json:"elType"`
	WidgetType string `json:"widgetType,omitempty"`
	Depth      int    `json:"depth"`
	Children   int    `json:"children"`
	Content    string `json:"content,omitempty"`
}

const contentPreviewLimit = 120

// Outline flattens the forest into depth-annotated entries with a short
// plain-text preview of each widget's primary content.
func Outline(roots []*Node) []OutlineEntry {
	flat := Flatten(roots)
	out := make([]OutlineEntry, 0, len(flat))
	for _, fn := range flat {
		entry := OutlineEntry{
			ID:         fn.Node.ID,
			ElType:     fn.Node.ElType,
			WidgetType: fn.Node.WidgetType,
			Depth:      fn.Depth,
			Children:   len(fn.Node.Elements),
		}
		if v, ok := GetContent(fn.Node); ok {
			if s, ok := v.(string); ok {
				entry.Content = previewText(s)
			}
		}
		out = append(out, entry)
	}
	return out
}

// TextEntry is one widget's extracted content.
type TextEntry struct {
	ID         string `json:"id"`
	WidgetType string `json:"widgetType"`
	Text       string `json:"text"`
}

// ExtractTexts collects the primary content of every mapped widget in the
// forest, HTML bodies converted to markdown.
func ExtractTexts(roots []*Node) []TextEntry {
	var out []TextEntry
	Walk(roots, func(n *Node, _ int) bool {
		v, ok := GetContent(n)
		if !ok {
			return false
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return false
		}
		out = append(out, TextEntry{ID: n.ID, WidgetType: n.WidgetType, Text: renderText(s)})
		return false
	})
	return out
}

// renderText turns a content value into markdown: HTML bodies (text-editor
// widgets store rich HTML) go through the converter, anything else is
// returned as-is.
func renderText(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return plainText(s)
	}
	return strings.TrimSpace(md)
}

// previewText strips markup and truncates for outline display. Truncation
// counts runes, not bytes, so multi-byte text is never cut mid-sequence.
func previewText(s string) string {
	text := plainText(s)
	runes := []rune(text)
	if len(runes) > contentPreviewLimit {
		text = string(runes[:contentPreviewLimit]) + "…"
	}
	return text
}

// plainText drops HTML markup, keeping the text nodes.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(doc)
	return strings.TrimSpace(strings.Join(strings.Fields(b.String()), " "))
}
