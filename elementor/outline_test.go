package elementor

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestOutline(t *testing.T) {
	doc := fixtureDoc()
	outline := Outline(doc.Elements)
	require.Len(t, outline, 6)

	require.Equal(t, "section", outline[0].ID)
	require.Equal(t, 0, outline[0].Depth)
	require.Equal(t, 1, outline[0].Children)

	require.Equal(t, "w1", outline[2].ID)
	require.Equal(t, 2, outline[2].Depth)
	require.Equal(t, "Hello", outline[2].Content)

	// HTML bodies are previewed as plain text
	require.Equal(t, "Body", outline[3].Content)
}

func TestOutlineTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", 500)
	roots := []*Node{
		{ID: "h", ElType: TypeWidget, WidgetType: "heading", Settings: map[string]any{"title": long}},
	}
	outline := Outline(roots)
	require.Len(t, outline[0].Content, contentPreviewLimit+len("…"))
}

func TestOutlineTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ü", 500)
	roots := []*Node{
		{ID: "h", ElType: TypeWidget, WidgetType: "heading", Settings: map[string]any{"title": long}},
	}
	content := Outline(roots)[0].Content
	require.True(t, utf8.ValidString(content))
	require.Equal(t, contentPreviewLimit+1, utf8.RuneCountInString(content))
	require.Equal(t, strings.Repeat("ü", contentPreviewLimit)+"…", content)
}

func TestExtractTexts(t *testing.T) {
	doc := fixtureDoc()
	texts := ExtractTexts(doc.Elements)
	require.Len(t, texts, 3)

	byID := map[string]TextEntry{}
	for _, entry := range texts {
		byID[entry.ID] = entry
	}
	require.Equal(t, "Hello", byID["w1"].Text)
	require.Equal(t, "Body", byID["w2"].Text)
	require.Equal(t, "Click", byID["w3"].Text)
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "plain", plainText("plain"))
	require.Equal(t, "a b", plainText("<p>a</p><p>b</p>"))
	require.Equal(t, "nested text", plainText("<div><span>nested</span> text</div>"))
}
