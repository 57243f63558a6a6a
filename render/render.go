// Package render fetches published pages from the WordPress front end and
// converts them to markdown. It is the read-back half of an editing session:
// after the builder data changes, a snapshot shows what the site actually
// serves.
package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// Snapshot is the markdown rendition of one page fragment plus the head
// metadata of the page it came from.
type Snapshot struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Markdown    string   `json:"markdown"`
}

// Page downloads url and converts the fragment addressed by selector to
// markdown. The selector accepts "#id", ".class" or a bare tag name; an empty
// selector means the whole body.
func Page(ctx context.Context, client *http.Client, url, selector string) (*Snapshot, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if selector == "" {
		selector = "body"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	fragment := selectNode(doc, selector)
	if fragment == nil {
		return nil, fmt.Errorf("selector %q matched nothing on %s", selector, url)
	}
	markdown, err := htmltomarkdown.ConvertNode(fragment)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", url, err)
	}

	return &Snapshot{
		URL:         url,
		Title:       pageTitle(doc),
		Description: metaContent(doc, "description"),
		Keywords:    splitKeywords(metaContent(doc, "keywords")),
		Markdown:    string(markdown),
	}, nil
}
