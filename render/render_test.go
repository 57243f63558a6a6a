package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
<title>About Us - Example</title>
<meta name="description" content="Who we are and what we do">
<meta name="keywords" content="company, team , history,">
</head>
<body>
<header class="site-header"><h1>Example</h1></header>
<main id="content" class="page-content">
<h2>About Us</h2>
<p>We build <strong>things</strong>.</p>
</main>
</body>
</html>`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(testPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPageByID(t *testing.T) {
	srv := testServer(t)
	snap, err := Page(context.Background(), srv.Client(), srv.URL+"/about", "#content")
	require.NoError(t, err)
	require.Equal(t, "About Us - Example", snap.Title)
	require.Equal(t, "Who we are and what we do", snap.Description)
	require.Equal(t, []string{"company", "team", "history"}, snap.Keywords)
	require.Contains(t, snap.Markdown, "About Us")
	require.Contains(t, snap.Markdown, "**things**")
	require.False(t, strings.Contains(snap.Markdown, "Example</h1>"), "header should be outside the fragment")
}

func TestPageByClassAndTag(t *testing.T) {
	srv := testServer(t)

	snap, err := Page(context.Background(), srv.Client(), srv.URL, ".page-content")
	require.NoError(t, err)
	require.Contains(t, snap.Markdown, "About Us")

	snap, err = Page(context.Background(), srv.Client(), srv.URL, "h2")
	require.NoError(t, err)
	require.Contains(t, snap.Markdown, "About Us")
	require.NotContains(t, snap.Markdown, "things")
}

func TestPageDefaultSelector(t *testing.T) {
	srv := testServer(t)
	snap, err := Page(context.Background(), srv.Client(), srv.URL, "")
	require.NoError(t, err)
	require.Contains(t, snap.Markdown, "things")
}

func TestPageSelectorMiss(t *testing.T) {
	srv := testServer(t)
	_, err := Page(context.Background(), srv.Client(), srv.URL, "#nope")
	require.Error(t, err)
}

func TestPageHTTPError(t *testing.T) {
	srv := testServer(t)
	_, err := Page(context.Background(), srv.Client(), srv.URL+"/missing", "body")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}
