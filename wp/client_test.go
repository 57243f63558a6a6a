package wp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{
		BaseURL:     server.URL,
		Username:    "admin",
		AppPassword: "abcd efgh",
	}, server.Client(), nil)
	require.NoError(t, err)
	return client
}

func TestDoSendsAuthAndRequestID(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	_, err := client.Do(context.Background(), http.MethodGet, "/wp/v2/posts/1", nil)
	require.NoError(t, err)

	user, pass, ok := captured.BasicAuth()
	require.True(t, ok)
	require.Equal(t, "admin", user)
	require.Equal(t, "abcd efgh", pass)
	require.NotEmpty(t, captured.Header.Get("X-Request-Id"))
	require.Equal(t, "/wp-json/wp/v2/posts/1", captured.URL.Path)
}

func TestDoNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"rest_post_invalid_id","message":"Invalid post ID."}`))
	})

	_, err := client.Do(context.Background(), http.MethodGet, "/wp/v2/posts/999", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.NotFound())
	require.Equal(t, "rest_post_invalid_id", apiErr.Code)
}

func TestRetrieveMeta(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wp/v2/posts/42", r.URL.Path)
		require.Equal(t, "edit", r.URL.Query().Get("context"))
		w.Write([]byte(`{"id":42,"meta":{"_elementor_data":"[]","_thumbnail_id":7}}`))
	})

	meta, err := client.RetrieveMeta(context.Background(), "posts", 42)
	require.NoError(t, err)
	require.JSONEq(t, `"[]"`, string(meta["_elementor_data"]))
}

func TestRetrieveMetaWithoutMetaField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":42}`))
	})

	meta, err := client.RetrieveMeta(context.Background(), "posts", 42)
	require.NoError(t, err)
	require.NotNil(t, meta)
	require.Empty(t, meta)
}

func TestPersistMeta(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"id":42}`))
	})

	err := client.PersistMeta(context.Background(), "posts", 42, map[string]any{"_elementor_data": "[]"})
	require.NoError(t, err)
	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "[]", meta["_elementor_data"])
}

func TestListPostsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wp/v2/pages", r.URL.Path)
		require.Equal(t, "hello", r.URL.Query().Get("search"))
		require.Equal(t, "5", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[{"id":1,"title":{"rendered":"Hello"}}]`))
	})

	posts, err := client.ListPosts(context.Background(), "pages", ListPostsParams{Search: "hello", PerPage: 5})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "Hello", posts[0].Title.Rendered)
}

func TestDeletePostForce(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Write([]byte(`{"deleted":true}`))
	})

	err := client.DeletePost(context.Background(), "posts", 42, true)
	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, captured.Method)
	require.Equal(t, "/wp-json/wp/v2/posts/42", captured.URL.Path)
	require.Equal(t, "true", captured.URL.Query().Get("force"))

	err = client.DeletePost(context.Background(), "pages", 7, false)
	require.NoError(t, err)
	require.Empty(t, captured.URL.Query().Get("force"))
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"}, nil, nil)
	require.Error(t, err)
}

func TestAPIErrorNotFoundOnlyFor404(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"rest_forbidden","message":"Sorry"}`))
	})

	_, err := client.Do(context.Background(), http.MethodGet, "/wp/v2/posts/1", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.False(t, apiErr.NotFound())
}
