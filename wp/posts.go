package wp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Rendered is the {rendered, raw} shape the REST API uses for title, content
// and excerpt fields.
type Rendered struct {
	Rendered string `json:"rendered"`
	Raw      string `json:"raw,omitempty"`
}

// Post is the subset of a post or page resource the tools expose.
type Post struct {
	ID      int      `json:"id"`
	Date    string   `json:"date,omitempty"`
	Slug    string   `json:"slug,omitempty"`
	Status  string   `json:"status,omitempty"`
	Type    string   `json:"type,omitempty"`
	Link    string   `json:"link,omitempty"`
	Title   Rendered `json:"title"`
	Content Rendered `json:"content,omitempty"`
	Excerpt Rendered `json:"excerpt,omitempty"`
}

// ListPostsParams narrows a post listing. Zero values are omitted.
type ListPostsParams struct {
	Search  string
	Status  string
	PerPage int
	Page    int
}

// ListPosts lists resources of one collection ("posts" or "pages").
func (c *Client) ListPosts(ctx context.Context, collection string, p ListPostsParams) ([]Post, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	path := "/wp/v2/" + collection
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var posts []Post
	if err := c.get(ctx, path, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches one resource by id.
func (c *Client) GetPost(ctx context.Context, collection string, id int) (*Post, error) {
	var post Post
	if err := c.get(ctx, fmt.Sprintf("/wp/v2/%s/%d", collection, id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// PostInput is the writable subset for create and update calls. Empty fields
// are left out of the request so partial updates stay partial.
type PostInput struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Status  string `json:"status,omitempty"`
	Slug    string `json:"slug,omitempty"`
}

// CreatePost creates a resource in one collection.
func (c *Client) CreatePost(ctx context.Context, collection string, in PostInput) (*Post, error) {
	var post Post
	if err := c.post(ctx, "/wp/v2/"+collection, in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies a partial update to one resource.
func (c *Client) UpdatePost(ctx context.Context, collection string, id int, in PostInput) (*Post, error) {
	var post Post
	if err := c.post(ctx, fmt.Sprintf("/wp/v2/%s/%d", collection, id), in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes one resource. force skips the trash.
func (c *Client) DeletePost(ctx context.Context, collection string, id int, force bool) error {
	path := fmt.Sprintf("/wp/v2/%s/%d", collection, id)
	if force {
		path += "?force=true"
	}
	_, err := c.Do(ctx, http.MethodDelete, path, nil)
	return err
}
