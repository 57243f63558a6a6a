package wp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RetrieveMeta fetches one resource with edit context and returns its meta
// fields. The collection is a REST collection route segment such as "posts",
// "pages" or "elementor_library". A missing resource surfaces as an APIError
// whose NotFound() is true.
func (c *Client) RetrieveMeta(ctx context.Context, collection string, id int) (map[string]json.RawMessage, error) {
	var resource struct {
		Meta map[string]json.RawMessage `json:"meta"`
	}
	path := fmt.Sprintf("/wp/v2/%s/%d?context=edit", collection, id)
	if err := c.get(ctx, path, &resource); err != nil {
		return nil, err
	}
	if resource.Meta == nil {
		resource.Meta = map[string]json.RawMessage{}
	}
	return resource.Meta, nil
}

// PersistMeta writes meta fields to one resource.
func (c *Client) PersistMeta(ctx context.Context, collection string, id int, meta map[string]any) error {
	path := fmt.Sprintf("/wp/v2/%s/%d", collection, id)
	body := map[string]any{"meta": meta}
	_, err := c.Do(ctx, http.MethodPost, path, body)
	return err
}
