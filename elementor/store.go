package elementor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ResourceKind is a WordPress REST collection that can carry builder data.
type ResourceKind string

const (
	KindPost     ResourceKind = "posts"
	KindPage     ResourceKind = "pages"
	KindTemplate ResourceKind = "elementor_library"
)

// probeOrder is the fixed sequence of resource kinds tried when resolving a
// post id. The right kind for a given id is not known up front; the first
// kind that answers wins.
var probeOrder = []ResourceKind{KindPost, KindPage, KindTemplate}

// dataMetaKey is the post-meta field holding the serialized element tree.
const dataMetaKey = "_elementor_data"

// editModeMetaKey is set alongside the data so the builder opens the post in
// builder mode after an external edit.
const editModeMetaKey = "_elementor_edit_mode"

// dataPreamble terminates a debug preamble some installations prepend to the
// serialized tree. Everything up to and including this line is discarded
// before parsing.
const dataPreamble = "--- Elementor Data ---"

// MetaClient is the document-resource client the store runs against. The
// production implementation is wp.Client; tests use an in-memory fake.
type MetaClient interface {
	// RetrieveMeta returns the meta fields of one resource. A missing
	// resource is reported with an error whose NotFound() is true.
	RetrieveMeta(ctx context.Context, collection string, id int) (map[string]json.RawMessage, error)
	// PersistMeta writes meta fields to one resource.
	PersistMeta(ctx context.Context, collection string, id int, meta map[string]any) error
}

// notFounder is implemented by client errors representing a 404.
type notFounder interface {
	NotFound() bool
}

func isRemoteNotFound(err error) bool {
	var nf notFounder
	return errors.As(err, &nf) && nf.NotFound()
}

// Store loads and persists element trees through a MetaClient, probing
// resource kinds to resolve a bare post id.
type Store struct {
	client MetaClient
	log    *zap.Logger
}

func NewStore(client MetaClient, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, log: logger}
}

// Fetch resolves postID against the probe order and returns its element
// tree. A failed probe, 404 or otherwise, moves on to the next kind; only
// the first kind that answers with builder data wins. A kind whose resource
// exists but holds no builder data does not stop the probing either; if
// nothing better turns up the result is ErrNoData, the last retrieval error
// when one occurred, and ErrNotFound when no kind had the resource at all.
func (s *Store) Fetch(ctx context.Context, postID int) (*Document, error) {
	foundEmpty := false
	var lastErr error
	for _, kind := range probeOrder {
		meta, err := s.client.RetrieveMeta(ctx, string(kind), postID)
		if err != nil {
			if !isRemoteNotFound(err) {
				lastErr = fmt.Errorf("retrieve %s/%d: %w", kind, postID, err)
			}
			continue
		}
		raw, ok := meta[dataMetaKey]
		if !ok || isEmptyMetaValue(raw) {
			foundEmpty = true
			continue
		}
		elements, err := parseData(raw)
		if err != nil {
			return nil, err
		}
		s.log.Debug("fetched elementor data",
			zap.Int("postID", postID),
			zap.String("kind", string(kind)),
			zap.Int("elements", CountNodes(elements)))
		return &Document{PostID: postID, Kind: kind, Elements: elements}, nil
	}
	if foundEmpty {
		return nil, fmt.Errorf("%w: post %d", ErrNoData, postID)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, notFoundf("post %d not found in any resource kind", postID)
}

// Save serializes the document and writes it back, trying the kind the
// document was fetched from first and then the remaining probe order. Only
// when every kind rejects the write does Save fail.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc.Elements)
	if err != nil {
		return fmt.Errorf("serialize elementor data: %w", err)
	}
	meta := map[string]any{
		dataMetaKey:     string(data),
		editModeMetaKey: "builder",
	}

	var lastErr error
	for _, kind := range saveOrder(doc.Kind) {
		if err := s.client.PersistMeta(ctx, string(kind), doc.PostID, meta); err != nil {
			lastErr = err
			continue
		}
		s.log.Debug("saved elementor data",
			zap.Int("postID", doc.PostID),
			zap.String("kind", string(kind)),
			zap.Int("bytes", len(data)))
		doc.Kind = kind
		return nil
	}
	return fmt.Errorf("%w: post %d: %v", ErrSaveFailed, doc.PostID, lastErr)
}

func saveOrder(kind ResourceKind) []ResourceKind {
	if kind == "" {
		return probeOrder
	}
	order := []ResourceKind{kind}
	for _, k := range probeOrder {
		if k != kind {
			order = append(order, k)
		}
	}
	return order
}

// Update is the fetch-mutate-save transaction: the tree is handed to mutate
// and persisted unconditionally when mutate returns nil. There is no
// concurrency control against the remote store; two overlapping updates of
// the same post are last-writer-wins. Read-only callers use Fetch alone.
func (s *Store) Update(ctx context.Context, postID int, mutate func(doc *Document) error) error {
	doc, err := s.Fetch(ctx, postID)
	if err != nil {
		return err
	}
	if err := mutate(doc); err != nil {
		return err
	}
	return s.Save(ctx, doc)
}

func isEmptyMetaValue(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", `""`, "[]", `"[]"`:
		return true
	}
	return false
}

// parseData decodes the meta field value into an element forest. The value
// is either a JSON string containing the array, or already a bare array; the
// string form may carry a debug preamble terminated by dataPreamble.
func parseData(raw json.RawMessage) ([]*Node, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var elements []*Node
		if err := json.Unmarshal(raw, &elements); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return elements, nil
	}

	var payload string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: meta value is neither an array nor a string: %v", ErrParse, err)
	}
	payload = stripPreamble(payload)
	var elements []*Node
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return elements, nil
}

// stripPreamble drops everything up to and including the debug separator
// line, when present.
func stripPreamble(payload string) string {
	idx := strings.Index(payload, dataPreamble)
	if idx < 0 {
		return strings.TrimSpace(payload)
	}
	return strings.TrimSpace(payload[idx+len(dataPreamble):])
}
