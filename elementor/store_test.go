package elementor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// fakeMetaClient is an in-memory MetaClient: collection -> id -> meta.
type fakeMetaClient struct {
	resources    map[string]map[int]map[string]json.RawMessage
	retrieved    []string
	persisted    []string
	failSave     bool
	failRetrieve map[string]error
}

type fakeNotFound struct {
	collection string
	id         int
}

func (e *fakeNotFound) Error() string {
	return fmt.Sprintf("%s/%d not found", e.collection, e.id)
}

func (e *fakeNotFound) NotFound() bool { return true }

func newFakeMetaClient() *fakeMetaClient {
	return &fakeMetaClient{resources: map[string]map[int]map[string]json.RawMessage{}}
}

func (f *fakeMetaClient) put(collection string, id int, meta map[string]json.RawMessage) {
	if f.resources[collection] == nil {
		f.resources[collection] = map[int]map[string]json.RawMessage{}
	}
	f.resources[collection][id] = meta
}

func (f *fakeMetaClient) RetrieveMeta(_ context.Context, collection string, id int) (map[string]json.RawMessage, error) {
	f.retrieved = append(f.retrieved, collection)
	if err, ok := f.failRetrieve[collection]; ok {
		return nil, err
	}
	meta, ok := f.resources[collection][id]
	if !ok {
		return nil, &fakeNotFound{collection: collection, id: id}
	}
	return meta, nil
}

func (f *fakeMetaClient) PersistMeta(_ context.Context, collection string, id int, meta map[string]any) error {
	if f.failSave {
		return errors.New("rejected")
	}
	if _, ok := f.resources[collection][id]; !ok {
		return &fakeNotFound{collection: collection, id: id}
	}
	f.persisted = append(f.persisted, collection)
	encoded := map[string]json.RawMessage{}
	for k, v := range meta {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded[k] = data
	}
	f.put(collection, id, encoded)
	return nil
}

func rawString(t *testing.T, s string) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return data
}

const fixtureJSON = `[
	{"id":"section","elType":"section","settings":{},"elements":[
		{"id":"column","elType":"column","settings":{},"elements":[
			{"id":"w1","elType":"widget","widgetType":"heading","settings":{"title":"Hello"},"elements":[]},
			{"id":"w2","elType":"widget","widgetType":"text-editor","settings":{"editor":"<p>Body</p>"},"elements":[]}
		]}
	]},
	{"id":"container","elType":"container","settings":{},"elements":[
		{"id":"w3","elType":"widget","widgetType":"button","settings":{"text":"Click"},"elements":[]}
	]}
]`

func TestFetchStringPayload(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	doc, err := store.Fetch(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, KindPost, doc.Kind)
	require.Equal(t, 6, CountNodes(doc.Elements))
	require.Equal(t, "section", doc.Elements[0].ID)
}

func TestFetchBareArrayPayload(t *testing.T) {
	client := newFakeMetaClient()
	client.put("pages", 7, map[string]json.RawMessage{
		"_elementor_data": json.RawMessage(fixtureJSON),
	})
	store := NewStore(client, nil)

	doc, err := store.Fetch(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, KindPage, doc.Kind)
	require.Equal(t, 6, CountNodes(doc.Elements))
}

func TestFetchStripsDebugPreamble(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, "garbage\n--- Elementor Data ---\n"+fixtureJSON),
	})
	store := NewStore(client, nil)

	doc, err := store.Fetch(context.Background(), 42)
	require.NoError(t, err)

	clean := newFakeMetaClient()
	clean.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	want, err := NewStore(clean, nil).Fetch(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, want.Elements, doc.Elements, spew.Sdump(doc.Elements))
}

func TestFetchProbeOrder(t *testing.T) {
	client := newFakeMetaClient()
	client.put("elementor_library", 3, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	doc, err := store.Fetch(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, KindTemplate, doc.Kind)
	require.Equal(t, []string{"posts", "pages", "elementor_library"}, client.retrieved)
}

func TestFetchContinuesPastFailedProbe(t *testing.T) {
	client := newFakeMetaClient()
	client.failRetrieve = map[string]error{"posts": errors.New("503 service unavailable")}
	client.put("pages", 7, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	doc, err := store.Fetch(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, KindPage, doc.Kind)
	require.Equal(t, 6, CountNodes(doc.Elements))
}

func TestFetchSurfacesRetrievalErrorAtExhaustion(t *testing.T) {
	client := newFakeMetaClient()
	client.failRetrieve = map[string]error{"pages": errors.New("503 service unavailable")}
	store := NewStore(client, nil)

	_, err := store.Fetch(context.Background(), 7)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
	require.NotErrorIs(t, err, ErrNotFound)
	require.Equal(t, []string{"posts", "pages", "elementor_library"}, client.retrieved)
}

func TestFetchNotFound(t *testing.T) {
	store := NewStore(newFakeMetaClient(), nil)
	_, err := store.Fetch(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "99")
}

func TestFetchNoData(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, ""),
	})
	store := NewStore(client, nil)

	_, err := store.Fetch(context.Background(), 42)
	require.ErrorIs(t, err, ErrNoData)
}

func TestFetchParseError(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, "not json at all"),
	})
	store := NewStore(client, nil)

	_, err := store.Fetch(context.Background(), 42)
	require.ErrorIs(t, err, ErrParse)
}

func TestSaveFetchRoundTrip(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	first, err := store.Fetch(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), first))

	second, err := store.Fetch(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, first.Elements, second.Elements, spew.Sdump(second.Elements))
}

func TestSaveFailed(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	doc, err := store.Fetch(context.Background(), 42)
	require.NoError(t, err)

	client.failSave = true
	require.ErrorIs(t, store.Save(context.Background(), doc), ErrSaveFailed)
}

func TestSaveSetsEditMode(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	doc, err := store.Fetch(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), doc))

	meta := client.resources["posts"][42]
	require.Equal(t, rawString(t, "builder"), meta["_elementor_edit_mode"])
}

func TestUpdatePersistsMutation(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	err := store.Update(context.Background(), 42, func(doc *Document) error {
		return UpdateElement(doc, "w1", map[string]any{"title": "Changed"}, nil)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"posts"}, client.persisted)

	doc, err := store.Fetch(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "Changed", FindByID(doc.Elements, "w1").Settings["title"])
}

func TestUpdateMutationErrorSkipsSave(t *testing.T) {
	client := newFakeMetaClient()
	client.put("posts", 42, map[string]json.RawMessage{
		"_elementor_data": rawString(t, fixtureJSON),
	})
	store := NewStore(client, nil)

	err := store.Update(context.Background(), 42, func(doc *Document) error {
		return errors.New("nope")
	})
	require.Error(t, err)
	require.Empty(t, client.persisted)
}
