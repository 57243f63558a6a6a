package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/pagemill/elementor-mcp/elementor"
)

// fakeMetaClient backs the store with an in-memory posts collection.
type fakeMetaClient struct {
	meta map[int]map[string]json.RawMessage
}

type fakeNotFound struct{ id int }

func (e *fakeNotFound) Error() string  { return fmt.Sprintf("post %d not found", e.id) }
func (e *fakeNotFound) NotFound() bool { return true }

func (f *fakeMetaClient) RetrieveMeta(_ context.Context, collection string, id int) (map[string]json.RawMessage, error) {
	if collection != "posts" {
		return nil, &fakeNotFound{id: id}
	}
	meta, ok := f.meta[id]
	if !ok {
		return nil, &fakeNotFound{id: id}
	}
	return meta, nil
}

func (f *fakeMetaClient) PersistMeta(_ context.Context, collection string, id int, meta map[string]any) error {
	if collection != "posts" {
		return &fakeNotFound{id: id}
	}
	if _, ok := f.meta[id]; !ok {
		return &fakeNotFound{id: id}
	}
	encoded := map[string]json.RawMessage{}
	for k, v := range meta {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded[k] = data
	}
	f.meta[id] = encoded
	return nil
}

const testTree = `[
	{"id":"sec1","elType":"section","settings":{},"elements":[
		{"id":"col1","elType":"column","settings":{},"elements":[
			{"id":"head1","elType":"widget","widgetType":"heading","settings":{"title":"Hello"},"elements":[]}
		]}
	]}
]`

func newTestServer(t *testing.T) (*Server, *fakeMetaClient) {
	t.Helper()
	payload, err := json.Marshal(testTree)
	require.NoError(t, err)
	client := &fakeMetaClient{meta: map[int]map[string]json.RawMessage{
		42: {"_elementor_data": payload},
	}}
	store := elementor.NewStore(client, nil)
	return NewServer(nil, store, nil, nil), client
}

func callRequest(name string, args any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params:  mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewServer(t *testing.T) {
	s, _ := newTestServer(t)
	require.NotNil(t, s)
	require.NotNil(t, s.MCP())
}

func TestGetPageStructureHandler(t *testing.T) {
	s, _ := newTestServer(t)
	args := GetPageStructureRequest{PostID: 42}
	result, err := s.handleGetPageStructure(context.Background(), callRequest("get_page_structure", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var resp GetPageStructureResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	require.Equal(t, 42, resp.PostID)
	require.Equal(t, "posts", resp.Kind)
	require.Equal(t, 3, resp.Elements)
	require.Equal(t, "Hello", resp.Outline[2].Content)
}

func TestGetPageStructureUnknownPost(t *testing.T) {
	s, _ := newTestServer(t)
	args := GetPageStructureRequest{PostID: 999}
	result, err := s.handleGetPageStructure(context.Background(), callRequest("get_page_structure", args), args)
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestAddWidgetHandler(t *testing.T) {
	s, client := newTestServer(t)
	args := AddWidgetRequest{PostID: 42, WidgetType: "button", Settings: `{"text":"Go"}`}
	result, err := s.handleAddWidget(context.Background(), callRequest("add_widget", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var res elementor.AddWidgetResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
	require.Equal(t, "col1", res.ContainerID)

	// the mutation was persisted
	var stored string
	require.NoError(t, json.Unmarshal(client.meta[42]["_elementor_data"], &stored))
	require.True(t, strings.Contains(stored, res.WidgetID))
}

func TestAddWidgetHandlerValidation(t *testing.T) {
	s, _ := newTestServer(t)
	args := AddWidgetRequest{PostID: 42}
	result, err := s.handleAddWidget(context.Background(), callRequest("add_widget", args), args)
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestAddWidgetHandlerBadSettings(t *testing.T) {
	s, _ := newTestServer(t)
	args := AddWidgetRequest{PostID: 42, WidgetType: "button", Settings: "{broken"}
	result, err := s.handleAddWidget(context.Background(), callRequest("add_widget", args), args)
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestUpdateElementHandlerUnknownID(t *testing.T) {
	s, client := newTestServer(t)
	before := string(client.meta[42]["_elementor_data"])

	args := UpdateElementRequest{PostID: 42, ElementID: "ghost", Settings: `{"title":"X"}`}
	result, err := s.handleUpdateElement(context.Background(), callRequest("update_element", args), args)
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, resultText(t, result), "ghost")

	// a failed mutation is not saved
	require.Equal(t, before, string(client.meta[42]["_elementor_data"]))
}

func TestBatchUpdateHandler(t *testing.T) {
	s, _ := newTestServer(t)
	args := BatchUpdateRequest{
		PostID:      42,
		ContainerID: "sec1",
		Updates:     `[{"id":"head1","content":"Changed"},{"id":"ghost","settings":{"x":1}}]`,
	}
	result, err := s.handleBatchUpdate(context.Background(), callRequest("batch_update_elements", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var res elementor.BatchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
	require.Equal(t, []string{"head1"}, res.Updated)
	require.Equal(t, []string{"ghost"}, res.NotFound)
}

func TestReorderHandlerReportsMissingIDs(t *testing.T) {
	s, _ := newTestServer(t)
	args := ReorderRequest{PostID: 42, ContainerID: "col1", Order: "ghost1, ghost2"}
	result, err := s.handleReorder(context.Background(), callRequest("reorder_elements", args), args)
	require.NoError(t, err)
	require.True(t, result.IsError)
	text := resultText(t, result)
	require.Contains(t, text, "ghost1")
	require.Contains(t, text, "ghost2")
}

func TestDeleteElementHandler(t *testing.T) {
	s, client := newTestServer(t)
	args := DeleteElementRequest{PostID: 42, ElementID: "col1"}
	result, err := s.handleDeleteElement(context.Background(), callRequest("delete_element", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var res elementor.DeleteResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
	require.Equal(t, 2, res.Removed)

	var stored string
	require.NoError(t, json.Unmarshal(client.meta[42]["_elementor_data"], &stored))
	require.False(t, strings.Contains(stored, "head1"))
}

func TestSplitIDs(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitIDs("a, b"))
	require.Equal(t, []string{"a"}, splitIDs("a,,"))
	require.Nil(t, splitIDs(""))
}
