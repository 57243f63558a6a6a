package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pagemill/elementor-mcp/elementor"
)

type GetPageStructureRequest struct {
	PostID float64 `json:"postId"`
}

type GetPageStructureResponse struct {
	PostID   int                      `json:"postId"`
	Kind     string                   `json:"resourceKind"`
	Elements int                      `json:"elements"`
	Outline  []elementor.OutlineEntry `json:"outline"`
}

type FindElementsRequest struct {
	PostID          float64 `json:"postId"`
	WidgetType      string  `json:"widgetType"`
	IncludeSettings bool    `json:"includeSettings"`
}

type FoundElement struct {
	ID       string         `json:"id"`
	Settings map[string]any `json:"settings,omitempty"`
}

type FindElementsResponse struct {
	WidgetType string         `json:"widgetType"`
	Matches    []FoundElement `json:"matches"`
}

type GetElementContentRequest struct {
	PostID    float64 `json:"postId"`
	ElementID string  `json:"elementId"`
}

type GetElementContentResponse struct {
	ElementID  string `json:"elementId"`
	WidgetType string `json:"widgetType"`
	Content    any    `json:"content"`
}

type ExtractPageTextRequest struct {
	PostID float64 `json:"postId"`
}

type ExtractPageTextResponse struct {
	PostID int                   `json:"postId"`
	Texts  []elementor.TextEntry `json:"texts"`
}

func (s *Server) registerStructureTools() {
	s.mcp.AddTool(mcp.NewTool("get_page_structure",
		mcp.WithDescription("Dump the Elementor element tree of a post as a depth-annotated outline with ids, types and content previews"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
	), mcp.NewTypedToolHandler(s.handleGetPageStructure))

	s.mcp.AddTool(mcp.NewTool("find_elements_by_type",
		mcp.WithDescription("Find all widgets of a given widget type in a post"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("widgetType", mcp.Required(), mcp.Description("Widget type to match, e.g. 'heading' or 'button'")),
		mcp.WithBoolean("includeSettings", mcp.Description("Include each match's settings in the result")),
	), mcp.NewTypedToolHandler(s.handleFindElements))

	s.mcp.AddTool(mcp.NewTool("get_element_content",
		mcp.WithDescription("Read the primary content of one widget (the title of a heading, the body of a text editor, ...)"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("elementId", mcp.Required(), mcp.Description("Element id")),
	), mcp.NewTypedToolHandler(s.handleGetElementContent))

	s.mcp.AddTool(mcp.NewTool("extract_page_text",
		mcp.WithDescription("Extract the textual content of every mapped widget on a post, HTML bodies converted to markdown"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
	), mcp.NewTypedToolHandler(s.handleExtractPageText))
}

func (s *Server) handleGetPageStructure(ctx context.Context, request mcp.CallToolRequest, args GetPageStructureRequest) (*mcp.CallToolResult, error) {
	doc, err := s.store.Fetch(ctx, int(args.PostID))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(GetPageStructureResponse{
		PostID:   doc.PostID,
		Kind:     string(doc.Kind),
		Elements: elementor.CountNodes(doc.Elements),
		Outline:  elementor.Outline(doc.Elements),
	})
}

func (s *Server) handleFindElements(ctx context.Context, request mcp.CallToolRequest, args FindElementsRequest) (*mcp.CallToolResult, error) {
	if args.WidgetType == "" {
		return mcp.NewToolResultError("widgetType is required"), nil
	}
	doc, err := s.store.Fetch(ctx, int(args.PostID))
	if err != nil {
		return errResult(err), nil
	}
	matches := elementor.FindByWidgetType(doc.Elements, args.WidgetType)
	resp := FindElementsResponse{WidgetType: args.WidgetType, Matches: make([]FoundElement, 0, len(matches))}
	for _, n := range matches {
		found := FoundElement{ID: n.ID}
		if args.IncludeSettings {
			found.Settings = n.Settings
		}
		resp.Matches = append(resp.Matches, found)
	}
	return jsonResult(resp)
}

func (s *Server) handleGetElementContent(ctx context.Context, request mcp.CallToolRequest, args GetElementContentRequest) (*mcp.CallToolResult, error) {
	if args.ElementID == "" {
		return mcp.NewToolResultError("elementId is required"), nil
	}
	doc, err := s.store.Fetch(ctx, int(args.PostID))
	if err != nil {
		return errResult(err), nil
	}
	n := elementor.FindByID(doc.Elements, args.ElementID)
	if n == nil {
		return mcp.NewToolResultError("element " + args.ElementID + " not found"), nil
	}
	content, ok := elementor.GetContent(n)
	if !ok {
		return mcp.NewToolResultError("element " + args.ElementID + " has no mapped content field"), nil
	}
	return jsonResult(GetElementContentResponse{ElementID: n.ID, WidgetType: n.WidgetType, Content: content})
}

func (s *Server) handleExtractPageText(ctx context.Context, request mcp.CallToolRequest, args ExtractPageTextRequest) (*mcp.CallToolResult, error) {
	doc, err := s.store.Fetch(ctx, int(args.PostID))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(ExtractPageTextResponse{PostID: doc.PostID, Texts: elementor.ExtractTexts(doc.Elements)})
}
