package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pagemill/elementor-mcp/elementor"
)

type CreateSectionRequest struct {
	PostID   float64  `json:"postId"`
	Columns  float64  `json:"columns,omitempty"`
	Position *float64 `json:"position,omitempty"`
}

type CreateContainerRequest struct {
	PostID   float64  `json:"postId"`
	Settings string   `json:"settings,omitempty"`
	Position *float64 `json:"position,omitempty"`
}

type AddColumnsRequest struct {
	PostID    float64 `json:"postId"`
	SectionID string  `json:"sectionId"`
	Count     float64 `json:"count,omitempty"`
}

type DuplicateSectionRequest struct {
	PostID    float64 `json:"postId"`
	SectionID string  `json:"sectionId"`
}

func (s *Server) registerCreateTools() {
	s.mcp.AddTool(mcp.NewTool("create_section",
		mcp.WithDescription("Create a top-level section with evenly sized columns"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithNumber("columns", mcp.Description("Number of columns (default 1)")),
		mcp.WithNumber("position", mcp.Description("Index among the top-level elements; out of range appends")),
	), mcp.NewTypedToolHandler(s.handleCreateSection))

	s.mcp.AddTool(mcp.NewTool("create_container",
		mcp.WithDescription("Create a top-level flex container"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("settings", mcp.Description("Initial settings as a JSON object string")),
		mcp.WithNumber("position", mcp.Description("Index among the top-level elements; out of range appends")),
	), mcp.NewTypedToolHandler(s.handleCreateContainer))

	s.mcp.AddTool(mcp.NewTool("add_columns",
		mcp.WithDescription("Append columns to an existing section"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("sectionId", mcp.Required(), mcp.Description("Section to extend")),
		mcp.WithNumber("count", mcp.Description("Number of columns to add (default 1)")),
	), mcp.NewTypedToolHandler(s.handleAddColumns))

	s.mcp.AddTool(mcp.NewTool("duplicate_section",
		mcp.WithDescription("Duplicate a top-level section or container, regenerating every id in the copy"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("sectionId", mcp.Required(), mcp.Description("Top-level element to duplicate")),
	), mcp.NewTypedToolHandler(s.handleDuplicateSection))
}

func (s *Server) handleCreateSection(ctx context.Context, request mcp.CallToolRequest, args CreateSectionRequest) (*mcp.CallToolResult, error) {
	var result *elementor.SectionResult
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.CreateSection(doc, int(args.Columns), indexPtr(args.Position))
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("create_section", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleCreateContainer(ctx context.Context, request mcp.CallToolRequest, args CreateContainerRequest) (*mcp.CallToolResult, error) {
	settings, err := parseSettings(args.Settings)
	if err != nil {
		return errResult(err), nil
	}
	var result *elementor.ContainerResult
	err = s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.CreateContainer(doc, settings, indexPtr(args.Position))
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("create_container", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleAddColumns(ctx context.Context, request mcp.CallToolRequest, args AddColumnsRequest) (*mcp.CallToolResult, error) {
	if args.SectionID == "" {
		return mcp.NewToolResultError("sectionId is required"), nil
	}
	var columnIDs []string
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		columnIDs, opErr = elementor.AddColumns(doc, args.SectionID, int(args.Count))
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("add_columns", int(args.PostID))
	return jsonResult(map[string]any{"sectionId": args.SectionID, "columnIds": columnIDs})
}

func (s *Server) handleDuplicateSection(ctx context.Context, request mcp.CallToolRequest, args DuplicateSectionRequest) (*mcp.CallToolResult, error) {
	if args.SectionID == "" {
		return mcp.NewToolResultError("sectionId is required"), nil
	}
	var result *elementor.DuplicateResult
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.DuplicateSection(doc, args.SectionID)
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("duplicate_section", int(args.PostID))
	return jsonResult(result)
}
