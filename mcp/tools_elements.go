package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pagemill/elementor-mcp/elementor"
)

type AddWidgetRequest struct {
	PostID     float64  `json:"postId"`
	WidgetType string   `json:"widgetType"`
	Settings   string   `json:"settings,omitempty"`
	ColumnID   string   `json:"columnId,omitempty"`
	SectionID  string   `json:"sectionId,omitempty"`
	Position   *float64 `json:"position,omitempty"`
}

type InsertElementRequest struct {
	PostID     float64 `json:"postId"`
	TargetID   string  `json:"targetId"`
	Position   string  `json:"position,omitempty"`
	ElType     string  `json:"elType,omitempty"`
	WidgetType string  `json:"widgetType,omitempty"`
	Settings   string  `json:"settings,omitempty"`
}

type CloneElementRequest struct {
	PostID   float64 `json:"postId"`
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId,omitempty"`
	Position string  `json:"position,omitempty"`
}

type MoveElementRequest struct {
	PostID    float64  `json:"postId"`
	ElementID string   `json:"elementId"`
	ColumnID  string   `json:"columnId,omitempty"`
	SectionID string   `json:"sectionId,omitempty"`
	Position  *float64 `json:"position,omitempty"`
}

type UpdateElementRequest struct {
	PostID    float64 `json:"postId"`
	ElementID string  `json:"elementId"`
	Settings  string  `json:"settings,omitempty"`
	Content   *string `json:"content,omitempty"`
}

type BatchUpdateRequest struct {
	PostID      float64 `json:"postId"`
	ContainerID string  `json:"containerId,omitempty"`
	Updates     string  `json:"updates"`
}

type DeleteElementRequest struct {
	PostID    float64 `json:"postId"`
	ElementID string  `json:"elementId"`
}

type ReorderRequest struct {
	PostID      float64 `json:"postId"`
	ContainerID string  `json:"containerId,omitempty"`
	Order       string  `json:"order"`
}

type CopySettingsRequest struct {
	PostID   float64 `json:"postId"`
	SourceID string  `json:"sourceId"`
	TargetID string  `json:"targetId"`
	Keys     string  `json:"keys,omitempty"`
}

func (s *Server) registerElementTools() {
	s.mcp.AddTool(mcp.NewTool("add_widget",
		mcp.WithDescription("Add a widget to a column, section or container. Without an explicit target the first suitable container on the page is used."),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("widgetType", mcp.Required(), mcp.Description("Widget type, e.g. 'heading', 'button', 'text-editor'")),
		mcp.WithString("settings", mcp.Description("Initial settings as a JSON object string")),
		mcp.WithString("columnId", mcp.Description("Target column id (wins over sectionId)")),
		mcp.WithString("sectionId", mcp.Description("Target section id; its first column receives the widget")),
		mcp.WithNumber("position", mcp.Description("Index among the container's children; out of range appends")),
	), mcp.NewTypedToolHandler(s.handleAddWidget))

	s.mcp.AddTool(mcp.NewTool("insert_element",
		mcp.WithDescription("Create a new element and insert it before, after or inside a target element"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("targetId", mcp.Required(), mcp.Description("Element the insertion is relative to")),
		mcp.WithString("position", mcp.Description("before, after or inside (default: after)")),
		mcp.WithString("elType", mcp.Description("Element type: widget, section, column or container (default: widget)")),
		mcp.WithString("widgetType", mcp.Description("Widget type when elType is widget")),
		mcp.WithString("settings", mcp.Description("Initial settings as a JSON object string")),
	), mcp.NewTypedToolHandler(s.handleInsertElement))

	s.mcp.AddTool(mcp.NewTool("clone_element",
		mcp.WithDescription("Deep-copy an element with fresh ids for the whole subtree and insert the copy next to a target (defaults to right after the original)"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("sourceId", mcp.Required(), mcp.Description("Element to clone")),
		mcp.WithString("targetId", mcp.Description("Element the copy is placed relative to (default: the source)")),
		mcp.WithString("position", mcp.Description("before, after or inside (default: after)")),
	), mcp.NewTypedToolHandler(s.handleCloneElement))

	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move an element (with its subtree, ids preserved) into another column, section or container"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("elementId", mcp.Required(), mcp.Description("Element to move")),
		mcp.WithString("columnId", mcp.Description("Target column id (wins over sectionId)")),
		mcp.WithString("sectionId", mcp.Description("Target section id; its first column receives the element")),
		mcp.WithNumber("position", mcp.Description("Index among the container's children; out of range appends")),
	), mcp.NewTypedToolHandler(s.handleMoveElement))

	s.mcp.AddTool(mcp.NewTool("update_element",
		mcp.WithDescription("Merge settings into an element and/or set its primary content"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("elementId", mcp.Required(), mcp.Description("Element to update")),
		mcp.WithString("settings", mcp.Description("Settings to merge, as a JSON object string; nested objects are replaced, not merged")),
		mcp.WithString("content", mcp.Description("New primary content for the widget")),
	), mcp.NewTypedToolHandler(s.handleUpdateElement))

	s.mcp.AddTool(mcp.NewTool("batch_update_elements",
		mcp.WithDescription("Update several elements inside one container in a single call. Unknown ids are reported, not fatal."),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("containerId", mcp.Description("Container whose subtree scopes the lookups (default: whole document)")),
		mcp.WithString("updates", mcp.Required(), mcp.Description(`JSON array of updates: [{"id": "...", "settings": {...}, "content": "..."}, ...]`)),
	), mcp.NewTypedToolHandler(s.handleBatchUpdate))

	s.mcp.AddTool(mcp.NewTool("delete_element",
		mcp.WithDescription("Delete an element and its whole subtree"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("elementId", mcp.Required(), mcp.Description("Element to delete")),
	), mcp.NewTypedToolHandler(s.handleDeleteElement))

	s.mcp.AddTool(mcp.NewTool("reorder_elements",
		mcp.WithDescription("Reorder the children of a container. Listed ids come first in the given order; children not listed keep their relative order after them."),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("containerId", mcp.Description("Container whose children are reordered (default: top-level elements)")),
		mcp.WithString("order", mcp.Required(), mcp.Description("Comma-separated child ids in the desired order")),
	), mcp.NewTypedToolHandler(s.handleReorder))

	s.mcp.AddTool(mcp.NewTool("copy_element_settings",
		mcp.WithDescription("Copy settings from one element to another: the named keys, or the whole settings map when no keys are given"),
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post, page or template id")),
		mcp.WithString("sourceId", mcp.Required(), mcp.Description("Element to copy from")),
		mcp.WithString("targetId", mcp.Required(), mcp.Description("Element to copy to")),
		mcp.WithString("keys", mcp.Description("Comma-separated settings keys; keys missing on the source are skipped")),
	), mcp.NewTypedToolHandler(s.handleCopySettings))
}

func (s *Server) handleAddWidget(ctx context.Context, request mcp.CallToolRequest, args AddWidgetRequest) (*mcp.CallToolResult, error) {
	if args.WidgetType == "" {
		return mcp.NewToolResultError("widgetType is required"), nil
	}
	settings, err := parseSettings(args.Settings)
	if err != nil {
		return errResult(err), nil
	}
	var result *elementor.AddWidgetResult
	err = s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.AddWidget(doc, elementor.AddWidgetParams{
			WidgetType: args.WidgetType,
			Settings:   settings,
			ColumnID:   args.ColumnID,
			SectionID:  args.SectionID,
			Position:   indexPtr(args.Position),
		})
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("add_widget", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleInsertElement(ctx context.Context, request mcp.CallToolRequest, args InsertElementRequest) (*mcp.CallToolResult, error) {
	if args.TargetID == "" {
		return mcp.NewToolResultError("targetId is required"), nil
	}
	settings, err := parseSettings(args.Settings)
	if err != nil {
		return errResult(err), nil
	}
	elType := args.ElType
	if elType == "" {
		elType = elementor.TypeWidget
	}
	position := elementor.Position(args.Position)
	if position == "" {
		position = elementor.PositionAfter
	}
	node := elementor.NewNode(elType, args.WidgetType, settings)
	var result *elementor.InsertResult
	err = s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.InsertElement(doc, node, args.TargetID, position)
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("insert_element", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleCloneElement(ctx context.Context, request mcp.CallToolRequest, args CloneElementRequest) (*mcp.CallToolResult, error) {
	if args.SourceID == "" {
		return mcp.NewToolResultError("sourceId is required"), nil
	}
	var result *elementor.CloneResult
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.CloneElement(doc, args.SourceID, args.TargetID, elementor.Position(args.Position))
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("clone_element", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleMoveElement(ctx context.Context, request mcp.CallToolRequest, args MoveElementRequest) (*mcp.CallToolResult, error) {
	if args.ElementID == "" {
		return mcp.NewToolResultError("elementId is required"), nil
	}
	var result *elementor.MoveResult
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.MoveElement(doc, args.ElementID, args.ColumnID, args.SectionID, indexPtr(args.Position))
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("move_element", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleUpdateElement(ctx context.Context, request mcp.CallToolRequest, args UpdateElementRequest) (*mcp.CallToolResult, error) {
	if args.ElementID == "" {
		return mcp.NewToolResultError("elementId is required"), nil
	}
	settings, err := parseSettings(args.Settings)
	if err != nil {
		return errResult(err), nil
	}
	err = s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		return elementor.UpdateElement(doc, args.ElementID, settings, args.Content)
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("update_element", int(args.PostID))
	return jsonResult(map[string]any{"updated": args.ElementID})
}

func (s *Server) handleBatchUpdate(ctx context.Context, request mcp.CallToolRequest, args BatchUpdateRequest) (*mcp.CallToolResult, error) {
	var updates []elementor.ElementUpdate
	if err := json.Unmarshal([]byte(args.Updates), &updates); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("updates must be a JSON array: %v", err)), nil
	}
	if len(updates) == 0 {
		return mcp.NewToolResultError("updates is empty"), nil
	}
	var result *elementor.BatchResult
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.BatchUpdate(doc, args.ContainerID, updates)
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("batch_update_elements", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleDeleteElement(ctx context.Context, request mcp.CallToolRequest, args DeleteElementRequest) (*mcp.CallToolResult, error) {
	if args.ElementID == "" {
		return mcp.NewToolResultError("elementId is required"), nil
	}
	var result *elementor.DeleteResult
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		result, opErr = elementor.DeleteElement(doc, args.ElementID)
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("delete_element", int(args.PostID))
	return jsonResult(result)
}

func (s *Server) handleReorder(ctx context.Context, request mcp.CallToolRequest, args ReorderRequest) (*mcp.CallToolResult, error) {
	order := splitIDs(args.Order)
	if len(order) == 0 {
		return mcp.NewToolResultError("order is required"), nil
	}
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		return elementor.Reorder(doc, args.ContainerID, order)
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("reorder_elements", int(args.PostID))
	return jsonResult(map[string]any{"reordered": order})
}

func (s *Server) handleCopySettings(ctx context.Context, request mcp.CallToolRequest, args CopySettingsRequest) (*mcp.CallToolResult, error) {
	if args.SourceID == "" || args.TargetID == "" {
		return mcp.NewToolResultError("sourceId and targetId are required"), nil
	}
	var copied int
	err := s.store.Update(ctx, int(args.PostID), func(doc *elementor.Document) error {
		var opErr error
		copied, opErr = elementor.CopySettings(doc, args.SourceID, args.TargetID, splitIDs(args.Keys))
		return opErr
	})
	if err != nil {
		return errResult(err), nil
	}
	s.notifyChange("copy_element_settings", int(args.PostID))
	return jsonResult(map[string]any{"sourceId": args.SourceID, "targetId": args.TargetID, "copiedKeys": copied})
}
