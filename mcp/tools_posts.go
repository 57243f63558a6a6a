package mcp

import (
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pagemill/elementor-mcp/render"
	"github.com/pagemill/elementor-mcp/wp"
)

type ListPostsRequest struct {
	Collection string  `json:"collection,omitempty"`
	Search     string  `json:"search,omitempty"`
	Status     string  `json:"status,omitempty"`
	PerPage    float64 `json:"perPage,omitempty"`
	Page       float64 `json:"page,omitempty"`
}

type GetPostRequest struct {
	Collection string  `json:"collection,omitempty"`
	PostID     float64 `json:"postId"`
}

type CreatePostRequest struct {
	Collection string `json:"collection,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content,omitempty"`
	Status     string `json:"status,omitempty"`
	Slug       string `json:"slug,omitempty"`
}

type UpdatePostRequest struct {
	Collection string  `json:"collection,omitempty"`
	PostID     float64 `json:"postId"`
	Title      string  `json:"title,omitempty"`
	Content    string  `json:"content,omitempty"`
	Excerpt    string  `json:"excerpt,omitempty"`
	Status     string  `json:"status,omitempty"`
	Slug       string  `json:"slug,omitempty"`
}

type DeletePostRequest struct {
	Collection string  `json:"collection,omitempty"`
	PostID     float64 `json:"postId"`
	Force      bool    `json:"force,omitempty"`
}

type PostMarkdownRequest struct {
	Collection string  `json:"collection,omitempty"`
	PostID     float64 `json:"postId"`
}

type PostMarkdownResponse struct {
	PostID   int    `json:"postId"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

type RenderedPageRequest struct {
	Collection string  `json:"collection,omitempty"`
	PostID     float64 `json:"postId"`
	Selector   string  `json:"selector,omitempty"`
}

func collectionOrPosts(collection string) string {
	if collection == "" {
		return "posts"
	}
	return collection
}

// The post tools are logic-free proxies onto the REST API; everything
// interesting about them lives in the wp client.
func (s *Server) registerPostTools() {
	collectionArg := mcp.WithString("collection", mcp.Description("REST collection: posts (default) or pages"))

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List posts or pages"),
		collectionArg,
		mcp.WithString("search", mcp.Description("Full-text search term")),
		mcp.WithString("status", mcp.Description("Filter by status, e.g. publish or draft")),
		mcp.WithNumber("perPage", mcp.Description("Results per page (default 10)")),
		mcp.WithNumber("page", mcp.Description("Result page")),
	), mcp.NewTypedToolHandler(s.handleListPosts))

	s.mcp.AddTool(mcp.NewTool("get_post",
		mcp.WithDescription("Get one post or page"),
		collectionArg,
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post or page id")),
	), mcp.NewTypedToolHandler(s.handleGetPost))

	s.mcp.AddTool(mcp.NewTool("create_post",
		mcp.WithDescription("Create a post or page"),
		collectionArg,
		mcp.WithString("title", mcp.Required(), mcp.Description("Title")),
		mcp.WithString("content", mcp.Description("Body HTML")),
		mcp.WithString("status", mcp.Description("publish, draft, ... (default draft)")),
		mcp.WithString("slug", mcp.Description("URL slug")),
	), mcp.NewTypedToolHandler(s.handleCreatePost))

	s.mcp.AddTool(mcp.NewTool("update_post",
		mcp.WithDescription("Partially update a post or page; empty fields are left unchanged"),
		collectionArg,
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post or page id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New body HTML")),
		mcp.WithString("excerpt", mcp.Description("New excerpt")),
		mcp.WithString("status", mcp.Description("New status")),
		mcp.WithString("slug", mcp.Description("New slug")),
	), mcp.NewTypedToolHandler(s.handleUpdatePost))

	s.mcp.AddTool(mcp.NewTool("delete_post",
		mcp.WithDescription("Delete a post or page; without force it goes to the trash"),
		collectionArg,
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post or page id")),
		mcp.WithBoolean("force", mcp.Description("Skip the trash and delete permanently")),
	), mcp.NewTypedToolHandler(s.handleDeletePost))

	s.mcp.AddTool(mcp.NewTool("get_post_content_markdown",
		mcp.WithDescription("Fetch a post's rendered content and convert it to markdown"),
		collectionArg,
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post or page id")),
	), mcp.NewTypedToolHandler(s.handlePostMarkdown))

	s.mcp.AddTool(mcp.NewTool("get_rendered_page",
		mcp.WithDescription("Fetch the published page from the site front end and return a fragment as markdown, to inspect what a builder change actually renders"),
		collectionArg,
		mcp.WithNumber("postId", mcp.Required(), mcp.Description("Post or page id")),
		mcp.WithString("selector", mcp.Description("Fragment selector: '#id', '.class' or a tag name (default 'body')")),
	), mcp.NewTypedToolHandler(s.handleRenderedPage))
}

func (s *Server) handleListPosts(ctx context.Context, request mcp.CallToolRequest, args ListPostsRequest) (*mcp.CallToolResult, error) {
	posts, err := s.wp.ListPosts(ctx, collectionOrPosts(args.Collection), wp.ListPostsParams{
		Search:  args.Search,
		Status:  args.Status,
		PerPage: int(args.PerPage),
		Page:    int(args.Page),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(posts)
}

func (s *Server) handleGetPost(ctx context.Context, request mcp.CallToolRequest, args GetPostRequest) (*mcp.CallToolResult, error) {
	post, err := s.wp.GetPost(ctx, collectionOrPosts(args.Collection), int(args.PostID))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(post)
}

func (s *Server) handleCreatePost(ctx context.Context, request mcp.CallToolRequest, args CreatePostRequest) (*mcp.CallToolResult, error) {
	if args.Title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	status := args.Status
	if status == "" {
		status = "draft"
	}
	post, err := s.wp.CreatePost(ctx, collectionOrPosts(args.Collection), wp.PostInput{
		Title:   args.Title,
		Content: args.Content,
		Status:  status,
		Slug:    args.Slug,
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(post)
}

func (s *Server) handleUpdatePost(ctx context.Context, request mcp.CallToolRequest, args UpdatePostRequest) (*mcp.CallToolResult, error) {
	post, err := s.wp.UpdatePost(ctx, collectionOrPosts(args.Collection), int(args.PostID), wp.PostInput{
		Title:   args.Title,
		Content: args.Content,
		Excerpt: args.Excerpt,
		Status:  args.Status,
		Slug:    args.Slug,
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(post)
}

func (s *Server) handleDeletePost(ctx context.Context, request mcp.CallToolRequest, args DeletePostRequest) (*mcp.CallToolResult, error) {
	collection := collectionOrPosts(args.Collection)
	if err := s.wp.DeletePost(ctx, collection, int(args.PostID), args.Force); err != nil {
		return errResult(err), nil
	}
	return jsonResult(map[string]any{"deleted": int(args.PostID), "collection": collection, "force": args.Force})
}

func (s *Server) handlePostMarkdown(ctx context.Context, request mcp.CallToolRequest, args PostMarkdownRequest) (*mcp.CallToolResult, error) {
	post, err := s.wp.GetPost(ctx, collectionOrPosts(args.Collection), int(args.PostID))
	if err != nil {
		return errResult(err), nil
	}
	markdown, err := htmltomarkdown.ConvertString(post.Content.Rendered)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to convert content to markdown: %v", err)), nil
	}
	return jsonResult(PostMarkdownResponse{
		PostID:   post.ID,
		Title:    post.Title.Rendered,
		Markdown: strings.TrimSpace(markdown),
	})
}

func (s *Server) handleRenderedPage(ctx context.Context, request mcp.CallToolRequest, args RenderedPageRequest) (*mcp.CallToolResult, error) {
	post, err := s.wp.GetPost(ctx, collectionOrPosts(args.Collection), int(args.PostID))
	if err != nil {
		return errResult(err), nil
	}
	if post.Link == "" {
		return mcp.NewToolResultError(fmt.Sprintf("post %d has no public link", post.ID)), nil
	}
	snap, err := render.Page(ctx, nil, post.Link, args.Selector)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(snap)
}
