package elementor

// Element types used by the page builder.
const (
	TypeSection   = "section"
	TypeColumn    = "column"
	TypeWidget    = "widget"
	TypeContainer = "container"
)

// Node is one element of the page tree: a section, column, container or
// widget. Elements nest arbitrarily; the order of Elements is the rendering
// order.
type Node struct {
	ID         string         `json:"id"`
	ElType     string         `json:"elType"`
	WidgetType string         `json:"widgetType,omitempty"`
	Settings   map[string]any `json:"settings"`
	IsInner    bool           `json:"isInner,omitempty"`
	Elements   []*Node        `json:"elements"`
}

// NewNode builds an element with a fresh id. settings may be nil.
func NewNode(elType, widgetType string, settings map[string]any) *Node {
	return &Node{
		ID:         NewID(),
		ElType:     elType,
		WidgetType: widgetType,
		Settings:   deepCopySettings(settings),
		Elements:   []*Node{},
	}
}

// IsWidget reports whether the node is a widget of the given type. An empty
// widgetType matches any widget.
func (n *Node) IsWidget(widgetType string) bool {
	if n.ElType != TypeWidget {
		return false
	}
	return widgetType == "" || n.WidgetType == widgetType
}

// Clone returns a deep copy of the node. Ids are copied verbatim; use
// RegenerateIDs when the copy is going to live next to the original.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:         n.ID,
		ElType:     n.ElType,
		WidgetType: n.WidgetType,
		IsInner:    n.IsInner,
		Settings:   deepCopySettings(n.Settings),
	}
	if n.Elements != nil {
		c.Elements = make([]*Node, len(n.Elements))
		for i, child := range n.Elements {
			c.Elements[i] = child.Clone()
		}
	}
	return c
}

// deepCopySettings copies a settings map so that no value is shared between
// two nodes.
func deepCopySettings(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		out[k] = deepCopyValue(v)
	}
	return out
}

// deepCopyValue copies one settings value. Settings hold JSON-shaped data,
// so maps and slices are the only reference types that occur.
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// Document is the ordered forest of top-level nodes stored for one post,
// together with the resource kind the post resolved to when it was fetched.
type Document struct {
	PostID   int
	Kind     ResourceKind
	Elements []*Node
}
