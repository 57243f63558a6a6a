package elementor

// contentFields maps a widget type to the settings key carrying its primary
// human-visible content. Widget types missing from the table have no content
// field; their text lives in widget-specific settings the caller has to
// address directly.
var contentFields = map[string]string{
	"heading":     "title",
	"text-editor": "editor",
	"button":      "text",
	"icon-box":    "title_text",
	"image-box":   "title_text",
	"testimonial": "testimonial_content",
	"blockquote":  "blockquote_content",
	"alert":       "alert_title",
	"counter":     "title",
	"progress":    "title",
}

// legacyContentFields are last-resort key guesses for widget types the main
// table never covered. Consulted only by the update operation.
var legacyContentFields = map[string]string{
	"html":      "html",
	"shortcode": "shortcode",
	"video":     "youtube_url",
}

// ContentFieldFor returns the settings key holding the primary content of the
// given widget type.
func ContentFieldFor(widgetType string) (string, bool) {
	key, ok := contentFields[widgetType]
	return key, ok
}

// GetContent returns the node's primary content value. ok is false when the
// node is not a widget, has no content mapping, or the mapped key is unset.
func GetContent(n *Node) (any, bool) {
	if n.WidgetType == "" {
		return nil, false
	}
	key, ok := contentFields[n.WidgetType]
	if !ok {
		return nil, false
	}
	v, ok := n.Settings[key]
	return v, ok
}

// SetContent sets the node's primary content, creating the settings key when
// absent. It returns false, without mutating anything, when the node is not a
// widget or its widget type has no content mapping.
func SetContent(n *Node, value any) bool {
	if n.WidgetType == "" {
		return false
	}
	key, ok := contentFields[n.WidgetType]
	if !ok {
		return false
	}
	if n.Settings == nil {
		n.Settings = map[string]any{}
	}
	n.Settings[key] = value
	return true
}

// setContentWithFallback is SetContent plus the legacy key guesses. Used by
// the update operations, where a caller supplied content for a widget the
// main table does not know.
func setContentWithFallback(n *Node, value any) bool {
	if SetContent(n, value) {
		return true
	}
	key, ok := legacyContentFields[n.WidgetType]
	if !ok {
		return false
	}
	if n.Settings == nil {
		n.Settings = map[string]any{}
	}
	n.Settings[key] = value
	return true
}
