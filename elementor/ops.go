package elementor

import "fmt"

// Position names where an element lands relative to a target.
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	PositionInside Position = "inside"
)

// AddWidgetParams describes one widget insertion. ColumnID wins over
// SectionID; with neither set the first container-capable node of the
// document is used.
type AddWidgetParams struct {
	WidgetType string
	Settings   map[string]any
	ColumnID   string
	SectionID  string
	Position   *int
}

type AddWidgetResult struct {
	WidgetID    string `json:"widgetId"`
	ContainerID string `json:"containerId"`
	Index       int    `json:"index"`
}

// AddWidget creates a widget with a fresh id and inserts it into the
// resolved container. An in-range Position splices, anything else appends.
func AddWidget(doc *Document, p AddWidgetParams) (*AddWidgetResult, error) {
	container, err := resolveContainer(doc, p.ColumnID, p.SectionID)
	if err != nil {
		return nil, err
	}
	widget := &Node{
		ID:         NewID(),
		ElType:     TypeWidget,
		WidgetType: p.WidgetType,
		Settings:   deepCopySettings(p.Settings),
		Elements:   []*Node{},
	}
	index := insertChild(container, widget, p.Position)
	return &AddWidgetResult{WidgetID: widget.ID, ContainerID: container.ID, Index: index}, nil
}

// resolveContainer picks the node new children go into: the explicit column,
// else the explicit section's first column, else the first
// container-capable node anywhere in the document.
func resolveContainer(doc *Document, columnID, sectionID string) (*Node, error) {
	if columnID != "" {
		n := FindByID(doc.Elements, columnID)
		if n == nil {
			return nil, notFoundf("column %s", columnID)
		}
		return sectionToColumn(n)
	}
	if sectionID != "" {
		n := FindByID(doc.Elements, sectionID)
		if n == nil {
			return nil, notFoundf("section %s", sectionID)
		}
		return sectionToColumn(n)
	}
	if container := defaultContainer(doc.Elements); container != nil {
		return container, nil
	}
	return nil, fmt.Errorf("%w: document has no column, section or container to insert into", ErrInvalidContainer)
}

// sectionToColumn substitutes a section by its first column; any other node
// is container enough on its own.
func sectionToColumn(n *Node) (*Node, error) {
	if n.ElType != TypeSection {
		return n, nil
	}
	for _, child := range n.Elements {
		if child.ElType == TypeColumn {
			return child, nil
		}
	}
	return nil, fmt.Errorf("%w: section %s has no columns", ErrInvalidContainer, n.ID)
}

// defaultContainer is the fallback search: the first column anywhere, else
// the first section's first column, else the first flex container.
func defaultContainer(roots []*Node) *Node {
	if cols := Filter(roots, func(n *Node) bool { return n.ElType == TypeColumn }); len(cols) > 0 {
		return cols[0]
	}
	if secs := Filter(roots, func(n *Node) bool { return n.ElType == TypeSection }); len(secs) > 0 {
		for _, child := range secs[0].Elements {
			if child.ElType == TypeColumn {
				return child
			}
		}
	}
	if containers := Filter(roots, func(n *Node) bool { return n.ElType == TypeContainer }); len(containers) > 0 {
		return containers[0]
	}
	return nil
}

// insertChild splices node into parent.Elements at *pos when that is within
// [0, len], appending otherwise, and returns the final index.
func insertChild(parent *Node, node *Node, pos *int) int {
	if pos != nil && *pos >= 0 && *pos <= len(parent.Elements) {
		return spliceInto(&parent.Elements, node, *pos)
	}
	parent.Elements = append(parent.Elements, node)
	return len(parent.Elements) - 1
}

func spliceInto(list *[]*Node, node *Node, index int) int {
	*list = append(*list, nil)
	copy((*list)[index+1:], (*list)[index:])
	(*list)[index] = node
	return index
}

type InsertResult struct {
	ElementID string `json:"elementId"`
	ParentID  string `json:"parentId,omitempty"`
	Index     int    `json:"index"`
}

// InsertElement places node before, after or inside the target element.
// Inserting a node into its own subtree is rejected, as is any position
// other than the three named ones.
func InsertElement(doc *Document, node *Node, targetID string, position Position) (*InsertResult, error) {
	switch position {
	case PositionBefore, PositionAfter, PositionInside:
	default:
		return nil, fmt.Errorf("position must be %q, %q or %q, got %q",
			PositionBefore, PositionAfter, PositionInside, position)
	}
	if FindByID([]*Node{node}, targetID) != nil {
		return nil, fmt.Errorf("%w: target %s is inside the inserted element", ErrInvalidContainer, targetID)
	}
	target := FindByID(doc.Elements, targetID)
	if target == nil {
		return nil, notFoundf("element %s", targetID)
	}

	if position == PositionInside {
		target.Elements = append(target.Elements, node)
		return &InsertResult{ElementID: node.ID, ParentID: target.ID, Index: len(target.Elements) - 1}, nil
	}

	parent, index, _ := FindParent(doc.Elements, targetID)
	if position == PositionAfter {
		index++
	}
	if parent == nil {
		spliceInto(&doc.Elements, node, index)
		return &InsertResult{ElementID: node.ID, Index: index}, nil
	}
	spliceInto(&parent.Elements, node, index)
	return &InsertResult{ElementID: node.ID, ParentID: parent.ID, Index: index}, nil
}

type CloneResult struct {
	NewID    string `json:"newId"`
	SourceID string `json:"sourceId"`
	ParentID string `json:"parentId,omitempty"`
	Index    int    `json:"index"`
}

// CloneElement deep-copies the source subtree with fresh ids everywhere and
// inserts the copy next to targetID (the source itself when no target is
// given), after it unless a position says otherwise.
func CloneElement(doc *Document, sourceID, targetID string, position Position) (*CloneResult, error) {
	source := FindByID(doc.Elements, sourceID)
	if source == nil {
		return nil, notFoundf("element %s", sourceID)
	}
	if targetID == "" {
		targetID = sourceID
	}
	if position == "" {
		position = PositionAfter
	}
	clone := RegenerateIDs(source)
	res, err := InsertElement(doc, clone, targetID, position)
	if err != nil {
		return nil, err
	}
	return &CloneResult{NewID: clone.ID, SourceID: sourceID, ParentID: res.ParentID, Index: res.Index}, nil
}

// removeElement excises the subtree rooted at id and returns it.
func removeElement(doc *Document, id string) (*Node, error) {
	parent, index, ok := FindParent(doc.Elements, id)
	if !ok {
		return nil, notFoundf("element %s", id)
	}
	if parent == nil {
		node := doc.Elements[index]
		doc.Elements = append(doc.Elements[:index], doc.Elements[index+1:]...)
		return node, nil
	}
	node := parent.Elements[index]
	parent.Elements = append(parent.Elements[:index], parent.Elements[index+1:]...)
	return node, nil
}

type MoveResult struct {
	ElementID   string `json:"elementId"`
	ContainerID string `json:"containerId"`
	Index       int    `json:"index"`
}

// MoveElement removes the subtree rooted at elementID from wherever it sits
// and reinserts it, id and children intact, using the same container
// resolution as AddWidget. The removal happens first, so a container id
// inside the moved subtree no longer resolves and the move fails.
func MoveElement(doc *Document, elementID, columnID, sectionID string, pos *int) (*MoveResult, error) {
	node, err := removeElement(doc, elementID)
	if err != nil {
		return nil, err
	}
	container, err := resolveContainer(doc, columnID, sectionID)
	if err != nil {
		return nil, err
	}
	index := insertChild(container, node, pos)
	return &MoveResult{ElementID: node.ID, ContainerID: container.ID, Index: index}, nil
}

// UpdateElement merges settings into the element key by key (nested objects
// are replaced wholesale) and optionally sets its primary content. Content
// on a widget type without a known content field is an error; callers are
// pointed at raw settings instead.
func UpdateElement(doc *Document, id string, settings map[string]any, content *string) error {
	n := FindByID(doc.Elements, id)
	if n == nil {
		return notFoundf("element %s", id)
	}
	mergeSettings(n, settings)
	if content != nil {
		if !setContentWithFallback(n, *content) {
			return fmt.Errorf("%w: widget type %q has no content field, update the value via settings instead",
				ErrUnsupportedContent, n.WidgetType)
		}
	}
	return nil
}

func mergeSettings(n *Node, settings map[string]any) {
	if len(settings) == 0 {
		return
	}
	if n.Settings == nil {
		n.Settings = map[string]any{}
	}
	for k, v := range settings {
		n.Settings[k] = deepCopyValue(v)
	}
}

// ElementUpdate is one item of a batch update.
type ElementUpdate struct {
	ID       string         `json:"id"`
	Settings map[string]any `json:"settings,omitempty"`
	Content  *string        `json:"content,omitempty"`
}

type BatchResult struct {
	Updated  []string `json:"updated"`
	NotFound []string `json:"notFound"`
}

// BatchUpdate applies updates to elements inside one container's subtree
// (the whole document when containerID is empty). Ids missing from the
// subtree are collected instead of aborting the batch, and content fallback
// failures are skipped silently; per-item errors would make a large batch
// useless.
func BatchUpdate(doc *Document, containerID string, updates []ElementUpdate) (*BatchResult, error) {
	scope := doc.Elements
	if containerID != "" {
		container := FindByID(doc.Elements, containerID)
		if container == nil {
			return nil, notFoundf("container %s", containerID)
		}
		scope = []*Node{container}
	}

	res := &BatchResult{Updated: []string{}, NotFound: []string{}}
	for _, u := range updates {
		n := FindByID(scope, u.ID)
		if n == nil {
			res.NotFound = append(res.NotFound, u.ID)
			continue
		}
		mergeSettings(n, u.Settings)
		if u.Content != nil {
			setContentWithFallback(n, *u.Content)
		}
		res.Updated = append(res.Updated, u.ID)
	}
	return res, nil
}

type DeleteResult struct {
	DeletedID string `json:"deletedId"`
	Removed   int    `json:"removed"`
}

// DeleteElement splices the subtree rooted at id out of the tree. Removed
// counts the nodes of the excised subtree.
func DeleteElement(doc *Document, id string) (*DeleteResult, error) {
	node, err := removeElement(doc, id)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{DeletedID: id, Removed: CountNodes([]*Node{node})}, nil
}

// Reorder rebuilds the child order of a container (the document root when
// containerID is empty): the listed ids first, in the given order, then
// every unlisted child in its prior relative order. Ids in the list that are
// not direct children fail the whole call, aggregated into one error, with
// the tree untouched.
func Reorder(doc *Document, containerID string, order []string) error {
	children := &doc.Elements
	if containerID != "" {
		container := FindByID(doc.Elements, containerID)
		if container == nil {
			return notFoundf("container %s", containerID)
		}
		children = &container.Elements
	}

	byID := make(map[string]*Node, len(*children))
	for _, child := range *children {
		byID[child.ID] = child
	}
	var missing []string
	for _, id := range order {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return partialReference(missing)
	}

	mentioned := make(map[string]bool, len(order))
	reordered := make([]*Node, 0, len(*children))
	for _, id := range order {
		if mentioned[id] {
			continue
		}
		mentioned[id] = true
		reordered = append(reordered, byID[id])
	}
	for _, child := range *children {
		if !mentioned[child.ID] {
			reordered = append(reordered, child)
		}
	}
	*children = reordered
	return nil
}

// CopySettings copies settings from one element to another: the named keys
// when given (keys absent on the source are skipped), the whole settings map
// otherwise. Returns the number of keys written.
func CopySettings(doc *Document, sourceID, targetID string, keys []string) (int, error) {
	source := FindByID(doc.Elements, sourceID)
	if source == nil {
		return 0, notFoundf("source element %s", sourceID)
	}
	target := FindByID(doc.Elements, targetID)
	if target == nil {
		return 0, notFoundf("target element %s", targetID)
	}

	if len(keys) == 0 {
		target.Settings = deepCopySettings(source.Settings)
		return len(target.Settings), nil
	}
	if target.Settings == nil {
		target.Settings = map[string]any{}
	}
	copied := 0
	for _, key := range keys {
		v, ok := source.Settings[key]
		if !ok {
			continue
		}
		target.Settings[key] = deepCopyValue(v)
		copied++
	}
	return copied, nil
}

// FindByWidgetType collects every widget of the given type, in pre-order.
func FindByWidgetType(roots []*Node, widgetType string) []*Node {
	return Filter(roots, func(n *Node) bool { return n.IsWidget(widgetType) })
}
