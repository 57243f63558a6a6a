package elementor

import "fmt"

type SectionResult struct {
	SectionID string   `json:"sectionId"`
	ColumnIDs []string `json:"columnIds"`
	Index     int      `json:"index"`
}

// CreateSection appends (or splices, when position is in range) a new
// top-level section with the given number of columns. Column widths are
// 100/n rounded down for every column, so non-divisor counts leave a few
// percent unassigned; the builder renders that fine and the original
// behavior is kept.
func CreateSection(doc *Document, columns int, position *int) (*SectionResult, error) {
	if columns < 1 {
		columns = 1
	}
	width := 100 / columns
	section := &Node{
		ID:       NewID(),
		ElType:   TypeSection,
		Settings: map[string]any{},
		Elements: make([]*Node, 0, columns),
	}
	columnIDs := make([]string, 0, columns)
	for i := 0; i < columns; i++ {
		col := newColumn(width)
		section.Elements = append(section.Elements, col)
		columnIDs = append(columnIDs, col.ID)
	}
	index := insertTopLevel(doc, section, position)
	return &SectionResult{SectionID: section.ID, ColumnIDs: columnIDs, Index: index}, nil
}

func newColumn(width int) *Node {
	return &Node{
		ID:       NewID(),
		ElType:   TypeColumn,
		Settings: map[string]any{"_column_size": width},
		Elements: []*Node{},
	}
}

type ContainerResult struct {
	ContainerID string `json:"containerId"`
	Index       int    `json:"index"`
}

// CreateContainer appends a new top-level flex container.
func CreateContainer(doc *Document, settings map[string]any, position *int) (*ContainerResult, error) {
	container := &Node{
		ID:       NewID(),
		ElType:   TypeContainer,
		Settings: deepCopySettings(settings),
		Elements: []*Node{},
	}
	index := insertTopLevel(doc, container, position)
	return &ContainerResult{ContainerID: container.ID, Index: index}, nil
}

func insertTopLevel(doc *Document, node *Node, pos *int) int {
	if pos != nil && *pos >= 0 && *pos <= len(doc.Elements) {
		return spliceInto(&doc.Elements, node, *pos)
	}
	doc.Elements = append(doc.Elements, node)
	return len(doc.Elements) - 1
}

// AddColumns appends count columns to an existing section. The new columns
// share an even width computed over the resulting column count; existing
// columns keep their widths.
func AddColumns(doc *Document, sectionID string, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	section := FindByID(doc.Elements, sectionID)
	if section == nil {
		return nil, notFoundf("section %s", sectionID)
	}
	if section.ElType != TypeSection {
		return nil, fmt.Errorf("%w: element %s is a %s, not a section", ErrInvalidContainer, sectionID, section.ElType)
	}
	width := 100 / (len(section.Elements) + count)
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		col := newColumn(width)
		section.Elements = append(section.Elements, col)
		ids = append(ids, col.ID)
	}
	return ids, nil
}

type DuplicateResult struct {
	NewID    string `json:"newId"`
	SourceID string `json:"sourceId"`
	Index    int    `json:"index"`
}

// DuplicateSection clones a top-level element, regenerating every id in the
// copy, and places the copy right after the original.
func DuplicateSection(doc *Document, sectionID string) (*DuplicateResult, error) {
	index := -1
	for i, n := range doc.Elements {
		if n.ID == sectionID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, notFoundf("top-level element %s", sectionID)
	}
	clone := RegenerateIDs(doc.Elements[index])
	spliceInto(&doc.Elements, clone, index+1)
	return &DuplicateResult{NewID: clone.ID, SourceID: sectionID, Index: index + 1}, nil
}
