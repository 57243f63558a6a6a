package elementor

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the store and the editing operations. Handlers
// match on these with errors.Is; the wrapped message always names the
// offending post or element ids.
var (
	// ErrNotFound: a post id, element id or container id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrNoData: the post exists but carries no builder data.
	ErrNoData = errors.New("no elementor data")

	// ErrParse: the builder data field is present but is not valid JSON.
	ErrParse = errors.New("invalid elementor data")

	// ErrSaveFailed: every resource kind rejected the write.
	ErrSaveFailed = errors.New("save failed")

	// ErrInvalidContainer: the resolved node exists but cannot hold the
	// insertion, e.g. a section without columns.
	ErrInvalidContainer = errors.New("invalid container")

	// ErrUnsupportedContent: the widget type has no known content field.
	ErrUnsupportedContent = errors.New("unsupported content field")

	// ErrPartialReference: a reorder or batch referenced ids outside the
	// expected scope; the message lists every missing id.
	ErrPartialReference = errors.New("unknown element ids")
)

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func partialReference(missing []string) error {
	return fmt.Errorf("%w: %s", ErrPartialReference, strings.Join(missing, ", "))
}
