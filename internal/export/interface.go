package export

import (
	"fmt"
	"io"

	"github.com/user/retroboard/internal/types"
)

// Exporter renders a ledger's items in one download format.
type Exporter interface {
	Export(items []*types.Item, w io.Writer) error
	Filename() string
	ContentType() string
}

// NewExporter creates an exporter for the named format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json", "":
		return &JSONExporter{}, nil
	case "jira":
		return &JIRAExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jira, yaml, md)", format)
	}
}

// Group buckets items by category, keeping ledger order within each bucket.
// Items whose category is not one of the four known ones are dropped.
func Group(items []*types.Item) map[types.Category][]*types.Item {
	grouped := make(map[types.Category][]*types.Item, len(types.Categories))
	for _, c := range types.Categories {
		grouped[c] = []*types.Item{}
	}
	for _, item := range items {
		if _, ok := grouped[item.Category]; ok {
			grouped[item.Category] = append(grouped[item.Category], item)
		}
	}
	return grouped
}
