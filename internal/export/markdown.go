package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/user/retroboard/internal/types"
)

// MarkdownExporter writes one section per category in board order, with
// vote counts appended to voted notes.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(items []*types.Item, w io.Writer) error {
	grouped := Group(items)

	var b strings.Builder
	b.WriteString("# Sprint Retrospective\n")
	for _, c := range types.Categories {
		fmt.Fprintf(&b, "\n## %s\n\n", c.Title())
		if len(grouped[c]) == 0 {
			b.WriteString("_Nothing recorded._\n")
			continue
		}
		for _, item := range grouped[c] {
			text := strings.ReplaceAll(item.Text, "\n", " ")
			if item.Votes > 0 {
				fmt.Fprintf(&b, "- %s (+%d)\n", text, item.Votes)
			} else {
				fmt.Fprintf(&b, "- %s\n", text)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (e *MarkdownExporter) Filename() string {
	return "retrospective.md"
}

func (e *MarkdownExporter) ContentType() string {
	return "text/markdown; charset=utf-8"
}
