package export

import (
	"io"
	"strings"

	"github.com/user/retroboard/internal/types"
)

// JIRAExporter renders JIRA wiki markup: a one-row, three-column table for
// went-well, didn't-go-well and ideas, followed by an action item list when
// there are any. Ticketing imports depend on this exact shape.
type JIRAExporter struct{}

func (e *JIRAExporter) Export(items []*types.Item, w io.Writer) error {
	_, err := io.WriteString(w, Report(items))
	return err
}

func (e *JIRAExporter) Filename() string {
	return "retrospective-jira.txt"
}

func (e *JIRAExporter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Report builds the JIRA markup for items.
func Report(items []*types.Item) string {
	grouped := Group(items)

	var b strings.Builder
	b.WriteString("h1. Sprint Retrospective\n\n")
	b.WriteString("||" + types.WentWell.Title() + "||" + types.DidntGoWell.Title() + "||" + types.Ideas.Title() + "||\n")
	b.WriteString("|" + cell(grouped[types.WentWell]) + "|" + cell(grouped[types.DidntGoWell]) + "|" + cell(grouped[types.Ideas]) + "|\n")

	if actions := grouped[types.ActionItems]; len(actions) > 0 {
		b.WriteString("\nh2. " + types.ActionItems.Title() + "\n\n")
		for _, item := range actions {
			b.WriteString("* " + item.Text + "\n")
		}
	}
	return b.String()
}

// cell joins bullets with newlines; an empty cell is a single space.
func cell(items []*types.Item) string {
	if len(items) == 0 {
		return " "
	}
	bullets := make([]string, len(items))
	for i, item := range items {
		bullets[i] = "* " + item.Text
	}
	return strings.Join(bullets, "\n")
}
