package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/retroboard/internal/export"
	"github.com/user/retroboard/internal/types"
)

const columnWidth = 28

var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(columnWidth)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	voteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// renderBoard lays the session out as one bordered column per category.
func renderBoard(s *types.Session, timer types.TimerView) string {
	grouped := export.Group(s.Items)

	columns := make([]string, 0, len(types.Categories))
	for _, c := range types.Categories {
		var b strings.Builder
		b.WriteString(columnHeaderStyle.Render(c.Title()))
		b.WriteString("\n")
		if len(grouped[c]) == 0 {
			b.WriteString(mutedStyle.Render("(empty)"))
		}
		for i, item := range grouped[c] {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s %s %s",
				mutedStyle.Render(fmt.Sprintf("#%d", item.ID)),
				item.Text,
				voteStyle.Render(fmt.Sprintf("+%d", item.Votes)),
			)
		}
		columns = append(columns, columnStyle.Render(b.String()))
	}

	header := boardTitleStyle.Render(s.Name) + " " +
		mutedStyle.Render(fmt.Sprintf("(%s, created %s)", s.ID, s.CreatedAt.Format("2006-01-02 15:04")))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		mutedStyle.Render("timer: "+describeTimer(timer)),
	)
}

func describeTimer(v types.TimerView) string {
	switch v.State {
	case types.TimerRunning, types.TimerPaused:
		left := time.Duration(v.RemainingSeconds) * time.Second
		return fmt.Sprintf("%s, %s left of %s", v.State, left, time.Duration(v.Duration)*time.Second)
	default:
		return string(v.State)
	}
}
