package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/search"
)

const idleHint = "Start typing to search for books."

// renderSearchInput renders the bordered query input.
func (m Model) renderSearchInput() string {
	styles := m.theme.Styles()
	box := styles.Input
	if m.focus == focusInput {
		box = styles.InputFocused
	}
	return box.Width(max(10, m.width-2)).Render(m.input.View())
}

// renderResults renders the area below the input: spinner, message, idle
// hint or the result rows.
func (m Model) renderResults() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	var body string
	switch m.search.Status {
	case search.StatusLoading:
		body = m.spinner.View() + " " + styles.MutedText.Render("Searching...")
	case search.StatusFailed:
		body = styles.DangerText.Render(m.search.Message)
	case search.StatusEmpty:
		body = styles.WarningText.Render(m.search.Message)
	case search.StatusIdle:
		body = styles.FaintText.Render(idleHint)
	default:
		body = m.renderRows(height)
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Height(height).
		MaxHeight(height).
		Render(body)
}

// renderRows renders the window of rows that keeps the cursor visible.
func (m Model) renderRows(height int) string {
	styles := m.theme.Styles()
	results := m.search.Results

	compact := m.width < LayoutCompactWidth
	rh := rowHeight
	if compact {
		rh = compactRowHeight
	}
	visible := max(1, height/rh)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(results), start+visible)
	lineWidth := max(10, m.width-4)

	lines := make([]string, 0, (end-start)*rh)
	for i := start; i < end; i++ {
		b := results[i]
		marker := "  "
		if i == m.cursor && m.focus == focusList {
			marker = "▸ "
		}

		title := marker + truncate(b.DisplayTitle(), lineWidth-2)
		authors := "  " + truncate(b.DisplayAuthors(), lineWidth-2)
		thumb := "  " + truncateMiddle(b.ListThumbnail(), lineWidth-2)

		if i == m.cursor && m.focus == focusList {
			sel := styles.Selected.Width(lineWidth)
			lines = append(lines, sel.Bold(true).Render(title), sel.Render(authors))
			if !compact {
				lines = append(lines, sel.Render(thumb))
			}
			continue
		}

		lines = append(lines, styles.Text.Bold(true).Render(title), styles.MutedText.Render(authors))
		if !compact {
			lines = append(lines, styles.FaintText.Render(thumb))
		}
	}
	return strings.Join(lines, "\n")
}
