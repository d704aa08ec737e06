package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/books"
)

// renderDetailContent builds the scrollable detail page for b. Every field
// falls back to fixed text when the provider left it out.
func (m Model) renderDetailContent(b books.Book) string {
	styles := m.theme.Styles()
	width := max(20, m.width-4)
	label := styles.MutedText.Bold(true)

	var sb strings.Builder
	sb.WriteString(styles.AccentText.Bold(true).Width(width).Render(b.DisplayTitle()))
	sb.WriteString("\n")
	sb.WriteString(styles.Text.Width(width).Render(b.DisplayAuthors()))
	sb.WriteString("\n\n")

	fields := []struct{ name, value string }{
		{"Published:", b.DisplayPublishedDate()},
		{"Publisher:", b.DisplayPublisher()},
		{"Cover:", b.DetailThumbnail()},
	}
	for _, f := range fields {
		sb.WriteString(label.Render(padRight(f.name, 11)))
		sb.WriteString(styles.Text.Render(truncateMiddle(f.value, width-11)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(label.Render("Synopsis:"))
	sb.WriteString("\n")
	sb.WriteString(styles.Text.Width(width).Render(b.DisplayDescription()))

	return lipgloss.NewStyle().Padding(0, 1).Render(sb.String())
}
