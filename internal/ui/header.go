package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/folio/internal/router"
	"github.com/five82/folio/internal/search"
)

// renderHeader renders the status bar: logo, search status and result count.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	status := m.search.Status
	parts := []string{
		bg.Render("folio", styles.Logo),
		styles.StatusStyle(status.String()).Render(strings.ToUpper(status.String())),
	}

	switch status {
	case search.StatusLoading:
		parts = append(parts, bg.Render(truncate(m.search.Query, 40), styles.MutedText))
	case search.StatusSuccess:
		parts = append(parts, bg.Render(plural(len(m.search.Results), "result", "results"), styles.Text))
	}

	if b, ok := m.router.Selection(); ok {
		parts = append(parts, bg.Render(truncate(b.DisplayTitle(), 40), styles.AccentText))
	}

	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(m.theme.Name, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar lists the bindings that apply to the focused widget.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var bindings []key.Binding
	switch {
	case m.router.View() == router.ViewDetail:
		bindings = []key.Binding{m.keys.Back, m.keys.Down, m.keys.Up, m.keys.Help}
	case m.focus == focusList:
		bindings = []key.Binding{m.keys.Open, m.keys.Down, m.keys.Up, m.keys.FocusInput, m.keys.Help}
	default:
		bindings = []key.Binding{m.keys.Submit, m.keys.FocusList}
	}
	if m.width >= LayoutCompactWidth {
		bindings = append(bindings, m.keys.CycleTheme)
	}
	bindings = append(bindings, m.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, bg.Render(h.Key, styles.WarningText)+bg.Space()+bg.Render(strings.ToLower(h.Desc), styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}
