package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/datanaut/fichas/internal/state"
)

const (
	brandName = "Datanaut"
	appTitle  = "Importador de Fichas Financeiras"
)

// connectionKey maps the indicator state to a theme status color.
func connectionKey(c state.Connection) string {
	switch c {
	case state.ConnectionConnected:
		return "connected"
	case state.ConnectionError:
		return "error"
	default:
		return "checking"
	}
}

// renderHeader renders the brand line with the API status indicator on the
// right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	left := bg.Render(brandName, styles.Logo) + bg.Spaces(2) +
		bg.Render(appTitle, styles.Text.Bold(true))

	conn := m.snapshot.Connection()
	label := conn.Label()
	if m.snapshot.IsOffline() {
		label += fmt.Sprintf(" · offline (%d falhas)", m.snapshot.ConsecutiveFailures)
	}
	badge := styles.StatusStyle(connectionKey(conn)).Render("● " + label)
	right := badge
	if detail := m.snapshot.Detail(); detail != "" && m.width >= LayoutDetailWidth {
		right = bg.Render(truncate(detail, m.width/3), styles.MutedText) + bg.Spaces(1) + badge
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Too narrow for both; the indicator matters more.
		return styles.Header.Width(m.width).Render(right)
	}
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

// renderFooter renders context key hints and the active theme.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	hints := m.help.ShortHelpView(m.contextHelp())
	theme := bg.Render("tema "+m.theme.Name, styles.FaintText)

	gap := m.width - lipgloss.Width(hints) - lipgloss.Width(theme) - 2
	if gap < 1 {
		return styles.Footer.Width(m.width).Render(hints)
	}
	return styles.Footer.Width(m.width).Render(hints + bg.Spaces(gap) + theme)
}
