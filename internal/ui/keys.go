package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application. Letter keys only
// apply while the path input is blurred; the input needs them for typing.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Focus      key.Binding
	Escape     key.Binding

	// File list
	Up     key.Binding
	Down   key.Binding
	Remove key.Binding
	Clear  key.Binding
	Submit key.Binding

	// Path input
	AddPaths key.Binding

	// Result
	Download   key.Binding
	NewMission key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Sair"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Sair"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Ajuda"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Trocar tema"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Entrada/lista"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Fechar"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Descer"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete", "backspace"),
			key.WithHelp("x", "Remover arquivo"),
		),
		Clear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Limpar seleção"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s/enter", "Processar PDFs"),
		),

		AddPaths: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Adicionar caminhos"),
		),

		Download: key.NewBinding(
			key.WithKeys("d", "enter"),
			key.WithHelp("d/enter", "Baixar planilha"),
		),
		NewMission: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "Nova missão"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddPaths, k.Focus},
		{k.Up, k.Down, k.Remove, k.Clear, k.Submit},
		{k.Download, k.NewMission},
		{k.CycleTheme, k.Help, k.Quit, k.ForceQuit},
	}
}

// contextHelp returns the footer bindings for the current mode.
func (m Model) contextHelp() []key.Binding {
	k := m.keys
	switch {
	case m.session.Phase().IsCompleted():
		return []key.Binding{k.NewMission, k.CycleTheme, k.Help, k.Quit}
	case m.session.Phase().HasResult():
		if m.session.Downloaded() {
			return []key.Binding{k.CycleTheme, k.Help, k.Quit}
		}
		return []key.Binding{k.Download, k.CycleTheme, k.Help, k.Quit}
	case m.submitting():
		return []key.Binding{k.ForceQuit}
	case m.focus == focusInput:
		return []key.Binding{k.AddPaths, k.Focus, k.ForceQuit}
	default:
		return []key.Binding{k.Up, k.Down, k.Remove, k.Submit, k.Focus, k.Help, k.Quit}
	}
}
