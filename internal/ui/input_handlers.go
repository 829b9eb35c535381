package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datanaut/fichas/internal/intake"
	"github.com/datanaut/fichas/internal/prefs"
	"github.com/datanaut/fichas/internal/workflow"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.inputActive() {
		return m.handleInputKey(msg)
	}

	// A paste while the list has focus is still a drop.
	if msg.Paste && m.session.Mode() == workflow.ModeCollect && !m.submitting() {
		m.focus = focusInput
		cmd := m.input.Focus()
		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		return m, tea.Batch(cmd, inputCmd)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()
	}

	switch m.session.Mode() {
	case workflow.ModeMissionComplete:
		if key.Matches(msg, m.keys.NewMission) {
			return m.newMission()
		}
	case workflow.ModeResultReady:
		if key.Matches(msg, m.keys.Download) {
			return m.download()
		}
	default:
		if m.submitting() {
			return m, nil
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

// handleInputKey processes keys while the path input has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Escape):
		m.focus = focusList
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.AddPaths):
		paths := intake.SplitPaths(m.input.Value())
		if len(paths) == 0 {
			if m.session.FileCount() > 0 {
				// Nothing typed: enter doubles as submit.
				return m.submit()
			}
			return m, nil
		}
		m.notice = "Verificando arquivos..."
		return m, probeCmd(m.ctx, m.prober, paths, m.session.Ticket())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleListKey processes keys for the file list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.session.FileCount()

	switch {
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusInput
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Remove):
		if m.session.Remove(m.selectedRow) {
			m.clampSelection()
		}
	case key.Matches(msg, m.keys.Clear):
		m.session.Reset()
		m.selectedRow = 0
		m.notice = ""
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}
	return m, nil
}

// handleProbe merges probed candidates into the selection.
func (m Model) handleProbe(msg probeMsg) (tea.Model, tea.Cmd) {
	// Cleared or already submitted while the paths were being read.
	if !m.session.Current(msg.ticket) || !m.session.Phase().Collecting() {
		m.logger.Debug("stale probe dropped", "files", len(msg.result.Files))
		m.notice = ""
		return m, nil
	}
	if msg.err != nil {
		m.notice = fmt.Sprintf("Falha ao ler arquivos: %v", msg.err)
		m.logger.Warn("probe failed", "error", msg.err)
		return m, nil
	}

	current := m.session.Files()
	seen := make(map[string]struct{}, len(current))
	for _, f := range current {
		seen[f.Path] = struct{}{}
	}
	candidates := current
	ignored := 0
	for _, f := range msg.result.Files {
		if !f.IsPDF() {
			ignored++
			continue
		}
		if _, dup := seen[f.Path]; dup {
			continue
		}
		seen[f.Path] = struct{}{}
		candidates = append(candidates, f)
	}

	m.notice = probeNotice(ignored, len(msg.result.Missing))
	if err := m.session.Accept(candidates); err != nil {
		// Session message explains the rejection.
		return m, nil
	}
	m.input.SetValue("")
	m.clampSelection()
	return m, nil
}

func probeNotice(ignored, missing int) string {
	switch {
	case ignored > 0 && missing > 0:
		return fmt.Sprintf("%d arquivo(s) ignorado(s) por não serem PDF, %d não encontrado(s)", ignored, missing)
	case ignored > 0:
		return fmt.Sprintf("%d arquivo(s) ignorado(s) por não serem PDF", ignored)
	case missing > 0:
		return fmt.Sprintf("%d caminho(s) não encontrado(s)", missing)
	default:
		return ""
	}
}

// submit starts the upload of the current selection.
func (m Model) submit() (tea.Model, tea.Cmd) {
	docs, ticket, err := m.session.BeginSubmit()
	if err != nil {
		return m, nil
	}
	m.notice = ""
	m.input.Blur()
	return m, tea.Batch(
		submitCmd(m.ctx, m.processor, docs, ticket),
		m.spinner.Tick,
	)
}

func (m Model) handleSubmitResult(msg submitMsg) (tea.Model, tea.Cmd) {
	if !m.session.FinishSubmit(msg.ticket, msg.data, msg.err) {
		return m, nil
	}
	if !m.session.Phase().HasResult() {
		// Files are kept for another attempt.
		m.focus = focusList
		return m, nil
	}
	return m, summaryCmd(msg.ticket, m.session.Result())
}

// download saves the result and schedules the delayed transitions.
func (m Model) download() (tea.Model, tea.Cmd) {
	ticket, err := m.session.Download(m.saver)
	if err != nil {
		return m, nil
	}
	if dir := filepath.Dir(m.session.SavedPath()); dir != "" {
		if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.OutputDir = dir }); err != nil {
			m.logger.Warn("saving output dir preference failed", "error", err)
		}
	}
	return m, notifyCmd(ticket)
}

// newMission clears everything and cancels pending transitions.
func (m Model) newMission() (tea.Model, tea.Cmd) {
	m.session.Reset()
	m.summary = nil
	m.notice = ""
	m.selectedRow = 0
	m.focus = focusInput
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
	m.resize()
	if m.prefsPath != "" {
		name := m.theme.Name
		if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
			m.logger.Warn("saving theme preference failed", "error", err)
		}
	}
	return m, nil
}

func (m *Model) clampSelection() {
	count := m.session.FileCount()
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}
