package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/datanaut/fichas/internal/intake"
	"github.com/datanaut/fichas/internal/report"
	"github.com/datanaut/fichas/internal/workflow"
)

// renderMain renders the full screen.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(m.renderIntake())
	b.WriteString("\n")
	if msg := m.renderMessage(); msg != "" {
		b.WriteString("\n")
		b.WriteString(msg)
		b.WriteString("\n")
	}

	body := lipgloss.NewStyle().PaddingLeft(1).Render(strings.TrimRight(b.String(), "\n"))
	footer := m.renderFooter()

	// Pin the footer to the last line.
	if pad := m.height - lipgloss.Height(body) - lipgloss.Height(footer); pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	return body + "\n" + footer
}

// stageKey maps a stage status to a theme status color.
func stageKey(s workflow.StageStatus) string {
	switch s {
	case workflow.StageActive:
		return "active"
	case workflow.StageCompleted:
		return "completed"
	default:
		return "waiting"
	}
}

// renderProgress renders the progress bar and the three stage cards.
func (m Model) renderProgress() string {
	styles := m.theme.Styles()
	step := m.session.Step()
	stages := m.session.Stages()

	title := styles.Text.Bold(true).Render("Progresso") + "  " +
		styles.MutedText.Render(fmt.Sprintf("Etapa %d de %d", step, workflow.TotalSteps))
	bar := m.progress.ViewAs(workflow.ProgressFraction(step))

	if m.width < LayoutCompactWidth {
		lines := []string{title, bar}
		for i, st := range stages {
			lines = append(lines, fmt.Sprintf("%s %s  %s",
				styles.FaintText.Render(fmt.Sprintf("%d.", i+1)),
				styles.Text.Render(st.Title),
				styles.StatusStyle(stageKey(st.Status)).Render(st.Status.Label()),
			))
		}
		return strings.Join(lines, "\n")
	}

	cardWidth := (m.contentWidth() - 2*2) / workflow.TotalSteps
	cards := make([]string, 0, len(stages))
	for i, st := range stages {
		if i > 0 {
			cards = append(cards, "  ")
		}
		cards = append(cards, m.renderStageCard(i+1, st, cardWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, bar, "", lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func (m Model) renderStageCard(n int, st workflow.Stage, width int) string {
	styles := m.theme.Styles()

	border := m.theme.BorderMuted
	heading := styles.MutedText
	switch st.Status {
	case workflow.StageActive:
		border = m.theme.BorderFocus
		heading = styles.AccentText.Bold(true)
	case workflow.StageCompleted:
		border = m.theme.Success
		heading = styles.Text.Bold(true)
	}

	inner := width - 4
	body := strings.Join([]string{
		heading.Render(truncate(fmt.Sprintf("%d. %s", n, st.Title), inner)),
		styles.Text.Render(truncate(st.Subtitle, inner)),
		styles.FaintText.Render(truncate(st.Description, inner)),
		styles.StatusStyle(stageKey(st.Status)).Render(st.Status.Label()),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(width - 2).
		Height(cardHeight - 2).
		Render(body)
}

// renderIntake renders the intake panel for the current mode.
func (m Model) renderIntake() string {
	switch m.session.Mode() {
	case workflow.ModeMissionComplete:
		return m.renderMissionComplete()
	case workflow.ModeResultReady:
		return m.renderResultReady()
	default:
		return m.renderCollect()
	}
}

func (m Model) renderCollect() string {
	styles := m.theme.Styles()
	var lines []string

	border := m.theme.Border
	if m.inputActive() {
		border = m.theme.BorderFocus
	}
	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(m.contentWidth() - 2).
		Render(m.input.View())
	lines = append(lines,
		styles.Text.Bold(true).Render("Arquivos PDF")+"  "+
			styles.FaintText.Render(fmt.Sprintf("Selecione até %d fichas financeiras", intake.MaxFiles)),
		inputBox,
	)
	if m.notice != "" {
		lines = append(lines, styles.WarningText.Render(m.notice))
	}

	files := m.session.Files()
	if len(files) > 0 {
		lines = append(lines, "", styles.MutedText.Render(fmt.Sprintf("Arquivos selecionados (%d/%d) · %s", len(files), intake.MaxFiles, formatSize(m.session.TotalSize()))))
		for i, f := range files {
			lines = append(lines, m.renderFileRow(i, f))
		}
	}

	lines = append(lines, "", m.renderSubmitLine(len(files)))
	return strings.Join(lines, "\n")
}

func (m Model) renderFileRow(i int, f intake.File) string {
	styles := m.theme.Styles()
	nameWidth := maxInt(12, m.contentWidth()-24)

	row := fmt.Sprintf("%2d  %s", i+1, padRight(truncateMiddle(f.Name, nameWidth), nameWidth))
	if m.width >= LayoutDetailWidth {
		pages := "-"
		if f.Pages > 0 {
			pages = fmt.Sprintf("%d pág.", f.Pages)
		}
		row += fmt.Sprintf("  %8s  %9s", pages, formatSize(f.Size))
	}

	if m.focus == focusList && i == m.selectedRow && !m.submitting() {
		return styles.Selected.Render(row)
	}
	return styles.Text.Render(row)
}

func (m Model) renderSubmitLine(count int) string {
	styles := m.theme.Styles()
	switch {
	case m.submitting():
		return m.spinner.View() + " " + styles.AccentText.Render(fmt.Sprintf("Processando %d arquivo(s)...", count))
	case count == 0:
		return styles.FaintText.Render("Processar PDFs (nenhum arquivo selecionado)")
	default:
		return styles.StatusStyle("active").Render("Processar PDFs") + "  " +
			styles.MutedText.Render("s ou enter para enviar")
	}
}

func (m Model) renderResultReady() string {
	styles := m.theme.Styles()
	lines := []string{styles.SuccessText.Render("Planilha pronta")}
	lines = append(lines, m.renderSummary()...)
	lines = append(lines, "", styles.Text.Render(workflow.ResultFileName))

	if m.session.Downloaded() {
		lines = append(lines, styles.MutedText.Render("Salva em "+truncateMiddle(m.session.SavedPath(), m.contentWidth()-10)))
	} else {
		dir := "."
		if m.config != nil {
			dir = m.config.OutputDir
		}
		lines = append(lines,
			styles.FaintText.Render("Destino: "+truncateMiddle(dir, m.contentWidth()-10)),
			"",
			styles.StatusStyle("completed").Render("Baixar planilha")+"  "+styles.MutedText.Render("d ou enter"),
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMissionComplete() string {
	styles := m.theme.Styles()
	lines := []string{
		styles.SuccessText.Render("Missão concluída!"),
		styles.MutedText.Render("Planilha salva em " + truncateMiddle(m.session.SavedPath(), m.contentWidth()-20)),
	}
	lines = append(lines, m.renderSummary()...)
	lines = append(lines, "", styles.StatusStyle("active").Render("Nova missão")+"  "+styles.MutedText.Render("n ou enter"))
	return strings.Join(lines, "\n")
}

// renderSummary describes the returned workbook when it could be read.
func (m Model) renderSummary() []string {
	if m.summary == nil {
		return nil
	}
	return summaryLines(m.theme.Styles(), *m.summary)
}

func summaryLines(styles Styles, s report.Summary) []string {
	var lines []string
	if len(s.Years) > 0 {
		lines = append(lines, styles.MutedText.Render("Anos: ")+styles.Text.Render(strings.Join(s.Years, ", ")))
	}
	if !s.Employee.Empty() {
		parts := []string{}
		if s.Employee.Name != "" {
			parts = append(parts, s.Employee.Name)
		}
		if s.Employee.CPF != "" {
			parts = append(parts, "CPF "+s.Employee.CPF)
		}
		if s.Employee.Admission != "" {
			parts = append(parts, "admissão "+s.Employee.Admission)
		}
		lines = append(lines, styles.MutedText.Render("Funcionário: ")+styles.Text.Render(strings.Join(parts, " · ")))
	}
	if len(s.Sheets) > 0 {
		lines = append(lines, styles.FaintText.Render(fmt.Sprintf("%d aba(s) na planilha", len(s.Sheets))))
	}
	return lines
}

// renderMessage renders the status message of the last action.
func (m Model) renderMessage() string {
	msg := m.session.Message()
	if msg.Empty() {
		return ""
	}
	styles := m.theme.Styles()
	switch msg.Severity {
	case workflow.SeverityError:
		return styles.DangerText.Render("✗ " + msg.Text)
	case workflow.SeveritySuccess:
		return styles.SuccessText.Render("✓ " + msg.Text)
	default:
		return styles.InfoText.Render(msg.Text)
	}
}
