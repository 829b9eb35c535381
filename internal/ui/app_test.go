package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xuri/excelize/v2"

	"github.com/datanaut/fichas/internal/api"
	"github.com/datanaut/fichas/internal/intake"
	"github.com/datanaut/fichas/internal/prefs"
	"github.com/datanaut/fichas/internal/state"
	"github.com/datanaut/fichas/internal/workflow"
)

type fakeProcessor struct {
	calls int
	data  []byte
	err   error
}

func (f *fakeProcessor) ProcessPDFs(_ context.Context, docs []api.Document) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func newTestModel(t *testing.T, proc api.Processor) Model {
	t.Helper()
	dir := t.TempDir()
	m := New(Options{
		Processor: proc,
		Prober:    &intake.Prober{},
		Saver:     workflow.FileSaver{Dir: filepath.Join(dir, "out")},
		PrefsPath: filepath.Join(dir, "prefs.toml"),
		ThemeName: "Slate",
	})
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if typed, ok := msg.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pdfFiles(n int) []intake.File {
	files := make([]intake.File, n)
	for i := range files {
		name := fmt.Sprintf("ficha-%d.pdf", i+1)
		files[i] = intake.File{Path: "/fichas/" + name, Name: name, MediaType: intake.MediaTypePDF, Size: 2048}
	}
	return files
}

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if _, err := f.NewSheet("2021"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if _, err := f.NewSheet("Recalculo"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	_ = f.SetCellValue("Recalculo", "C2", "MARIA SILVA")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestModel_FullMission(t *testing.T) {
	proc := &fakeProcessor{data: workbook(t)}
	m := newTestModel(t, proc)

	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: pdfFiles(2)}})
	if got := m.session.FileCount(); got != 2 {
		t.Fatalf("FileCount = %d, want 2", got)
	}
	if m.session.Phase() != workflow.PhaseUploading {
		t.Fatalf("phase = %s, want uploading", m.session.Phase())
	}

	// Enter on an empty input submits the selection.
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Phase() != workflow.PhaseProcessing {
		t.Fatalf("phase = %s, want processing", m.session.Phase())
	}
	if !strings.Contains(m.View(), "Processando 2 arquivo(s)") {
		t.Fatalf("view does not show the submit spinner")
	}

	m, cmd = updateCmd(t, m, findMsg[submitMsg](t, collect(cmd)))
	if proc.calls != 1 {
		t.Fatalf("processor calls = %d, want 1", proc.calls)
	}
	if m.session.Phase() != workflow.PhaseReadyForDownload {
		t.Fatalf("phase = %s, want ready for download", m.session.Phase())
	}
	m = update(t, m, findMsg[summaryMsg](t, collect(cmd)))
	if m.summary == nil || m.summary.Employee.Name != "MARIA SILVA" {
		t.Fatalf("summary = %+v, want employee name", m.summary)
	}
	view := m.View()
	for _, want := range []string{"Planilha pronta", "Processamento concluído! 2 arquivo(s) processado(s).", "MARIA SILVA", "2021"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, cmd = updateCmd(t, m, keyRunes("d"))
	if !m.session.Downloaded() {
		t.Fatalf("result not downloaded")
	}
	if _, err := os.Stat(m.session.SavedPath()); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if filepath.Base(m.session.SavedPath()) != workflow.ResultFileName {
		t.Fatalf("saved as %q", m.session.SavedPath())
	}

	m, cmd = updateCmd(t, m, findMsg[notifyMsg](t, collect(cmd)))
	if m.session.Phase() != workflow.PhaseDownloadCompleted {
		t.Fatalf("phase = %s, want download completed", m.session.Phase())
	}
	m = update(t, m, findMsg[settleMsg](t, collect(cmd)))
	if m.session.Phase() != workflow.PhaseCompleted {
		t.Fatalf("phase = %s, want completed", m.session.Phase())
	}
	if !strings.Contains(m.View(), "Missão concluída!") {
		t.Fatalf("view does not show mission complete")
	}

	m = update(t, m, keyRunes("n"))
	if m.session.Phase() != workflow.PhaseInitial || m.session.FileCount() != 0 || m.summary != nil {
		t.Fatalf("new mission did not reset: phase %s files %d", m.session.Phase(), m.session.FileCount())
	}
	if m.focus != focusInput {
		t.Fatalf("focus = %v, want input", m.focus)
	}

	p, _ := prefs.Load(m.prefsPath)
	if p.OutputDir == "" {
		t.Fatalf("output dir preference not saved")
	}
}

func TestModel_ResetCancelsPendingSettle(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{data: []byte("xlsx")})
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: pdfFiles(1)}})

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = updateCmd(t, m, findMsg[submitMsg](t, collect(cmd)))
	m, cmd = updateCmd(t, m, keyRunes("d"))
	notify := findMsg[notifyMsg](t, collect(cmd))
	m, cmd = updateCmd(t, m, notify)
	settle := findMsg[settleMsg](t, collect(cmd))

	m.session.Reset()
	m = update(t, m, settle)
	if m.session.Phase() != workflow.PhaseInitial {
		t.Fatalf("phase = %s, want initial after reset", m.session.Phase())
	}
}

func TestModel_SubmitFailureKeepsFiles(t *testing.T) {
	proc := &fakeProcessor{err: &api.Error{StatusCode: 500, Path: "/api/processar-pdfs/"}}
	m := newTestModel(t, proc)
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: pdfFiles(3)}})

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, findMsg[submitMsg](t, collect(cmd)))

	if m.session.Phase() != workflow.PhaseUploading || m.session.FileCount() != 3 {
		t.Fatalf("phase = %s files = %d, want uploading with 3 files", m.session.Phase(), m.session.FileCount())
	}
	if !strings.Contains(m.View(), "Erro ao processar arquivos") {
		t.Fatalf("view does not show the generic failure")
	}
}

func TestModel_ProbeMergesAndCaps(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{})
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: pdfFiles(5)}})

	more := pdfFiles(5)
	more = append(more, intake.File{Path: "/fichas/notas.txt", Name: "notas.txt", MediaType: "text/plain"})
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: more, Missing: []string{"/nope.pdf"}}})
	if got := m.session.FileCount(); got != 5 {
		t.Fatalf("duplicates re-added: FileCount = %d, want 5", got)
	}
	if !strings.Contains(m.notice, "1 arquivo(s) ignorado(s)") || !strings.Contains(m.notice, "1 não encontrado(s)") {
		t.Fatalf("notice = %q", m.notice)
	}

	extra := make([]intake.File, 4)
	for i := range extra {
		name := fmt.Sprintf("extra-%d.pdf", i)
		extra[i] = intake.File{Path: "/extra/" + name, Name: name, MediaType: intake.MediaTypePDF}
	}
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: extra}})
	if got := m.session.FileCount(); got != 5 {
		t.Fatalf("over-cap batch changed selection: FileCount = %d", got)
	}
	if msg := m.session.Message(); msg.Text != "Máximo de 8 arquivos permitidos" {
		t.Fatalf("message = %q", msg.Text)
	}
}

func TestModel_ListKeys(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{})
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: pdfFiles(3)}})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusList {
		t.Fatalf("tab did not focus the list")
	}
	m = update(t, m, keyRunes("j"))
	m = update(t, m, keyRunes("j"))
	m = update(t, m, keyRunes("j"))
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d, want 2", m.selectedRow)
	}

	m = update(t, m, keyRunes("x"))
	if got := m.session.FileCount(); got != 2 {
		t.Fatalf("FileCount = %d, want 2", got)
	}
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want clamped to 1", m.selectedRow)
	}

	m = update(t, m, keyRunes("X"))
	if m.session.FileCount() != 0 || m.session.Phase() != workflow.PhaseInitial {
		t.Fatalf("clear left %d files in %s", m.session.FileCount(), m.session.Phase())
	}

	m, cmd := updateCmd(t, m, keyRunes("s"))
	if cmd != nil {
		t.Fatalf("empty submit returned a command")
	}
	if m.session.Message().Text != "Selecione pelo menos um arquivo PDF" {
		t.Fatalf("message = %q", m.session.Message().Text)
	}
}

func TestModel_LettersGoToInputWhenFocused(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{})
	m, cmd := updateCmd(t, m, keyRunes("q"))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatalf("q quit while typing a path")
		}
	}
	if m.input.Value() != "q" {
		t.Fatalf("input = %q, want q", m.input.Value())
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, keyRunes("T"))
	if m.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox after Slate", m.theme.Name)
	}
	p, _ := prefs.Load(m.prefsPath)
	if p.Theme != "Nightfox" {
		t.Fatalf("saved theme = %q", p.Theme)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, keyRunes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Atalhos de teclado") {
		t.Fatalf("help overlay not shown")
	}
	m = update(t, m, keyRunes("j"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestModel_StaleProbeDropped(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{data: []byte("xlsx")})
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: pdfFiles(2)}})

	ticket := m.session.Ticket()
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, keyRunes("X"))
	m = update(t, m, probeMsg{ticket: ticket, result: intake.ProbeResult{Files: pdfFiles(3)}})
	if got := m.session.FileCount(); got != 0 {
		t.Fatalf("probe issued before clear re-filled selection: FileCount = %d", got)
	}

	m = update(t, m, probeMsg{ticket: m.session.Ticket(), result: intake.ProbeResult{Files: pdfFiles(2)}})
	next, _ := m.submit()
	m = next.(Model)
	if m.session.Phase() != workflow.PhaseProcessing {
		t.Fatalf("phase = %s, want processing", m.session.Phase())
	}
	m = update(t, m, probeMsg{ticket: m.session.Ticket(), result: intake.ProbeResult{Files: pdfFiles(4)}})
	if got := m.session.FileCount(); got != 2 {
		t.Fatalf("probe during submission changed selection: FileCount = %d", got)
	}
	if m.session.Phase() != workflow.PhaseProcessing {
		t.Fatalf("phase = %s after late probe, want processing", m.session.Phase())
	}
	if m.notice != "" {
		t.Fatalf("notice = %q, want cleared", m.notice)
	}
}

func TestModel_ShowsTotalSizeAndOfflineBadge(t *testing.T) {
	m := newTestModel(t, &fakeProcessor{})
	m = update(t, m, probeMsg{result: intake.ProbeResult{Files: pdfFiles(3)}})
	if view := m.View(); !strings.Contains(view, "Arquivos selecionados (3/8) · 6.0 KB") {
		t.Fatalf("view missing selection total:\n%s", view)
	}

	m.snapshot = state.Snapshot{LastError: errors.New("connection refused"), ConsecutiveFailures: 1}
	if strings.Contains(m.renderHeader(), "offline") {
		t.Fatalf("single failure should not show offline badge")
	}
	m.snapshot.ConsecutiveFailures = 3
	if header := m.renderHeader(); !strings.Contains(header, "offline (3 falhas)") {
		t.Fatalf("header missing offline badge: %q", header)
	}
}
