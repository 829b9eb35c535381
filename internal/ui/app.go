package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datanaut/fichas/internal/api"
	"github.com/datanaut/fichas/internal/config"
	"github.com/datanaut/fichas/internal/intake"
	"github.com/datanaut/fichas/internal/prefs"
	"github.com/datanaut/fichas/internal/report"
	"github.com/datanaut/fichas/internal/state"
	"github.com/datanaut/fichas/internal/workflow"
)

// focusArea selects which intake widget receives keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Processor api.Processor
	Prober    *intake.Prober
	Saver     workflow.Saver
	Store     *state.Store
	Config    *config.Config
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	processor api.Processor
	prober    *intake.Prober
	saver     workflow.Saver
	store     *state.Store
	config    *config.Config
	prefsPath string
	pollTick  time.Duration
	logger    *slog.Logger

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	focus    focusArea

	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model

	// Mission state
	session     *workflow.Session
	selectedRow int
	notice      string
	summary     *report.Summary

	// API status
	snapshot    state.Snapshot
	lastUpdated time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	prober := opts.Prober
	if prober == nil {
		prober = intake.NewProber()
	}

	saver := opts.Saver
	if saver == nil {
		dir := "."
		if opts.Config != nil {
			dir = opts.Config.OutputDir
		}
		saver = workflow.FileSaver{Dir: dir}
	}

	theme := GetTheme(opts.ThemeName)

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Arraste PDFs para o terminal ou digite caminhos e pressione enter"
	input.Focus()

	m := Model{
		ctx:       ctx,
		processor: opts.Processor,
		prober:    prober,
		saver:     saver,
		store:     opts.Store,
		config:    opts.Config,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		logger:    logger,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		session:   workflow.NewSession(logger.With("component", "workflow")),
	}
	m.applyTheme(theme)
	return m
}

// applyTheme restyles every bubble for t.
func (m *Model) applyTheme(t Theme) {
	m.theme = t
	styles := t.Styles()

	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
	m.input.PlaceholderStyle = styles.FaintText
	m.spinner.Style = styles.AccentText

	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText

	width := m.progress.Width
	m.progress = progress.New(
		progress.WithSolidFill(t.Accent),
		progress.WithoutPercentage(),
	)
	m.progress.EmptyColor = t.BorderMuted
	if width > 0 {
		m.progress.Width = width
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		textinput.Blink,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case probeMsg:
		return m.handleProbe(msg)

	case submitMsg:
		return m.handleSubmitResult(msg)

	case summaryMsg:
		if m.session.Current(msg.ticket) && msg.err == nil {
			summary := msg.summary
			m.summary = &summary
		}
		return m, nil

	case notifyMsg:
		if settle, ok := m.session.NotifyDownloaded(msg.ticket); ok {
			return m, settleCmd(settle)
		}
		return m, nil

	case settleMsg:
		m.session.Settle(msg.ticket)
		return m, nil

	case spinner.TickMsg:
		if !m.submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.inputActive() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m *Model) resize() {
	m.input.Width = maxInt(10, m.contentWidth()-6)
	m.progress.Width = maxInt(10, m.contentWidth()-4)
	m.help.Width = m.width
}

func (m Model) submitting() bool {
	return m.session.Phase() == workflow.PhaseProcessing
}

// inputActive reports whether keystrokes belong to the path input.
func (m Model) inputActive() bool {
	return m.session.Mode() == workflow.ModeCollect && !m.submitting() && m.focus == focusInput
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type probeMsg struct {
	ticket workflow.Ticket
	result intake.ProbeResult
	err    error
}

type submitMsg struct {
	ticket workflow.Ticket
	data   []byte
	err    error
}

type summaryMsg struct {
	ticket  workflow.Ticket
	summary report.Summary
	err     error
}

type notifyMsg struct{ ticket workflow.Ticket }

type settleMsg struct{ ticket workflow.Ticket }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func probeCmd(ctx context.Context, prober *intake.Prober, paths []string, ticket workflow.Ticket) tea.Cmd {
	return func() tea.Msg {
		result, err := prober.Probe(ctx, paths)
		return probeMsg{ticket: ticket, result: result, err: err}
	}
}

func submitCmd(ctx context.Context, proc api.Processor, docs []api.Document, ticket workflow.Ticket) tea.Cmd {
	return func() tea.Msg {
		data, err := proc.ProcessPDFs(ctx, docs)
		return submitMsg{ticket: ticket, data: data, err: err}
	}
}

func summaryCmd(ticket workflow.Ticket, data []byte) tea.Cmd {
	return func() tea.Msg {
		summary, err := report.Inspect(data)
		return summaryMsg{ticket: ticket, summary: summary, err: err}
	}
}

func notifyCmd(ticket workflow.Ticket) tea.Cmd {
	return tea.Tick(workflow.NotifyDelay, func(time.Time) tea.Msg {
		return notifyMsg{ticket: ticket}
	})
}

func settleCmd(ticket workflow.Ticket) tea.Cmd {
	return tea.Tick(workflow.SettleDelay, func(time.Time) tea.Msg {
		return settleMsg{ticket: ticket}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// contentWidth is the usable width inside the outer margin.
func (m Model) contentWidth() int {
	return maxInt(20, m.width-2)
}
