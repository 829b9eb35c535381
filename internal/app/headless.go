package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/datanaut/fichas/internal/api"
	"github.com/datanaut/fichas/internal/intake"
	"github.com/datanaut/fichas/internal/logtail"
	"github.com/datanaut/fichas/internal/prefs"
	"github.com/datanaut/fichas/internal/report"
	"github.com/datanaut/fichas/internal/state"
	"github.com/datanaut/fichas/internal/workflow"
)

// Submit runs one mission without the TUI: probe paths, upload the PDFs and
// save the returned spreadsheet into the configured output directory.
func Submit(ctx context.Context, opts Options, paths []string, out io.Writer) error {
	cfg, client, logger, err := newHeadlessClient(opts)
	if err != nil {
		return err
	}
	session := workflow.NewSession(logger)
	if err := submit(ctx, client, intake.NewProber(), workflow.FileSaver{Dir: cfg.OutputDir}, paths, out, session); err != nil {
		return err
	}
	dir := filepath.Dir(session.SavedPath())
	if err := prefs.Update(opts.PrefsPath, func(p *prefs.Prefs) { p.OutputDir = dir }); err != nil {
		logger.Warn("saving output dir preference failed", "error", err)
	}
	return nil
}

func submit(ctx context.Context, proc api.Processor, prober *intake.Prober, saver workflow.Saver, paths []string, out io.Writer, session *workflow.Session) error {
	probed, err := prober.Probe(ctx, paths)
	if err != nil {
		return fmt.Errorf("probe files: %w", err)
	}
	for _, missing := range probed.Missing {
		fmt.Fprintf(out, "ignorado (não encontrado): %s\n", missing)
	}
	for _, f := range probed.Files {
		if !f.IsPDF() {
			fmt.Fprintf(out, "ignorado (não é PDF): %s\n", f.Path)
		}
	}

	if err := session.Accept(probed.Files); err != nil {
		return messageError(session, err)
	}

	docs, ticket, err := session.BeginSubmit()
	if err != nil {
		return messageError(session, err)
	}
	fmt.Fprintln(out, session.Message().Text)

	result, err := proc.ProcessPDFs(ctx, docs)
	session.FinishSubmit(ticket, result, err)
	if session.Phase() != workflow.PhaseReadyForDownload {
		return messageError(session, err)
	}
	fmt.Fprintln(out, session.Message().Text)

	if summary, err := report.Inspect(session.Result()); err == nil {
		printSummary(out, summary)
	}

	ticket, err = session.Download(saver)
	if err != nil {
		return messageError(session, err)
	}
	fmt.Fprintln(out, session.Message().Text)

	// Without a screen to animate there is nothing to wait for.
	if settle, ok := session.NotifyDownloaded(ticket); ok {
		session.Settle(settle)
	}
	return nil
}

// messageError prefers the user-facing session message over err.
func messageError(session *workflow.Session, err error) error {
	msg := session.Message()
	if msg.Severity == workflow.SeverityError && msg.Text != "" {
		if err == nil {
			return errors.New(msg.Text)
		}
		return fmt.Errorf("%s: %w", msg.Text, err)
	}
	if err == nil {
		return errors.New("submission did not produce a result")
	}
	return err
}

func printSummary(out io.Writer, s report.Summary) {
	if len(s.Years) > 0 {
		fmt.Fprintf(out, "Anos: %s\n", strings.Join(s.Years, ", "))
	}
	if !s.Employee.Empty() {
		fmt.Fprintf(out, "Funcionário: %s  CPF: %s  Admissão: %s\n",
			fallback(s.Employee.Name), fallback(s.Employee.CPF), fallback(s.Employee.Admission))
	}
}

func fallback(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Status probes the API once and prints the connection indicator.
func Status(ctx context.Context, opts Options, out io.Writer) error {
	_, client, logger, err := newHeadlessClient(opts)
	if err != nil {
		return err
	}
	store := &state.Store{}
	refresh(ctx, store, client, logger)
	snap := store.Snapshot()

	fmt.Fprintf(out, "%s (%s)\n", snap.Connection().Label(), client.BaseURL())
	fmt.Fprintln(out, snap.Detail())
	if snap.Health != "" {
		fmt.Fprintf(out, "health: %s\n", snap.Health)
	}
	if snap.Connection() == state.ConnectionError {
		return fmt.Errorf("api unreachable: %s", snap.LastError)
	}
	return nil
}

// Logs prints the last lines of the fichas log file in readable form.
func Logs(opts Options, lines int, out io.Writer) error {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}
	tail, err := logtail.Read(cfg.LogFile, lines)
	if err != nil {
		return err
	}
	if len(tail) == 0 {
		fmt.Fprintf(out, "nenhum registro em %s\n", cfg.LogFile)
		return nil
	}
	for _, line := range logtail.FormatLines(tail) {
		fmt.Fprintln(out, line)
	}
	return nil
}
