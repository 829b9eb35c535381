package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/datanaut/fichas/internal/api"
	"github.com/datanaut/fichas/internal/intake"
)

const (
	// NotifyDelay separates a saved download from the downloadComplete
	// transition.
	NotifyDelay = 1500 * time.Millisecond
	// SettleDelay separates downloadComplete from mission completion.
	SettleDelay = 1000 * time.Millisecond
)

var (
	// ErrNoFiles is returned by BeginSubmit on an empty selection.
	ErrNoFiles = errors.New("no files selected")
	// ErrNoResult is returned by Download when there is nothing to save.
	ErrNoResult = errors.New("no processing result")
)

// Ticket identifies a deferred step (an in-flight submission or a delayed
// transition). Reset invalidates every outstanding ticket.
type Ticket struct {
	epoch uint64
}

// Mode selects which intake panel is shown.
type Mode int

const (
	ModeCollect Mode = iota
	ModeResultReady
	ModeMissionComplete
)

// Session is the composition root of one upload mission: it owns the file
// selection, the processing result and the workflow phase. It is not safe for
// concurrent use; the UI event loop serialises calls.
type Session struct {
	phase      Phase
	selection  intake.Selection
	submitted  int
	result     []byte
	downloaded bool
	savedPath  string
	message    Message
	epoch      uint64
	logger     *slog.Logger
}

// NewSession returns a session in the initial phase. A nil logger discards
// transition logs.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{logger: logger}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Step returns the progress step shown by the progress display.
func (s *Session) Step() int { return s.phase.Step() }

// Stages returns the progress cards for the current phase.
func (s *Session) Stages() [TotalSteps]Stage {
	return Stages(s.phase.Step(), s.phase.IsCompleted())
}

// Files returns a copy of the current selection.
func (s *Session) Files() []intake.File { return s.selection.Files() }

// FileCount returns the selection size.
func (s *Session) FileCount() int { return s.selection.Len() }

// TotalSize returns the combined size of the selected files in bytes.
func (s *Session) TotalSize() int64 { return s.selection.TotalSize() }

// Result returns the processing result, or nil outside result phases.
func (s *Session) Result() []byte { return s.result }

// Downloaded reports whether the result has been saved.
func (s *Session) Downloaded() bool { return s.downloaded }

// SavedPath returns where the result was saved.
func (s *Session) SavedPath() string { return s.savedPath }

// Message returns the current status message.
func (s *Session) Message() Message { return s.message }

// Mode returns the panel to render. Mission-complete wins over result-ready.
func (s *Session) Mode() Mode {
	switch {
	case s.phase.IsCompleted():
		return ModeMissionComplete
	case s.phase == PhaseReadyForDownload || s.phase == PhaseDownloadCompleted:
		return ModeResultReady
	default:
		return ModeCollect
	}
}

// Accept replaces the selection with the PDF members of candidates.
func (s *Session) Accept(candidates []intake.File) error {
	if !s.phase.Collecting() {
		return fmt.Errorf("%w: accept files during %s", ErrInvalidTransition, s.phase)
	}
	dropped, err := s.selection.Accept(candidates)
	if err != nil {
		if errors.Is(err, intake.ErrTooManyFiles) {
			s.message = errorMessage(msgTooManyFiles)
		}
		s.logger.Warn("file batch rejected", "candidates", len(candidates), "error", err)
		return err
	}
	s.message = Message{}
	s.logger.Info("files accepted", "selected", s.selection.Len(), "dropped", dropped)
	return s.apply(Event{Kind: EventFilesChanged, Files: s.selection.Len()})
}

// Remove drops the selected file at index.
func (s *Session) Remove(index int) bool {
	if !s.phase.Collecting() || !s.selection.Remove(index) {
		return false
	}
	_ = s.apply(Event{Kind: EventFilesChanged, Files: s.selection.Len()})
	return true
}

// BeginSubmit starts a submission. On an empty selection it sets an error
// message and returns ErrNoFiles; no network call must follow. The returned
// ticket must be passed to FinishSubmit.
func (s *Session) BeginSubmit() ([]api.Document, Ticket, error) {
	if s.selection.Len() == 0 {
		s.message = errorMessage(msgNoFiles)
		return nil, Ticket{}, ErrNoFiles
	}
	if err := s.apply(Event{Kind: EventProcessingStarted}); err != nil {
		return nil, Ticket{}, err
	}
	files := s.selection.Files()
	docs := make([]api.Document, len(files))
	for i, f := range files {
		docs[i] = f
	}
	s.submitted = len(files)
	s.message = infoMessage(fmt.Sprintf("Enviando %d arquivo(s)...", len(files)))
	return docs, s.ticket(), nil
}

// FinishSubmit records the outcome of the submission started with t. Stale
// tickets are ignored and reported as false.
func (s *Session) FinishSubmit(t Ticket, result []byte, err error) bool {
	if !s.valid(t) || s.phase != PhaseProcessing {
		s.logger.Info("discarding stale submission result", "phase", s.phase)
		return false
	}
	if err == nil && len(result) == 0 {
		err = errors.New("empty response body")
	}
	if err != nil {
		text := api.DetailOf(err)
		if text == "" {
			text = msgProcessFailed
		}
		s.message = errorMessage(text)
		s.logger.Error("submission failed", "files", s.submitted, "error", err)
		_ = s.apply(Event{Kind: EventProcessingFailed})
		return true
	}
	s.result = result
	s.message = processedMessage(s.submitted)
	s.logger.Info("submission complete", "files", s.submitted, "bytes", len(result))
	_ = s.apply(Event{Kind: EventProcessingComplete})
	return true
}

// Download saves the result under ResultFileName. It is a no-op once the
// result has been saved. The returned ticket schedules NotifyDownloaded
// after NotifyDelay.
func (s *Session) Download(saver Saver) (Ticket, error) {
	if s.phase != PhaseReadyForDownload || s.result == nil {
		return Ticket{}, ErrNoResult
	}
	if s.downloaded {
		return Ticket{}, fmt.Errorf("%w: result already saved", ErrInvalidTransition)
	}
	path, err := saver.Save(ResultFileName, s.result)
	if err != nil {
		s.message = saveFailedMessage(err)
		s.logger.Error("saving result failed", "error", err)
		return Ticket{}, err
	}
	s.downloaded = true
	s.savedPath = path
	s.message = savedMessage(path)
	s.logger.Info("result saved", "path", path)
	return s.ticket(), nil
}

// NotifyDownloaded applies downloadComplete for the download identified by t
// and returns the ticket that settles the mission after SettleDelay.
func (s *Session) NotifyDownloaded(t Ticket) (Ticket, bool) {
	if !s.valid(t) || !s.downloaded {
		return Ticket{}, false
	}
	if err := s.apply(Event{Kind: EventDownloadComplete}); err != nil {
		return Ticket{}, false
	}
	return s.ticket(), true
}

// Settle completes the mission unless t was invalidated by Reset.
func (s *Session) Settle(t Ticket) bool {
	if !s.valid(t) {
		return false
	}
	return s.apply(Event{Kind: EventDownloadSettled}) == nil
}

// Reset starts a new mission and cancels every pending ticket.
func (s *Session) Reset() {
	s.epoch++
	s.selection.Clear()
	s.submitted = 0
	s.result = nil
	s.downloaded = false
	s.savedPath = ""
	s.message = Message{}
	_ = s.apply(Event{Kind: EventNewMission})
}

// Ticket returns a ticket for background work started now, such as reading
// dropped paths.
func (s *Session) Ticket() Ticket { return s.ticket() }

// Current reports whether t was issued since the last Reset.
func (s *Session) Current(t Ticket) bool {
	return s.valid(t)
}

func (s *Session) ticket() Ticket {
	return Ticket{epoch: s.epoch}
}

func (s *Session) valid(t Ticket) bool {
	return t.epoch == s.epoch
}

func (s *Session) apply(ev Event) error {
	next, err := Transition(s.phase, ev)
	if err != nil {
		s.logger.Warn("rejected transition", "phase", s.phase, "event", ev.Kind)
		return err
	}
	if next != s.phase {
		s.logger.Debug("phase changed", "from", s.phase, "to", next, "event", ev.Kind)
	}
	s.phase = next
	return nil
}
