package workflow

import (
	"errors"
	"fmt"
)

// Phase is the single authoritative workflow state.
type Phase int

const (
	// PhaseInitial has no files selected.
	PhaseInitial Phase = iota
	// PhaseUploading has files selected and waits for submission.
	PhaseUploading
	// PhaseProcessing has a submission in flight.
	PhaseProcessing
	// PhaseReadyForDownload holds a processing result not yet saved.
	PhaseReadyForDownload
	// PhaseDownloadCompleted has saved the result and waits for the
	// settle delay before reporting the mission as complete.
	PhaseDownloadCompleted
	// PhaseCompleted is the end of a mission; only a reset leaves it.
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseUploading:
		return "uploading"
	case PhaseProcessing:
		return "processing"
	case PhaseReadyForDownload:
		return "ready_for_download"
	case PhaseDownloadCompleted:
		return "download_completed"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Step maps the phase onto the three progress stages (1 upload, 2
// processing, 3 download).
func (p Phase) Step() int {
	switch p {
	case PhaseProcessing:
		return 2
	case PhaseReadyForDownload, PhaseDownloadCompleted, PhaseCompleted:
		return 3
	default:
		return 1
	}
}

// IsCompleted reports whether the mission has finished.
func (p Phase) IsCompleted() bool {
	return p == PhaseCompleted
}

// HasResult reports whether a processing result exists in this phase.
func (p Phase) HasResult() bool {
	return p == PhaseReadyForDownload || p == PhaseDownloadCompleted || p == PhaseCompleted
}

// Collecting reports whether the user can still change the selection.
func (p Phase) Collecting() bool {
	return p == PhaseInitial || p == PhaseUploading
}

// EventKind enumerates workflow events.
type EventKind int

const (
	EventFilesChanged EventKind = iota
	EventProcessingStarted
	EventProcessingFailed
	EventProcessingComplete
	EventDownloadComplete
	EventDownloadSettled
	EventNewMission
)

func (k EventKind) String() string {
	switch k {
	case EventFilesChanged:
		return "files_changed"
	case EventProcessingStarted:
		return "processing_started"
	case EventProcessingFailed:
		return "processing_failed"
	case EventProcessingComplete:
		return "processing_complete"
	case EventDownloadComplete:
		return "download_complete"
	case EventDownloadSettled:
		return "download_settled"
	case EventNewMission:
		return "new_mission"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is an input to Transition. Files is only read for
// EventFilesChanged.
type Event struct {
	Kind  EventKind
	Files int
}

// ErrInvalidTransition is returned when an event does not apply to the
// current phase.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// Transition is the workflow transition function.
func Transition(from Phase, ev Event) (Phase, error) {
	switch ev.Kind {
	case EventNewMission:
		return PhaseInitial, nil
	case EventFilesChanged:
		if from.Collecting() {
			if ev.Files > 0 {
				return PhaseUploading, nil
			}
			return PhaseInitial, nil
		}
	case EventProcessingStarted:
		if from == PhaseUploading {
			return PhaseProcessing, nil
		}
	case EventProcessingFailed:
		if from == PhaseProcessing {
			return PhaseUploading, nil
		}
	case EventProcessingComplete:
		if from == PhaseProcessing {
			return PhaseReadyForDownload, nil
		}
	case EventDownloadComplete:
		if from == PhaseReadyForDownload {
			return PhaseDownloadCompleted, nil
		}
	case EventDownloadSettled:
		if from == PhaseDownloadCompleted {
			return PhaseCompleted, nil
		}
	}
	return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev.Kind, from)
}
