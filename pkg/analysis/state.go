package analysis

import (
	"AgroTech-Vision/domain"
)

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseFileSelected Phase = "file_selected"
	PhaseUploading    Phase = "uploading"
	PhaseSuccess      Phase = "success"
	PhaseFailed       Phase = "failed"
)

// State is one snapshot of the analysis flow. RequestID identifies the upload whose
// responses may still be applied.
type State struct {
	Phase     Phase
	File      *SelectedFile
	PreviewID string
	Upload    domain.UploadState
	Result    *domain.PredictionResult
	RequestID uint64
}

type (
	Event interface {
		isEvent()
	}

	FileRejected struct {
		Message string
	}

	FileAccepted struct {
		File      SelectedFile
		PreviewID string
	}

	UploadStarted struct {
		RequestID uint64
	}

	UploadProgressed struct {
		RequestID uint64
		Percent   int
	}

	UploadSucceeded struct {
		RequestID uint64
		Result    domain.PredictionResult
	}

	UploadFailed struct {
		RequestID uint64
		Err       *domain.ApiError
	}

	Cleared struct{}
)

func (FileRejected) isEvent()     {}
func (FileAccepted) isEvent()     {}
func (UploadStarted) isEvent()    {}
func (UploadProgressed) isEvent() {}
func (UploadSucceeded) isEvent()  {}
func (UploadFailed) isEvent()     {}
func (Cleared) isEvent()          {}

// CanSubmit reports whether an upload may start from s.
func CanSubmit(s State) bool {
	if s.File == nil {
		return false
	}
	return s.Phase == PhaseFileSelected || s.Phase == PhaseFailed
}

// IsCurrent reports whether a response for requestID may still change s.
func IsCurrent(s State, requestID uint64) bool {
	return s.Phase == PhaseUploading && s.RequestID == requestID
}

// Reduce returns the state after e. Events that do not apply leave s unchanged.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case FileRejected:
		s.Upload.Error = &domain.ApiError{Message: ev.Message}
		return s

	case FileAccepted:
		file := ev.File
		return State{
			Phase:     PhaseFileSelected,
			File:      &file,
			PreviewID: ev.PreviewID,
			RequestID: s.RequestID,
		}

	case UploadStarted:
		if !CanSubmit(s) {
			return s
		}
		s.Phase = PhaseUploading
		s.RequestID = ev.RequestID
		s.Upload = domain.UploadState{IsLoading: true}
		s.Result = nil
		return s

	case UploadProgressed:
		if !IsCurrent(s, ev.RequestID) {
			return s
		}
		percent := min(max(ev.Percent, 0), 100)
		if percent > s.Upload.Progress {
			s.Upload.Progress = percent
		}
		return s

	case UploadSucceeded:
		if !IsCurrent(s, ev.RequestID) {
			return s
		}
		result := ev.Result
		s.Phase = PhaseSuccess
		s.Result = &result
		s.Upload = domain.UploadState{Progress: 100}
		return s

	case UploadFailed:
		if !IsCurrent(s, ev.RequestID) {
			return s
		}
		s.Phase = PhaseFailed
		s.Result = nil
		s.Upload = domain.UploadState{Error: ev.Err}
		return s

	case Cleared:
		return State{Phase: PhaseIdle, RequestID: s.RequestID}
	}
	return s
}
