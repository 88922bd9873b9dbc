package analysis

import (
	"AgroTech-Vision/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduce(t *testing.T) {
	file := SelectedFile{Name: "cow.jpg", MimeType: "image/jpeg", Size: 14}
	selected := State{Phase: PhaseFileSelected, File: &file, PreviewID: "p1"}
	uploading := State{Phase: PhaseUploading, File: &file, PreviewID: "p1", RequestID: 3, Upload: domain.UploadState{IsLoading: true, Progress: 40}}
	failed := State{Phase: PhaseFailed, File: &file, PreviewID: "p1", RequestID: 3, Upload: domain.UploadState{Error: &domain.ApiError{Message: "server error: 500", Status: 500}}}
	result := domain.PredictionResult{Weight: 450}

	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{
			name:  "rejection from idle keeps idle with error",
			state: State{Phase: PhaseIdle},
			event: FileRejected{Message: domain.MessageInvalidFileType},
			want:  State{Phase: PhaseIdle, Upload: domain.UploadState{Error: &domain.ApiError{Message: domain.MessageInvalidFileType}}},
		},
		{
			name:  "rejection keeps previous selection",
			state: selected,
			event: FileRejected{Message: "too large"},
			want:  State{Phase: PhaseFileSelected, File: &file, PreviewID: "p1", Upload: domain.UploadState{Error: &domain.ApiError{Message: "too large"}}},
		},
		{
			name:  "accept resets error and result",
			state: failed,
			event: FileAccepted{File: file, PreviewID: "p2"},
			want:  State{Phase: PhaseFileSelected, File: &file, PreviewID: "p2", RequestID: 3},
		},
		{
			name:  "start from selected",
			state: selected,
			event: UploadStarted{RequestID: 4},
			want:  State{Phase: PhaseUploading, File: &file, PreviewID: "p1", RequestID: 4, Upload: domain.UploadState{IsLoading: true}},
		},
		{
			name:  "start from failed retries",
			state: failed,
			event: UploadStarted{RequestID: 4},
			want:  State{Phase: PhaseUploading, File: &file, PreviewID: "p1", RequestID: 4, Upload: domain.UploadState{IsLoading: true}},
		},
		{
			name:  "start from idle ignored",
			state: State{Phase: PhaseIdle},
			event: UploadStarted{RequestID: 4},
			want:  State{Phase: PhaseIdle},
		},
		{
			name:  "progress advances",
			state: uploading,
			event: UploadProgressed{RequestID: 3, Percent: 70},
			want:  State{Phase: PhaseUploading, File: &file, PreviewID: "p1", RequestID: 3, Upload: domain.UploadState{IsLoading: true, Progress: 70}},
		},
		{
			name:  "progress never goes back",
			state: uploading,
			event: UploadProgressed{RequestID: 3, Percent: 10},
			want:  uploading,
		},
		{
			name:  "progress capped at 100",
			state: uploading,
			event: UploadProgressed{RequestID: 3, Percent: 250},
			want:  State{Phase: PhaseUploading, File: &file, PreviewID: "p1", RequestID: 3, Upload: domain.UploadState{IsLoading: true, Progress: 100}},
		},
		{
			name:  "progress for other request ignored",
			state: uploading,
			event: UploadProgressed{RequestID: 2, Percent: 90},
			want:  uploading,
		},
		{
			name:  "success",
			state: uploading,
			event: UploadSucceeded{RequestID: 3, Result: result},
			want:  State{Phase: PhaseSuccess, File: &file, PreviewID: "p1", RequestID: 3, Result: &result, Upload: domain.UploadState{Progress: 100}},
		},
		{
			name:  "stale success ignored",
			state: State{Phase: PhaseIdle, RequestID: 3},
			event: UploadSucceeded{RequestID: 3, Result: result},
			want:  State{Phase: PhaseIdle, RequestID: 3},
		},
		{
			name:  "failure",
			state: uploading,
			event: UploadFailed{RequestID: 3, Err: &domain.ApiError{Message: "server error: 500", Status: 500}},
			want:  failed,
		},
		{
			name:  "failure for other request ignored",
			state: uploading,
			event: UploadFailed{RequestID: 1, Err: &domain.ApiError{Message: "x"}},
			want:  uploading,
		},
		{
			name:  "clear from uploading",
			state: uploading,
			event: Cleared{},
			want:  State{Phase: PhaseIdle, RequestID: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reduce(tt.state, tt.event))
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	file := SelectedFile{Name: "cow.jpg", MimeType: "image/jpeg"}
	before := State{Phase: PhaseUploading, File: &file, RequestID: 1, Upload: domain.UploadState{IsLoading: true}}
	snapshot := before

	_ = Reduce(before, UploadSucceeded{RequestID: 1, Result: domain.PredictionResult{Weight: 1}})

	assert.Equal(t, snapshot, before)
}
