package analysis

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/entities"
	"AgroTech-Vision/pkg/history"
	"AgroTech-Vision/pkg/prediction"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

type (
	UploadController interface {
		Select(file SelectedFile) (State, error)
		Submit(ctx context.Context) (State, error)
		Snapshot() State
		Clear() State
		Keep(ctx context.Context, req domain.KeepResultRequest) (entities.WeightEntry, error)
		Preview(id string) (Preview, error)
		Response(s State) domain.AnalysisResponse
		Close()
	}

	uploadController struct {
		mu            sync.Mutex
		state         State
		nextRequestID uint64

		client         prediction.PredictionClient
		previews       PreviewStore
		historyService history.HistoryService
	}
)

// NewUploadController wires the analysis flow. historyService may be nil, in which case
// Keep reports domain.ErrNotConfigured.
func NewUploadController(client prediction.PredictionClient, previews PreviewStore, historyService history.HistoryService) UploadController {
	return &uploadController{
		state:          State{Phase: PhaseIdle},
		client:         client,
		previews:       previews,
		historyService: historyService,
	}
}

// apply must be called with mu held. A preview no longer referenced by the new state is
// released here, so every transition away from a selection frees it.
func (c *uploadController) apply(ev Event) {
	previous := c.state.PreviewID
	c.state = Reduce(c.state, ev)
	if previous != "" && previous != c.state.PreviewID {
		c.previews.Release(previous)
	}
}

func (c *uploadController) Select(file SelectedFile) (State, error) {
	if message := ValidateFile(file); message != "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.apply(FileRejected{Message: message})
		return c.state, fmt.Errorf("%w: %s", domain.ErrInvalidFile, message)
	}

	previewID := c.previews.Acquire(file)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(FileAccepted{File: file, PreviewID: previewID})
	return c.state, nil
}

// Submit runs one prediction request for the current selection. The lock is not held
// while the request is in flight; its outcome is applied only if the request is still
// the current one.
func (c *uploadController) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.state.Phase == PhaseUploading {
		s := c.state
		c.mu.Unlock()
		return s, domain.ErrUploadInProgress
	}
	if !CanSubmit(c.state) {
		s := c.state
		c.mu.Unlock()
		return s, domain.ErrNoFileSelected
	}

	c.nextRequestID++
	requestID := c.nextRequestID
	c.apply(UploadStarted{RequestID: requestID})
	file := *c.state.File
	c.mu.Unlock()

	raw, err := c.client.PredictFile(ctx, prediction.FileUpload{
		Name:     file.Name,
		MimeType: file.MimeType,
		Data:     file.Data,
	}, func(sent, total int64) {
		if total <= 0 {
			return
		}
		// 100 is reserved for the decoded response.
		percent := int(min(sent*100/total, 99))
		c.mu.Lock()
		c.apply(UploadProgressed{RequestID: requestID, Percent: percent})
		c.mu.Unlock()
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if !IsCurrent(c.state, requestID) {
		log.Debugf("Dropping late response for analysis request %d (err: %v)", requestID, err)
		return c.state, domain.ErrStaleResponse
	}

	if err != nil {
		var apiErr *domain.ApiError
		if !errors.As(err, &apiErr) {
			apiErr = &domain.ApiError{Message: err.Error()}
		}
		c.apply(UploadFailed{RequestID: requestID, Err: apiErr})
		return c.state, apiErr
	}

	c.apply(UploadSucceeded{RequestID: requestID, Result: prediction.Normalize(raw)})
	return c.state, nil
}

func (c *uploadController) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Clear does not abort an in-flight request; its response is dropped when it arrives.
func (c *uploadController) Clear() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(Cleared{})
	return c.state
}

func (c *uploadController) Keep(ctx context.Context, req domain.KeepResultRequest) (entities.WeightEntry, error) {
	if c.historyService == nil {
		return entities.WeightEntry{}, domain.ErrNotConfigured
	}

	c.mu.Lock()
	if c.state.Phase != PhaseSuccess || c.state.Result == nil {
		c.mu.Unlock()
		return entities.WeightEntry{}, domain.ErrNoResult
	}
	entry := NewEntryFromResult(*c.state.Result, req)
	var image *history.ArchiveImage
	if c.state.File != nil {
		image = &history.ArchiveImage{Data: c.state.File.Data, MimeType: c.state.File.MimeType}
	}
	c.mu.Unlock()

	return c.historyService.AddEntry(ctx, entry, image)
}

func (c *uploadController) Preview(id string) (Preview, error) {
	return c.previews.Get(id)
}

func (c *uploadController) Response(s State) domain.AnalysisResponse {
	return NewAnalysisResponse(s, c.previews.URL(s.PreviewID))
}

func (c *uploadController) Close() {
	c.Clear()
}

// NewEntryFromResult flattens a result into a history entry. Values in req win over
// the ones reported by the prediction backend.
func NewEntryFromResult(result domain.PredictionResult, req domain.KeepResultRequest) domain.NewWeightEntry {
	entry := domain.NewWeightEntry{
		Weight:             result.Weight,
		Condition:          req.Condition,
		Confidence:         req.Confidence,
		DeviceType:         req.DeviceType,
		OriginalWeight:     result.OriginalWeight,
		CalibrationApplied: req.CalibrationApplied,
	}

	if entry.Condition == "" {
		entry.Condition = domain.ConditionAnalyzed
	}
	if entry.Confidence == "" && result.Confidence != nil {
		entry.Confidence = *result.Confidence
	}
	if entry.DeviceType == "" && result.DeviceType != nil {
		entry.DeviceType = *result.DeviceType
	}
	if entry.CalibrationApplied == nil && result.GlobalCorrectionFactor != nil {
		applied := *result.GlobalCorrectionFactor != 1
		entry.CalibrationApplied = &applied
	}
	return entry
}
