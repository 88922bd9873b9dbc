package domain

import (
	"errors"
)

const (
	HistoryStorageKey   = "weightHistory"
	DefaultRecentCount  = 5
	ExportFileNameFmt   = "weight_history_%s.json"
	ExportDateLayout    = "2006-01-02"
	ExportMailSubject   = "Weight history export"
	ExportMailBody      = "<p>Attached is your weight estimation history.</p>"
	ArchiveImagesFolder = "weight-history"
)

var (
	MessageSuccessGetHistory   = "history retrieved successfully"
	MessageSuccessGetStats     = "history statistics retrieved successfully"
	MessageSuccessRemoveEntry  = "history entry removed successfully"
	MessageSuccessClearHistory = "history cleared successfully"
	MessageSuccessMailExport   = "history export sent successfully"

	MessageFailedGetHistory   = "failed to retrieve history"
	MessageFailedRemoveEntry  = "failed to remove history entry"
	MessageFailedClearHistory = "failed to clear history"
	MessageFailedExport       = "failed to export history"

	ErrEntryNotFound = errors.New("history entry not found")
	ErrStorageKey    = errors.New("storage key not found")
)

type (
	HistoryStats struct {
		Total   int     `json:"total"`
		Average float64 `json:"average"`
		Min     float64 `json:"min"`
		Max     float64 `json:"max"`
		Range   float64 `json:"range"`
	}

	// NewWeightEntry is an entry before the store assigns its id and timestamp.
	NewWeightEntry struct {
		Weight             float64  `json:"weight" validate:"gte=0"`
		Condition          string   `json:"condition"`
		Confidence         string   `json:"confidence"`
		ImageURL           string   `json:"imageUrl,omitempty"`
		DeviceType         string   `json:"deviceType,omitempty"`
		OriginalWeight     *float64 `json:"originalWeight,omitempty"`
		CalibrationApplied *bool    `json:"calibrationApplied,omitempty"`
	}

	HistoryQuery struct {
		Limit     int    `query:"limit" validate:"omitempty,min=1"`
		Condition string `query:"condition"`
		Device    string `query:"device"`
	}

	MailExportRequest struct {
		Email string `json:"email" validate:"required,email"`
	}
)
