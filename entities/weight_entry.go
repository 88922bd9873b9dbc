package entities

import (
	"time"
)

// WeightEntry is one persisted history record. JSON keys match the on-disk format.
type WeightEntry struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	Weight             float64   `json:"weight"`
	Condition          string    `json:"condition"`
	Confidence         string    `json:"confidence"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	DeviceType         string    `json:"deviceType,omitempty"`
	OriginalWeight     *float64  `json:"originalWeight,omitempty"`
	CalibrationApplied *bool     `json:"calibrationApplied,omitempty"`
}
