package domain

import (
	"errors"
	"fmt"
)

const (
	MaxFileSize       = 10 * 1024 * 1024
	PredictFilePath   = "/predict-file"
	PredictFileField  = "file"
	UnknownErrorText  = "unknown error"
	ConditionAnalyzed = "analyzed"
)

// AllowedFileTypes is the upload allow-list. image/jpg is accepted as an alias of image/jpeg.
var AllowedFileTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var (
	MessageSuccessSelectFile  = "file selected successfully"
	MessageSuccessAnalyze     = "image analyzed successfully"
	MessageSuccessGetAnalysis = "analysis state retrieved successfully"
	MessageSuccessClear       = "analysis cleared successfully"
	MessageSuccessKeepResult  = "result added to history"

	MessageFailedSelectFile  = "failed to select file"
	MessageFailedAnalyze     = "failed to analyze image"
	MessageFailedGetPreview  = "failed to get preview"
	MessageFailedKeepResult  = "failed to add result to history"
	MessageInvalidFileType   = "invalid file type. Only images are allowed (JPEG, PNG, WebP)."
	MessageFileTooLargeFmt   = "file is too large. Maximum allowed: %dMB."
	MessageServerErrorFmt    = "server error: %d"
	MessageResultNotAnalyzed = "no analysis result available"

	ErrInvalidFile      = errors.New("invalid file")
	ErrNoFileSelected   = errors.New("no file selected")
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrNoResult         = errors.New("no analysis result available")
	ErrPreviewNotFound  = errors.New("preview not found")
	ErrStaleResponse    = errors.New("response arrived after the analysis was cleared")
)

type (
	// ApiError is the structured error surfaced for a failed upload attempt.
	// Status is zero when no HTTP status was received.
	ApiError struct {
		Message string `json:"message"`
		Status  int    `json:"status,omitempty"`
		Details string `json:"details,omitempty"`
	}

	UploadState struct {
		IsLoading bool      `json:"is_loading"`
		Progress  int       `json:"progress"`
		Error     *ApiError `json:"error,omitempty"`
	}

	Recommendations struct {
		Nutrition  []string `json:"nutricion"`
		Management []string `json:"manejo"`
		Health     []string `json:"salud"`
	}

	// RawPrediction mirrors the prediction backend's JSON body. Every field is optional.
	RawPrediction struct {
		Weight                 *float64         `json:"peso"`
		Price                  *string          `json:"precio"`
		Recommendations        *Recommendations `json:"recomendaciones"`
		Methodology            *string          `json:"metodologia"`
		WeightFromVisionModel  *float64         `json:"peso_openai"`
		WeightFromDataset      *float64         `json:"peso_dataset"`
		OriginalWeight         *float64         `json:"peso_original"`
		GlobalCorrectionFactor *float64         `json:"factor_correccion_global"`
		Confidence             *string          `json:"confianza"`
		Notes                  *string          `json:"observaciones"`
		DeviceType             *string          `json:"dispositivo"`
		AdjustmentsApplied     *string          `json:"ajustes_aplicados"`
	}

	PredictionResult struct {
		Weight                 float64         `json:"weight"`
		Price                  *string         `json:"price,omitempty"`
		Recommendations        Recommendations `json:"recommendations"`
		Methodology            *string         `json:"methodology,omitempty"`
		WeightFromVisionModel  *float64        `json:"weight_from_vision_model,omitempty"`
		WeightFromDataset      *float64        `json:"weight_from_dataset,omitempty"`
		OriginalWeight         *float64        `json:"original_weight,omitempty"`
		GlobalCorrectionFactor *float64        `json:"global_correction_factor,omitempty"`
		Confidence             *string         `json:"confidence,omitempty"`
		Notes                  *string         `json:"notes,omitempty"`
		DeviceType             *string         `json:"device_type,omitempty"`
		AdjustmentsApplied     *string         `json:"adjustments_applied,omitempty"`
	}

	SelectedFileResponse struct {
		Name       string `json:"name"`
		MimeType   string `json:"mime_type"`
		Size       int64  `json:"size"`
		SizeHuman  string `json:"size_human"`
		PreviewURL string `json:"preview_url,omitempty"`
	}

	AnalysisResponse struct {
		Phase           string                `json:"phase"`
		File            *SelectedFileResponse `json:"file,omitempty"`
		Upload          UploadState           `json:"upload"`
		Result          *PredictionResult     `json:"result,omitempty"`
		DisplayPrice    string                `json:"display_price,omitempty"`
		CalculationLine string                `json:"calculation_line,omitempty"`
	}

	KeepResultRequest struct {
		Condition          string `json:"condition" validate:"omitempty,max=64"`
		Confidence         string `json:"confidence" validate:"omitempty,max=64"`
		DeviceType         string `json:"device_type" validate:"omitempty,max=64"`
		CalibrationApplied *bool  `json:"calibration_applied"`
	}
)

func (e *ApiError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}
