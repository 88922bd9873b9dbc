package analysis

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/pkg/pricing"

	"github.com/dustin/go-humanize"
)

// NewAnalysisResponse renders s for API and CLI output. Price fields are set only for a
// successful result.
func NewAnalysisResponse(s State, previewURL string) domain.AnalysisResponse {
	res := domain.AnalysisResponse{
		Phase:  string(s.Phase),
		Upload: s.Upload,
		Result: s.Result,
	}

	if s.File != nil {
		res.File = &domain.SelectedFileResponse{
			Name:       s.File.Name,
			MimeType:   s.File.MimeType,
			Size:       s.File.Size,
			SizeHuman:  humanize.IBytes(uint64(s.File.Size)),
			PreviewURL: previewURL,
		}
	}

	if s.Result != nil {
		res.DisplayPrice = pricing.DisplayPrice(s.Result)
		res.CalculationLine = pricing.CalculationLine(s.Result)
	}
	return res
}
