package prediction

import (
	"AgroTech-Vision/domain"
)

// DefaultRecommendations is used as a whole when the backend sends no recommendations.
// A partial object from the backend is kept as sent; missing categories are not filled.
func DefaultRecommendations() domain.Recommendations {
	return domain.Recommendations{
		Nutrition:  []string{"maintain balanced diet"},
		Management: []string{"regular monitoring"},
		Health:     []string{"veterinary checkup"},
	}
}

// Normalize maps a raw backend response onto the canonical result:
//
//	weight          <- peso, 0 when absent or negative
//	recommendations <- recomendaciones, DefaultRecommendations() when absent
//	everything else <- verbatim
func Normalize(raw domain.RawPrediction) domain.PredictionResult {
	result := domain.PredictionResult{
		Price:                  raw.Price,
		Methodology:            raw.Methodology,
		WeightFromVisionModel:  raw.WeightFromVisionModel,
		WeightFromDataset:      raw.WeightFromDataset,
		OriginalWeight:         raw.OriginalWeight,
		GlobalCorrectionFactor: raw.GlobalCorrectionFactor,
		Confidence:             raw.Confidence,
		Notes:                  raw.Notes,
		DeviceType:             raw.DeviceType,
		AdjustmentsApplied:     raw.AdjustmentsApplied,
	}

	if raw.Weight != nil && *raw.Weight > 0 {
		result.Weight = *raw.Weight
	}

	if raw.Recommendations != nil {
		result.Recommendations = *raw.Recommendations
	} else {
		result.Recommendations = DefaultRecommendations()
	}

	return result
}
