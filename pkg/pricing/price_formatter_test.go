package pricing

import (
	"AgroTech-Vision/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePrice(t *testing.T) {
	tests := []struct {
		weight float64
		want   string
	}{
		{weight: 450, want: "₲6.884.550"},
		{weight: 380, want: "₲5.813.620"},
		{weight: 0, want: "₲0"},
		{weight: 1, want: "₲15.299"},
		{weight: 425.5, want: "₲6.509.724"},
		{weight: 0.5, want: "₲7.649"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePrice(tt.weight))
		})
	}
}

func TestFormatGivenPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "suffix marker passes through", raw: "6.500.575 Gs", want: "6.500.575 Gs"},
		{name: "plain integer", raw: "6884550", want: "₲6.884.550"},
		{name: "fraction is floored", raw: "6884550.99", want: "₲6.884.550"},
		{name: "leading number with trailing text", raw: "1234567 guaranies", want: "₲1.234.567"},
		{name: "unparsable is returned unchanged", raw: "consultar", want: "consultar"},
		{name: "empty is returned unchanged", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatGivenPrice(tt.raw))
		})
	}
}

func TestDisplayPrice(t *testing.T) {
	backend := "7.000.000 Gs"
	empty := ""

	assert.Equal(t, backend, DisplayPrice(&domain.PredictionResult{Weight: 450, Price: &backend}))
	assert.Equal(t, "₲6.884.550", DisplayPrice(&domain.PredictionResult{Weight: 450}))
	assert.Equal(t, "₲6.884.550", DisplayPrice(&domain.PredictionResult{Weight: 450, Price: &empty}))
	assert.Equal(t, "", DisplayPrice(nil))
}

func TestCalculationLineMatchesDisplayPrice(t *testing.T) {
	result := &domain.PredictionResult{Weight: 450}

	line := CalculationLine(result)

	assert.Equal(t, "450 kg × ₲15.299 = ₲6.884.550", line)
	assert.Contains(t, line, DisplayPrice(result))
	assert.Equal(t, "₲15.299", UnitPriceLabel())
}
