package pricing

import (
	"AgroTech-Vision/domain"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	// PricePerKilo is the unit price in guaraníes per kilogram (integer, no minor unit).
	PricePerKilo = 15299

	CurrencyGlyph  = "₲"
	CurrencySuffix = "Gs"

	// es-ES grouping: "." between thousands, no fractional digits.
	groupingFormat = "#.###,"
)

var leadingFloat = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ComputePrice returns floor(weightKg * PricePerKilo) formatted as "₲6.884.550".
func ComputePrice(weightKg float64) string {
	price := decimal.NewFromFloat(weightKg).
		Mul(decimal.NewFromInt(PricePerKilo)).
		Floor()
	return formatAmount(price)
}

// FormatGivenPrice normalizes a backend supplied price. Strings already carrying the
// "Gs" marker and strings that do not start with a number are returned unchanged.
func FormatGivenPrice(raw string) string {
	if strings.Contains(raw, CurrencySuffix) {
		return raw
	}

	match := leadingFloat.FindString(raw)
	if match == "" {
		return raw
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(match))
	if err != nil {
		return raw
	}
	return formatAmount(amount.Floor())
}

// DisplayPrice prefers the backend price verbatim and falls back to ComputePrice.
func DisplayPrice(result *domain.PredictionResult) string {
	if result == nil {
		return ""
	}
	if result.Price != nil && *result.Price != "" {
		return *result.Price
	}
	return ComputePrice(result.Weight)
}

// CalculationLine restates how the displayed price relates to the unit price,
// e.g. "450 kg × ₲15.299 = ₲6.884.550".
func CalculationLine(result *domain.PredictionResult) string {
	if result == nil {
		return ""
	}
	return strconv.FormatFloat(result.Weight, 'f', -1, 64) + " kg × " +
		UnitPriceLabel() + " = " + DisplayPrice(result)
}

func UnitPriceLabel() string {
	return formatAmount(decimal.NewFromInt(PricePerKilo))
}

func formatAmount(amount decimal.Decimal) string {
	return CurrencyGlyph + humanize.FormatInteger(groupingFormat, int(amount.IntPart()))
}
