package measurement

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

// ErrNoMeasurement is returned when a payload is requested for an invalid outcome.
var ErrNoMeasurement = errors.New("no successful measurement to serialize")

// BuildPlotPayload shapes a successful outcome into the plot persistence contract.
func BuildPlotPayload(out Outcome) (models.PlotPayload, error) {
	if !out.Valid() || out.Record == nil {
		return models.PlotPayload{}, ErrNoMeasurement
	}

	rec := out.Record
	details := models.SideLengths{
		BuholInputs:       rec.RawInputs,
		MeasurementMethod: rec.Method,
		ConversionFactors: rec.Constants,
	}
	if rec.Shape == models.ShapeTriangle {
		mode := rec.TriangleMode
		details.TriangleMode = &mode
	}

	blob, err := json.Marshal(details)
	if err != nil {
		return models.PlotPayload{}, fmt.Errorf("marshal side lengths: %w", err)
	}

	return models.PlotPayload{
		LayoutType:  rec.Shape,
		SideLengths: string(blob),
		AreaSqm:     round2(out.Result.AreaSqm),
		TotalLuwang: round2(out.Result.TotalLuwang),
	}, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
