package models

import (
	"errors"
	"time"

	"github.com/mamadbah2/pitak/pkg/units"
)

// ErrPlotNotFound is returned by plot stores for unknown ids.
var ErrPlotNotFound = errors.New("plot not found")

// ErrPlotExists is returned by plot stores when the farm already has a plot
// with the same name.
var ErrPlotExists = errors.New("plot already exists")

// SideLengths is the measurement detail serialized into PlotPayload.SideLengths.
type SideLengths struct {
	BuholInputs       RawInputs     `json:"buholInputs"`
	MeasurementMethod string        `json:"measurementMethod"`
	TriangleMode      *TriangleMode `json:"triangleMode"`
	ConversionFactors units.Factors `json:"conversionFactors"`
}

// PlotPayload is what the plot persistence layer receives for a pitak.
type PlotPayload struct {
	LayoutType  Shape   `json:"layoutType" bson:"layout_type"`
	SideLengths string  `json:"sideLengths" bson:"side_lengths"`
	AreaSqm     float64 `json:"areaSqm" bson:"area_sqm"`
	TotalLuwang float64 `json:"totalLuwang" bson:"total_luwang"`
}

// Plot is a stored pitak. MeasurementID and MeasuredAt point at the audit record.
type Plot struct {
	ID            string      `json:"id" bson:"_id"`
	FarmID        string      `json:"farmId" bson:"farm_id"`
	Name          string      `json:"name" bson:"name"`
	Payload       PlotPayload `json:"payload" bson:"payload"`
	MeasurementID string      `json:"measurementId" bson:"measurement_id"`
	MeasuredAt    time.Time   `json:"measuredAt" bson:"measured_at"`
	CreatedAt     time.Time   `json:"createdAt" bson:"created_at"`
}
