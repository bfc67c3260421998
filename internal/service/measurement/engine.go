package measurement

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/pitak/internal/domain/models"
	"github.com/mamadbah2/pitak/pkg/units"
)

// Outcome is the result of one Calculate call. Record is nil unless the
// request was valid.
type Outcome struct {
	Result models.CalculationResult
	Errors models.ValidationErrors
	Method string
	Record *models.MeasurementRecord
}

// Valid reports whether the calculation succeeded.
func (o Outcome) Valid() bool {
	return o.Errors.Valid()
}

// Engine validates and calculates pitak areas. It keeps no state between calls.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine builds an engine stamping records with UTC time and uuid ids.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate reports every problem with the request.
func (e *Engine) Validate(req models.MeasurementRequest) models.ValidationErrors {
	return Validate(req)
}

// Calculate validates the request and, when valid, computes the area, the
// luwang capacity and the audit record describing the computation.
func (e *Engine) Calculate(req models.MeasurementRequest) Outcome {
	errs := Validate(req)
	if !errs.Valid() {
		return Outcome{Errors: errs}
	}

	calc, errs := Resolve(req.Shape, req.TriangleMode)
	if calc == nil {
		return Outcome{Errors: errs}
	}

	area, err := calc.Area(req.Inputs)
	if err != nil {
		errs.Add(models.KeySides, models.KindGeometricInfeasibility, err.Error())
		return Outcome{Errors: errs}
	}
	if math.IsNaN(area) || math.IsInf(area, 0) || area < 0 {
		errs.Add(models.KeyShape, models.KindGeometricInfeasibility, "area is not a finite positive number")
		return Outcome{Errors: errs}
	}

	result := models.CalculationResult{
		AreaSqm:     area,
		TotalLuwang: units.SqmToLuwang(area),
	}

	record := &models.MeasurementRecord{
		ID:           e.newID(),
		Shape:        calc.Shape(),
		TriangleMode: calc.Mode(),
		RawInputs:    req.Inputs.Pick(calc.Fields()),
		Method:       calc.Method(),
		Result:       result,
		Constants:    units.CurrentFactors(),
		Timestamp:    e.now(),
	}

	return Outcome{
		Result: result,
		Errors: errs,
		Method: calc.Method(),
		Record: record,
	}
}
