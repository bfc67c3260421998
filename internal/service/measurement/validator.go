package measurement

import (
	"math"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

// maxBuhol keeps every input an exactly representable integer and every area finite.
const maxBuhol = 1 << 53

const (
	msgRequired      = "required"
	msgNotNumber     = "must be a number"
	msgNotWhole      = "must be a whole number of buhol"
	msgNegative      = "must not be negative"
	msgTooLarge      = "exceeds the largest supported buhol count"
	msgNotPositive   = "must be greater than zero"
	msgTriangleSides = "the longest side must be shorter than the other two combined"
)

// Validate checks a request against the rules of its layout and returns every
// problem found. It never calls a calculator.
func Validate(req models.MeasurementRequest) models.ValidationErrors {
	calc, errs := Resolve(req.Shape, req.TriangleMode)
	if calc == nil {
		return errs
	}

	for _, field := range calc.Fields() {
		value, present := req.Inputs[field]
		if !present {
			errs.Add(field, models.KindMissingField, msgRequired)
			continue
		}
		if msg := checkCount(value); msg != "" {
			errs.Add(field, models.KindInvalidValue, msg)
		}
	}

	if !errs.Valid() {
		return errs
	}

	if tri, ok := calc.(TriangleThreeSides); ok && !tri.satisfiesTriangleInequality(req.Inputs) {
		errs.Add(models.KeySides, models.KindGeometricInfeasibility, msgTriangleSides)
	}

	return errs
}

func checkCount(v float64) string {
	switch {
	case math.IsNaN(v):
		return msgNotNumber
	case math.IsInf(v, 0) || v != math.Trunc(v):
		return msgNotWhole
	case v < 0:
		return msgNegative
	case v > maxBuhol:
		return msgTooLarge
	case v == 0:
		return msgNotPositive
	}
	return ""
}
