package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/pitak/pkg/units"
)

// Shape enumerates the supported pitak layouts.
type Shape string

const (
	ShapeSquare    Shape = "square"
	ShapeRectangle Shape = "rectangle"
	ShapeTriangle  Shape = "triangle"
	ShapeCircle    Shape = "circle"
)

// TriangleMode selects how a triangular pitak is measured.
type TriangleMode string

const (
	TriangleBaseHeight TriangleMode = "base_height"
	TriangleThreeSides TriangleMode = "three_sides"
)

// Input field names, expressed in buhol.
const (
	FieldSide   = "side"
	FieldLength = "length"
	FieldWidth  = "width"
	FieldBase   = "base"
	FieldHeight = "height"
	FieldSideA  = "sideA"
	FieldSideB  = "sideB"
	FieldSideC  = "sideC"
	FieldRadius = "radius"
)

// Keys used in ValidationErrors for problems that are not tied to one input.
const (
	KeyShape        = "shape"
	KeyTriangleMode = "triangleMode"
	KeySides        = "sides"
)

// RawInputs maps a field name to a count of buhol as entered by the user.
// Fractional, negative and non-numeric values are possible here and are
// rejected by validation.
type RawInputs map[string]float64

// UnmarshalJSON decodes an object of inputs. A value that is not a JSON
// number is kept as NaN so validation reports it against its field; null is
// treated as absent.
func (r *RawInputs) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		*r = nil
		return nil
	}

	out := make(RawInputs, len(fields))
	for name, raw := range fields {
		raw = bytes.TrimSpace(raw)
		if bytes.Equal(raw, []byte("null")) {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			v = math.NaN()
		}
		out[name] = v
	}
	*r = out
	return nil
}

// Pick returns a copy holding only the named fields that are present.
func (r RawInputs) Pick(fields []string) RawInputs {
	out := make(RawInputs, len(fields))
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// MeasurementRequest is the caller-owned state handed to the engine on every edit.
type MeasurementRequest struct {
	Shape        Shape        `json:"shape"`
	TriangleMode TriangleMode `json:"triangleMode,omitempty"`
	Inputs       RawInputs    `json:"inputs"`
}

// CalculationResult is the computed area. TotalLuwang is always AreaSqm / 500.
type CalculationResult struct {
	AreaSqm     float64 `json:"areaSqm" bson:"area_sqm"`
	TotalLuwang float64 `json:"totalLuwang" bson:"total_luwang"`
}

// ErrorKind classifies a validation problem.
type ErrorKind string

const (
	KindMissingField             ErrorKind = "missing_field"
	KindInvalidValue             ErrorKind = "invalid_value"
	KindGeometricInfeasibility   ErrorKind = "geometric_infeasibility"
	KindUnsupportedConfiguration ErrorKind = "unsupported_configuration"
)

// FieldError is a single validation problem.
type FieldError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationErrors maps a field (or one of the Key* constants) to its problem.
// An empty map means the request is valid.
type ValidationErrors map[string]FieldError

// Valid reports whether no problems were recorded.
func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

// Add records a problem for key unless one is already present.
func (v ValidationErrors) Add(key string, kind ErrorKind, message string) {
	if _, exists := v[key]; exists {
		return
	}
	v[key] = FieldError{Kind: kind, Message: message}
}

// Has reports whether key carries a problem of the given kind.
func (v ValidationErrors) Has(key string, kind ErrorKind) bool {
	fe, ok := v[key]
	return ok && fe.Kind == kind
}

// Messages flattens the map to field -> message for display.
func (v ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for k, fe := range v {
		out[k] = fe.Message
	}
	return out
}

// Kinds flattens the map to field -> error kind.
func (v ValidationErrors) Kinds() map[string]ErrorKind {
	out := make(map[string]ErrorKind, len(v))
	for k, fe := range v {
		out[k] = fe.Kind
	}
	return out
}

// Error implements error so the map can be logged or wrapped.
func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v[k].Message))
	}
	return "invalid measurement: " + strings.Join(parts, "; ")
}

// MeasurementRecord is the audit trail entry for one successful calculation.
type MeasurementRecord struct {
	ID           string            `json:"id" bson:"_id"`
	Shape        Shape             `json:"shape" bson:"shape"`
	TriangleMode TriangleMode      `json:"triangleMode,omitempty" bson:"triangle_mode,omitempty"`
	RawInputs    RawInputs         `json:"rawInputs" bson:"raw_inputs"`
	Method       string            `json:"method" bson:"method"`
	Result       CalculationResult `json:"result" bson:"result"`
	Constants    units.Factors     `json:"conversionConstants" bson:"conversion_constants"`
	Timestamp    time.Time         `json:"timestamp" bson:"timestamp"`
}
