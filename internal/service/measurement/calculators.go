package measurement

import (
	"errors"
	"math"

	"github.com/mamadbah2/pitak/internal/domain/models"
	"github.com/mamadbah2/pitak/pkg/units"
)

// ErrGeometricInfeasibility indicates side lengths that cannot close a triangle.
var ErrGeometricInfeasibility = errors.New("sides do not form a triangle")

// Calculator computes the metric area of one layout variant from buhol inputs.
// The set of implementations is closed; Resolve is the only way to obtain one.
type Calculator interface {
	Shape() models.Shape
	Mode() models.TriangleMode
	Fields() []string
	Method() string
	Area(in models.RawInputs) (float64, error)

	layout()
}

// Square measures a square pitak from one side.
type Square struct{}

func (Square) Shape() models.Shape       { return models.ShapeSquare }
func (Square) Mode() models.TriangleMode { return "" }
func (Square) Fields() []string          { return []string{models.FieldSide} }
func (Square) Method() string            { return "Square: Side × Side (buhol→m)" }
func (Square) layout()                   {}

func (Square) Area(in models.RawInputs) (float64, error) {
	side := meters(in, models.FieldSide)
	return side * side, nil
}

// Rectangle measures a rectangular pitak from its length and width.
type Rectangle struct{}

func (Rectangle) Shape() models.Shape       { return models.ShapeRectangle }
func (Rectangle) Mode() models.TriangleMode { return "" }
func (Rectangle) Fields() []string          { return []string{models.FieldLength, models.FieldWidth} }
func (Rectangle) Method() string            { return "Rectangle: Length × Width (buhol→m)" }
func (Rectangle) layout()                   {}

func (Rectangle) Area(in models.RawInputs) (float64, error) {
	return meters(in, models.FieldLength) * meters(in, models.FieldWidth), nil
}

// TriangleBaseHeight measures a triangle from its base and perpendicular height.
type TriangleBaseHeight struct{}

func (TriangleBaseHeight) Shape() models.Shape       { return models.ShapeTriangle }
func (TriangleBaseHeight) Mode() models.TriangleMode { return models.TriangleBaseHeight }
func (TriangleBaseHeight) Fields() []string          { return []string{models.FieldBase, models.FieldHeight} }
func (TriangleBaseHeight) Method() string            { return "Triangle: ½ × Base × Height (buhol→m)" }
func (TriangleBaseHeight) layout()                   {}

func (TriangleBaseHeight) Area(in models.RawInputs) (float64, error) {
	return 0.5 * meters(in, models.FieldBase) * meters(in, models.FieldHeight), nil
}

// TriangleThreeSides measures a triangle from its three sides using Heron's formula.
type TriangleThreeSides struct{}

func (TriangleThreeSides) Shape() models.Shape       { return models.ShapeTriangle }
func (TriangleThreeSides) Mode() models.TriangleMode { return models.TriangleThreeSides }
func (TriangleThreeSides) Method() string            { return "Triangle: Heron's formula, 3 sides (buhol→m)" }
func (TriangleThreeSides) layout()                   {}

func (TriangleThreeSides) Fields() []string {
	return []string{models.FieldSideA, models.FieldSideB, models.FieldSideC}
}

func (TriangleThreeSides) Area(in models.RawInputs) (float64, error) {
	x, y, z := descending(
		meters(in, models.FieldSideA),
		meters(in, models.FieldSideB),
		meters(in, models.FieldSideC),
	)

	// Heron's formula in the ordering x >= y >= z; the parentheses keep the
	// result accurate for long thin triangles.
	radicand := (x + (y + z)) * (z - (x - y)) * (z + (x - y)) * (x + (y - z))
	if !(radicand > 0) || math.IsInf(radicand, 0) {
		return 0, ErrGeometricInfeasibility
	}

	return math.Sqrt(radicand) / 4, nil
}

// satisfiesTriangleInequality compares whole buhol counts, where the
// difference of the two longest sides is exact.
func (TriangleThreeSides) satisfiesTriangleInequality(in models.RawInputs) bool {
	x, y, z := descending(in[models.FieldSideA], in[models.FieldSideB], in[models.FieldSideC])
	return x-y < z
}

func descending(a, b, c float64) (float64, float64, float64) {
	if a < b {
		a, b = b, a
	}
	if b < c {
		b, c = c, b
	}
	if a < b {
		a, b = b, a
	}
	return a, b, c
}

// Circle measures a circular pitak from its radius.
type Circle struct{}

func (Circle) Shape() models.Shape       { return models.ShapeCircle }
func (Circle) Mode() models.TriangleMode { return "" }
func (Circle) Fields() []string          { return []string{models.FieldRadius} }
func (Circle) Method() string            { return "Circle: π × Radius² (buhol→m)" }
func (Circle) layout()                   {}

func (Circle) Area(in models.RawInputs) (float64, error) {
	r := meters(in, models.FieldRadius)
	return math.Pi * r * r, nil
}

// Resolve picks the calculator for a shape and, for triangles, a mode.
// Unknown combinations are reported as unsupported configuration.
func Resolve(shape models.Shape, mode models.TriangleMode) (Calculator, models.ValidationErrors) {
	errs := models.ValidationErrors{}

	switch shape {
	case models.ShapeSquare:
		return Square{}, errs
	case models.ShapeRectangle:
		return Rectangle{}, errs
	case models.ShapeCircle:
		return Circle{}, errs
	case models.ShapeTriangle:
		switch mode {
		case models.TriangleBaseHeight:
			return TriangleBaseHeight{}, errs
		case models.TriangleThreeSides:
			return TriangleThreeSides{}, errs
		case "":
			errs.Add(models.KeyTriangleMode, models.KindUnsupportedConfiguration, "required for triangle")
		default:
			errs.Add(models.KeyTriangleMode, models.KindUnsupportedConfiguration, "unsupported triangle mode "+string(mode))
		}
	case "":
		errs.Add(models.KeyShape, models.KindUnsupportedConfiguration, "required")
	default:
		errs.Add(models.KeyShape, models.KindUnsupportedConfiguration, "unsupported shape "+string(shape))
	}

	return nil, errs
}

func meters(in models.RawInputs, field string) float64 {
	return units.BuholToMeters(in[field])
}
