package measurement

import (
	"errors"
	"math"
	"testing"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

func TestCalculatorAreas(t *testing.T) {
	cases := []struct {
		name string
		calc Calculator
		in   models.RawInputs
		want float64
	}{
		{"square", Square{}, models.RawInputs{"side": 2}, 10000},
		{"rectangle", Rectangle{}, models.RawInputs{"length": 2, "width": 1}, 5000},
		{"triangle base height", TriangleBaseHeight{}, models.RawInputs{"base": 4, "height": 2}, 10000},
		{"triangle heron 3-4-5", TriangleThreeSides{}, models.RawInputs{"sideA": 3, "sideB": 4, "sideC": 5}, 15000},
		{"circle", Circle{}, models.RawInputs{"radius": 1}, math.Pi * 2500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.calc.Area(tc.in)
			if err != nil {
				t.Fatalf("Area() err=%v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Area() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHeronRejectsImpossibleTriangles(t *testing.T) {
	for _, in := range []models.RawInputs{
		{"sideA": 1, "sideB": 1, "sideC": 5},
		{"sideA": 1, "sideB": 1, "sideC": 2},
		{"sideA": 0, "sideB": 4, "sideC": 5},
	} {
		area, err := TriangleThreeSides{}.Area(in)
		if !errors.Is(err, ErrGeometricInfeasibility) {
			t.Fatalf("Area(%v) err=%v, want ErrGeometricInfeasibility", in, err)
		}
		if area != 0 {
			t.Fatalf("Area(%v) = %v, want 0", in, area)
		}
	}
}

func TestHeronKeepsPrecisionForThinTriangles(t *testing.T) {
	side := math.Ldexp(1, 48)
	got, err := TriangleThreeSides{}.Area(models.RawInputs{"sideA": 1, "sideB": side, "sideC": side})
	if err != nil {
		t.Fatalf("Area() err=%v", err)
	}

	// isosceles with base 50 m: half the base times the height
	legs := side * 50
	want := 25 * math.Sqrt(legs*legs-25*25)
	if math.Abs(got-want)/want > 1e-12 {
		t.Fatalf("Area() = %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		shape  models.Shape
		mode   models.TriangleMode
		want   Calculator
		errKey string
	}{
		{models.ShapeSquare, "", Square{}, ""},
		{models.ShapeRectangle, models.TriangleThreeSides, Rectangle{}, ""},
		{models.ShapeCircle, "", Circle{}, ""},
		{models.ShapeTriangle, models.TriangleBaseHeight, TriangleBaseHeight{}, ""},
		{models.ShapeTriangle, models.TriangleThreeSides, TriangleThreeSides{}, ""},
		{models.ShapeTriangle, "", nil, models.KeyTriangleMode},
		{models.ShapeTriangle, "two_angles", nil, models.KeyTriangleMode},
		{"hexagon", "", nil, models.KeyShape},
		{"", "", nil, models.KeyShape},
	}

	for _, tc := range cases {
		calc, errs := Resolve(tc.shape, tc.mode)
		if calc != tc.want {
			t.Errorf("Resolve(%q,%q) calc=%v, want %v", tc.shape, tc.mode, calc, tc.want)
		}
		if tc.errKey == "" {
			if !errs.Valid() {
				t.Errorf("Resolve(%q,%q) unexpected errors %v", tc.shape, tc.mode, errs)
			}
			continue
		}
		if !errs.Has(tc.errKey, models.KindUnsupportedConfiguration) {
			t.Errorf("Resolve(%q,%q) errors=%v, want unsupported %s", tc.shape, tc.mode, errs, tc.errKey)
		}
	}
}
