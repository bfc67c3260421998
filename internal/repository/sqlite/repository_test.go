package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/pitak/internal/domain/models"
	"github.com/mamadbah2/pitak/pkg/units"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestMeasurementRecordRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	rec := models.MeasurementRecord{
		ID:           "rec-1",
		Shape:        models.ShapeTriangle,
		TriangleMode: models.TriangleThreeSides,
		RawInputs:    models.RawInputs{"sideA": 3, "sideB": 4, "sideC": 5},
		Method:       "Triangle: Heron's formula, 3 sides (buhol→m)",
		Result:       models.CalculationResult{AreaSqm: 15000, TotalLuwang: 30},
		Constants:    units.CurrentFactors(),
		Timestamp:    time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}

	if err := repo.SaveMeasurementRecord(ctx, rec); err != nil {
		t.Fatalf("SaveMeasurementRecord() err=%v", err)
	}
	// redelivery of the same record must not fail or duplicate
	if err := repo.SaveMeasurementRecord(ctx, rec); err != nil {
		t.Fatalf("second SaveMeasurementRecord() err=%v", err)
	}

	got, err := repo.ListMeasurementRecords(ctx, 10)
	if err != nil {
		t.Fatalf("ListMeasurementRecords() err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Shape != rec.Shape || got[0].TriangleMode != rec.TriangleMode || got[0].Method != rec.Method {
		t.Errorf("record = %+v", got[0])
	}
	if got[0].RawInputs["sideC"] != 5 || got[0].Result != rec.Result || got[0].Constants != rec.Constants {
		t.Errorf("record payload = %+v", got[0])
	}
	if !got[0].Timestamp.Equal(rec.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, rec.Timestamp)
	}
}

func TestPlotRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	plot := models.Plot{
		ID:     "plot-1",
		FarmID: "farm-1",
		Name:   "North pitak",
		Payload: models.PlotPayload{
			LayoutType:  models.ShapeSquare,
			SideLengths: `{"buholInputs":{"side":2}}`,
			AreaSqm:     10000,
			TotalLuwang: 20,
		},
		MeasurementID: "rec-1",
		MeasuredAt:    time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2026, 5, 1, 8, 0, 1, 0, time.UTC),
	}

	if err := repo.SavePlot(ctx, plot); err != nil {
		t.Fatalf("SavePlot() err=%v", err)
	}

	got, err := repo.GetPlot(ctx, "plot-1")
	if err != nil {
		t.Fatalf("GetPlot() err=%v", err)
	}
	if got.Payload != plot.Payload || got.MeasurementID != plot.MeasurementID || got.Name != plot.Name {
		t.Errorf("plot = %+v", got)
	}
	if !got.MeasuredAt.Equal(plot.MeasuredAt) || !got.CreatedAt.Equal(plot.CreatedAt) {
		t.Errorf("times = %v / %v", got.MeasuredAt, got.CreatedAt)
	}

	dup := plot
	dup.ID = "plot-2"
	if err := repo.SavePlot(ctx, dup); !errors.Is(err, models.ErrPlotExists) {
		t.Errorf("duplicate plot name in the same farm: err=%v, want ErrPlotExists", err)
	}

	other := plot
	other.ID = "plot-3"
	other.FarmID = "farm-2"
	if err := repo.SavePlot(ctx, other); err != nil {
		t.Errorf("same name on another farm: err=%v", err)
	}
}

func TestGetPlotNotFound(t *testing.T) {
	repo := openTestRepo(t)
	if _, err := repo.GetPlot(context.Background(), "missing"); !errors.Is(err, models.ErrPlotNotFound) {
		t.Fatalf("err=%v, want ErrPlotNotFound", err)
	}
}
