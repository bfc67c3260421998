package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

const timeLayout = time.RFC3339Nano

// Repository stores plots and measurement records in an embedded SQLite file.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the database at path (":memory:" is accepted) and creates
// the schema. Safe to call on an existing database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Debug("sqlite schema ready", zap.String("path", path))
	return &Repository{db: db, logger: logger}, nil
}

// Name identifies the repository as an audit sink.
func (r *Repository) Name() string {
	return "sqlite"
}

// SaveMeasurementRecord appends an audit record. Redelivery of the same record is a no-op.
func (r *Repository) SaveMeasurementRecord(ctx context.Context, record models.MeasurementRecord) error {
	inputs, err := json.Marshal(record.RawInputs)
	if err != nil {
		return fmt.Errorf("marshal raw inputs: %w", err)
	}
	constants, err := json.Marshal(record.Constants)
	if err != nil {
		return fmt.Errorf("marshal conversion constants: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO measurement_records (id, shape, triangle_mode, raw_inputs, method, area_sqm, total_luwang, conversion_constants, recorded_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO NOTHING
    `, record.ID, string(record.Shape), string(record.TriangleMode), string(inputs), record.Method,
		record.Result.AreaSqm, record.Result.TotalLuwang, string(constants), record.Timestamp.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert measurement record: %w", err)
	}
	return nil
}

// ListMeasurementRecords returns the most recent records first.
func (r *Repository) ListMeasurementRecords(ctx context.Context, limit int) ([]models.MeasurementRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, shape, triangle_mode, raw_inputs, method, area_sqm, total_luwang, conversion_constants, recorded_at
        FROM measurement_records
        ORDER BY recorded_at DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query measurement records: %w", err)
	}
	defer rows.Close()

	var records []models.MeasurementRecord
	for rows.Next() {
		var (
			rec                         models.MeasurementRecord
			shape, mode                 string
			inputs, constants, recorded string
		)
		if err := rows.Scan(&rec.ID, &shape, &mode, &inputs, &rec.Method, &rec.Result.AreaSqm, &rec.Result.TotalLuwang, &constants, &recorded); err != nil {
			return nil, fmt.Errorf("scan measurement record: %w", err)
		}
		rec.Shape = models.Shape(shape)
		rec.TriangleMode = models.TriangleMode(mode)
		if err := json.Unmarshal([]byte(inputs), &rec.RawInputs); err != nil {
			return nil, fmt.Errorf("decode raw inputs of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(constants), &rec.Constants); err != nil {
			return nil, fmt.Errorf("decode conversion constants of %s: %w", rec.ID, err)
		}
		if rec.Timestamp, err = time.Parse(timeLayout, recorded); err != nil {
			return nil, fmt.Errorf("parse recorded_at of %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SavePlot stores a new plot.
func (r *Repository) SavePlot(ctx context.Context, plot models.Plot) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO plots (id, farm_id, name, layout_type, side_lengths, area_sqm, total_luwang, measurement_id, measured_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, plot.ID, plot.FarmID, plot.Name, string(plot.Payload.LayoutType), plot.Payload.SideLengths,
		plot.Payload.AreaSqm, plot.Payload.TotalLuwang, plot.MeasurementID,
		plot.MeasuredAt.UTC().Format(timeLayout), plot.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert plot %q on farm %s: %w", plot.Name, plot.FarmID, models.ErrPlotExists)
		}
		return fmt.Errorf("insert plot %s: %w", plot.ID, err)
	}

	r.logger.Debug("plot saved", zap.String("plot_id", plot.ID), zap.String("farm_id", plot.FarmID))
	return nil
}

// GetPlot loads a plot by id.
func (r *Repository) GetPlot(ctx context.Context, id string) (models.Plot, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, farm_id, name, layout_type, side_lengths, area_sqm, total_luwang, measurement_id, measured_at, created_at
        FROM plots
        WHERE id = ?
    `, id)

	var (
		plot                models.Plot
		layout              string
		measuredAt, created string
	)
	err := row.Scan(&plot.ID, &plot.FarmID, &plot.Name, &layout, &plot.Payload.SideLengths,
		&plot.Payload.AreaSqm, &plot.Payload.TotalLuwang, &plot.MeasurementID, &measuredAt, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Plot{}, models.ErrPlotNotFound
		}
		return models.Plot{}, fmt.Errorf("query plot %s: %w", id, err)
	}

	plot.Payload.LayoutType = models.Shape(layout)
	if plot.MeasuredAt, err = time.Parse(timeLayout, measuredAt); err != nil {
		return models.Plot{}, fmt.Errorf("parse measured_at of %s: %w", id, err)
	}
	if plot.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return models.Plot{}, fmt.Errorf("parse created_at of %s: %w", id, err)
	}

	return plot, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func isUniqueViolation(err error) bool {
	var serr *moderncsqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
