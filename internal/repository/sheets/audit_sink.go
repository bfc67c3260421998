package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

// AuditSink mirrors measurement records into a spreadsheet, one row per record.
type AuditSink struct {
	sheet AuditRowAppender
}

// NewAuditSink wraps an audit sheet as a record sink.
func NewAuditSink(sheet AuditRowAppender) *AuditSink {
	return &AuditSink{sheet: sheet}
}

// Name identifies the sink.
func (s *AuditSink) Name() string {
	return "sheets"
}

// SaveMeasurementRecord appends the record as a row laid out by AuditColumns.
func (s *AuditSink) SaveMeasurementRecord(ctx context.Context, record models.MeasurementRecord) error {
	inputs, err := json.Marshal(record.RawInputs)
	if err != nil {
		return fmt.Errorf("marshal raw inputs: %w", err)
	}

	row := []interface{}{
		record.Timestamp.UTC().Format(time.RFC3339),
		record.ID,
		string(record.Shape),
		string(record.TriangleMode),
		string(inputs),
		record.Method,
		record.Result.AreaSqm,
		record.Result.TotalLuwang,
		record.Constants.BuholToMeters,
		record.Constants.LuwangToSqm,
	}

	return s.sheet.AppendAuditRow(ctx, row)
}
