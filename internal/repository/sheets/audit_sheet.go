package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/pitak/internal/config"
)

// AuditRange is the sheet range measurement records are appended to.
const AuditRange = "MeasurementAudit!A:J"

// AuditColumns names the cells of an audit row, in order. It matches the
// width of AuditRange.
var AuditColumns = []string{
	"timestamp",
	"record_id",
	"shape",
	"triangle_mode",
	"buhol_inputs",
	"method",
	"area_sqm",
	"total_luwang",
	"meters_per_buhol",
	"sqm_per_luwang",
}

// ErrAuditRowWidth is returned for rows that do not fill the audit columns exactly.
var ErrAuditRowWidth = errors.New("audit row width mismatch")

// AuditRowAppender appends one measurement audit row to a spreadsheet.
type AuditRowAppender interface {
	AppendAuditRow(ctx context.Context, row []interface{}) error
}

// AuditSheet appends audit rows through the Google Sheets API.
type AuditSheet struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewAuditSheet connects to the spreadsheet configured for the audit mirror.
func NewAuditSheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*AuditSheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &AuditSheet{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendAuditRow adds row below the existing audit rows. Values are stored
// as given so sheet formulas never reinterpret the buhol inputs.
func (s *AuditSheet) AppendAuditRow(ctx context.Context, row []interface{}) error {
	if err := checkAuditRow(row); err != nil {
		return err
	}

	payload := &sheetsapi.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{row},
	}

	call := s.service.Spreadsheets.Values.Append(s.spreadsheetID, AuditRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return fmt.Errorf("append audit row %v: %w", row[1], err)
	}

	if resp.Updates != nil {
		s.logger.Debug("audit row appended",
			zap.Any("record_id", row[1]),
			zap.String("range", resp.Updates.UpdatedRange))
	}
	return nil
}

func checkAuditRow(row []interface{}) error {
	if len(row) != len(AuditColumns) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrAuditRowWidth, len(row), len(AuditColumns))
	}
	return nil
}
