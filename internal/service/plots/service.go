package plots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/pitak/internal/domain/models"
	"github.com/mamadbah2/pitak/internal/service/measurement"
)

// ErrInvalidPlot indicates a plot request without a farm or a name.
var ErrInvalidPlot = errors.New("invalid plot")

// Store persists plots.
type Store interface {
	SavePlot(ctx context.Context, plot models.Plot) error
	GetPlot(ctx context.Context, id string) (models.Plot, error)
}

// Calculator is the measurement capability the plot service needs.
type Calculator interface {
	Calculate(req models.MeasurementRequest) measurement.Outcome
}

// PlotRequest describes a pitak to create.
type PlotRequest struct {
	FarmID string `json:"farmId"`
	Name   string `json:"name"`
	models.MeasurementRequest
}

// Service measures plots and hands them to the store.
type Service struct {
	store      Store
	calculator Calculator
	logger     *zap.Logger
	now        func() time.Time
}

// NewService constructs a plot service.
func NewService(store Store, calculator Calculator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		calculator: calculator,
		logger:     logger,
		now:        time.Now,
	}
}

// CreatePlot measures and stores a plot. Invalid measurements return the
// validation errors and nothing is written.
func (s *Service) CreatePlot(ctx context.Context, req PlotRequest) (models.Plot, models.ValidationErrors, error) {
	req.FarmID = strings.TrimSpace(req.FarmID)
	req.Name = strings.TrimSpace(req.Name)
	if req.FarmID == "" || req.Name == "" {
		return models.Plot{}, nil, fmt.Errorf("%w: farmId and name are required", ErrInvalidPlot)
	}

	out := s.calculator.Calculate(req.MeasurementRequest)
	if !out.Valid() {
		return models.Plot{}, out.Errors, nil
	}

	payload, err := measurement.BuildPlotPayload(out)
	if err != nil {
		return models.Plot{}, nil, fmt.Errorf("build plot payload: %w", err)
	}

	plot := models.Plot{
		ID:            uuid.NewString(),
		FarmID:        req.FarmID,
		Name:          req.Name,
		Payload:       payload,
		MeasurementID: out.Record.ID,
		MeasuredAt:    out.Record.Timestamp,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.SavePlot(ctx, plot); err != nil {
		return models.Plot{}, nil, fmt.Errorf("save plot: %w", err)
	}

	s.logger.Info("plot created",
		zap.String("plot_id", plot.ID),
		zap.String("farm_id", plot.FarmID),
		zap.String("layout", string(payload.LayoutType)),
		zap.Float64("total_luwang", payload.TotalLuwang))

	return plot, nil, nil
}

// GetPlot loads a stored plot.
func (s *Service) GetPlot(ctx context.Context, id string) (models.Plot, error) {
	return s.store.GetPlot(ctx, id)
}
