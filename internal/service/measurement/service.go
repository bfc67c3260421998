package measurement

import (
	"go.uber.org/zap"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

// AuditPublisher accepts records for asynchronous delivery to the audit log.
// Publish must not block.
type AuditPublisher interface {
	Publish(record models.MeasurementRecord)
}

// Service runs the engine and hands successful records to the audit publisher.
type Service struct {
	engine *Engine
	audit  AuditPublisher
	logger *zap.Logger
}

// NewService wires a measurement service. A nil publisher disables auditing.
func NewService(engine *Engine, audit AuditPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = NewEngine()
	}
	return &Service{engine: engine, audit: audit, logger: logger}
}

// Validate reports every problem with the request.
func (s *Service) Validate(req models.MeasurementRequest) models.ValidationErrors {
	return s.engine.Validate(req)
}

// Calculate computes the request and publishes the audit record on success.
func (s *Service) Calculate(req models.MeasurementRequest) Outcome {
	out := s.engine.Calculate(req)
	if !out.Valid() {
		s.logger.Debug("measurement rejected",
			zap.String("shape", string(req.Shape)),
			zap.String("triangle_mode", string(req.TriangleMode)),
			zap.Any("errors", out.Errors.Messages()))
		return out
	}

	s.logger.Debug("measurement calculated",
		zap.String("record_id", out.Record.ID),
		zap.String("method", out.Method),
		zap.Float64("area_sqm", out.Result.AreaSqm),
		zap.Float64("total_luwang", out.Result.TotalLuwang))

	if s.audit != nil {
		s.audit.Publish(*out.Record)
	}

	return out
}
