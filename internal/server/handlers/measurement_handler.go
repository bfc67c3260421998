package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pitak/internal/domain/models"
	"github.com/mamadbah2/pitak/internal/service/measurement"
)

// MeasurementService describes the operations the measurement endpoints need.
type MeasurementService interface {
	Validate(req models.MeasurementRequest) models.ValidationErrors
	Calculate(req models.MeasurementRequest) measurement.Outcome
}

// MeasurementHandler exposes the measurement engine to the form layer.
type MeasurementHandler struct {
	svc    MeasurementService
	logger *zap.Logger
}

// NewMeasurementHandler constructs the HTTP handler adapter.
func NewMeasurementHandler(svc MeasurementService, logger *zap.Logger) *MeasurementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeasurementHandler{svc: svc, logger: logger}
}

// Validate reports every problem with the submitted inputs.
func (h *MeasurementHandler) Validate(c *gin.Context) {
	var req models.MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid measurement payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	errs := h.svc.Validate(req)
	c.JSON(http.StatusOK, validationBody(errs))
}

// Calculate returns the area, capacity and plot payload for valid inputs.
func (h *MeasurementHandler) Calculate(c *gin.Context) {
	var req models.MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid measurement payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	out := h.svc.Calculate(req)
	if !out.Valid() {
		body := validationBody(out.Errors)
		body["result"] = out.Result
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	payload, err := measurement.BuildPlotPayload(out)
	if err != nil {
		h.logger.Error("failed building plot payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build payload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"result":   out.Result,
		"method":   out.Method,
		"payload":  payload,
		"recordId": out.Record.ID,
	})
}

// validationBody renders errors as field -> message with the kinds alongside.
func validationBody(errs models.ValidationErrors) gin.H {
	return gin.H{
		"valid":      errs.Valid(),
		"errors":     errs.Messages(),
		"errorKinds": errs.Kinds(),
	}
}
