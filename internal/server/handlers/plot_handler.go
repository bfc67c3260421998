package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pitak/internal/domain/models"
	"github.com/mamadbah2/pitak/internal/service/plots"
)

// PlotService describes the plot operations the HTTP layer can perform.
type PlotService interface {
	CreatePlot(ctx context.Context, req plots.PlotRequest) (models.Plot, models.ValidationErrors, error)
	GetPlot(ctx context.Context, id string) (models.Plot, error)
}

// PlotHandler handles pitak creation and lookup.
type PlotHandler struct {
	svc    PlotService
	logger *zap.Logger
}

// NewPlotHandler constructs the HTTP handler adapter.
func NewPlotHandler(svc PlotService, logger *zap.Logger) *PlotHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlotHandler{svc: svc, logger: logger}
}

// Create measures and stores a new plot.
func (h *PlotHandler) Create(c *gin.Context) {
	var req plots.PlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid plot payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	plot, verrs, err := h.svc.CreatePlot(c.Request.Context(), req)
	switch {
	case errors.Is(err, plots.ErrInvalidPlot):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrPlotExists):
		c.JSON(http.StatusConflict, gin.H{"error": "a plot with this name already exists on the farm"})
	case err != nil:
		h.logger.Error("failed creating plot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plot"})
	case !verrs.Valid():
		c.JSON(http.StatusUnprocessableEntity, validationBody(verrs))
	default:
		c.JSON(http.StatusCreated, plot)
	}
}

// Get returns a stored plot.
func (h *PlotHandler) Get(c *gin.Context) {
	plot, err := h.svc.GetPlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrPlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plot not found"})
			return
		}
		h.logger.Error("failed loading plot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plot"})
		return
	}

	c.JSON(http.StatusOK, plot)
}
