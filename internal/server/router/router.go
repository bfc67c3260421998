package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pitak/internal/server/handlers"
)

// AuditStatus reports how many audit deliveries are waiting for redelivery.
type AuditStatus interface {
	Pending() int
}

// New wires the Gin engine with required routes and middlewares.
func New(measurements *handlers.MeasurementHandler, plots *handlers.PlotHandler, audit AuditStatus, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	api.POST("/measurements/validate", measurements.Validate)
	api.POST("/measurements/calculate", measurements.Calculate)
	api.POST("/plots", plots.Create)
	api.GET("/plots/:id", plots.Get)

	r.GET("/healthz", func(c *gin.Context) {
		pending := 0
		if audit != nil {
			pending = audit.Pending()
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "pendingAudit": pending})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
