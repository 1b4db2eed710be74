package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/xenaviz/internal/middleware"
	"github.com/deppfellow/xenaviz/internal/server"
)

// HealthHandler reports whether the service is up and the hub reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth answers 200 when healthy and 503 when the hub probe fails.
// The probe asks the expression dataset for a single sample.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	if h.server.Config.Observability.HealthChecks.Enabled {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthCheckTimeout())
		defer cancel()

		hubStart := time.Now()
		limit := 1

		if _, err := h.server.Hub.DatasetSamples(ctx, h.server.Config.Hub.ExpressionDataset, &limit); err != nil {
			checks["hub"] = map[string]interface{}{
				"status":        "unhealthy",
				"host":          h.server.Hub.Host(),
				"response_time": time.Since(hubStart).String(),
				"error":         err.Error(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(hubStart)).
				Msg("hub health check failed")

			if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
				h.server.LoggerService.GetApplication().RecordCustomEvent(
					"HealthCheckError",
					map[string]interface{}{
						"check_type":       "hub",
						"operation":        "health_check",
						"error_type":       "hub_unhealthy",
						"response_time_ms": time.Since(hubStart).Milliseconds(),
						"error_message":    err.Error(),
					},
				)
			}
		} else {
			checks["hub"] = map[string]interface{}{
				"status":        "healthy",
				"host":          h.server.Hub.Host(),
				"response_time": time.Since(hubStart).String(),
			}

			logger.Info().
				Dur("response_time", time.Since(hubStart)).
				Msg("hub health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
