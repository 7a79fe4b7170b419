package api

import (
	"time"

	"RatePull/internal/domain/models"
	"RatePull/internal/service/metrics"
	"RatePull/internal/service/ratelimit"
	"RatePull/internal/usecase"
	xhttp "RatePull/pkg/http"
	xlogger "RatePull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RatingEchoHandler serves the rating and prediction endpoints.
type RatingEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.RatingPipeline
	limiter  *ratelimit.Limiter

	// token bucket per remote address
	limitCapacity float64
	limitRefill   float64
}

func NewRatingEchoHandler(logger *xlogger.Logger, pipeline *usecase.RatingPipeline, limiter *ratelimit.Limiter) *RatingEchoHandler {
	return &RatingEchoHandler{
		logger:        logger,
		pipeline:      pipeline,
		limiter:       limiter,
		limitCapacity: 10,
		limitRefill:   1,
	}
}

func (h *RatingEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/rating", h.Rating)
	g.GET("/prediction", h.Prediction)
	e.GET("/health", h.Health)
}

func (h *RatingEchoHandler) Rating(c echo.Context) error {
	return h.serve(c, models.RatingVariant)
}

func (h *RatingEchoHandler) Prediction(c echo.Context) error {
	return h.serve(c, models.PredictionVariant)
}

func (h *RatingEchoHandler) serve(c echo.Context, variant models.Variant) error {
	start := time.Now()
	endpoint := variant.Name

	if h.limiter != nil && !h.limiter.Allow(c.RealIP(), h.limitCapacity, h.limitRefill) {
		metrics.APIRateLimited.WithLabelValues(endpoint).Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many requests"))
	}

	req := &models.RatingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues(endpoint, "400").Inc()
		return xhttp.BadRequestResponse(c, "Symbol is required")
	}

	res, err := h.pipeline.Get(c.Request().Context(), variant, req.Symbol)
	if err != nil {
		h.logger.Error("rating pipeline error",
			xlogger.String("endpoint", endpoint),
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		metrics.APIErrors.WithLabelValues(endpoint, "500").Inc()
		return xhttp.AppErrorResponse(c, err)
	}

	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

func (h *RatingEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
