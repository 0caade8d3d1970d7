package handlers

import (
	"errors"
	"net/http"
	"time"

	"auction-pricer/internal/api/models"
	"auction-pricer/internal/data"
	"auction-pricer/internal/features"
	"auction-pricer/internal/inference"
	"auction-pricer/internal/metrics"
	"auction-pricer/internal/model"
	"auction-pricer/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PredictHandler wires the data stores, model registry, and inference
// engine behind the prediction endpoint.
type PredictHandler struct {
	store    data.Store
	feed     data.Feed
	registry *registry.Registry
	engine   *inference.Engine
}

// NewPredictHandler creates the handler over its collaborators.
func NewPredictHandler(store data.Store, feed data.Feed, reg *registry.Registry, engine *inference.Engine) *PredictHandler {
	return &PredictHandler{store: store, feed: feed, registry: reg, engine: engine}
}

// Predict handles POST /api/v1/predict. Every failure kind maps to a
// single 400 error body; no partial results are returned.
func (h *PredictHandler) Predict(c *gin.Context) {
	start := time.Now()

	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "unknown", "INVALID_REQUEST", err.Error())
		return
	}
	group, asOf, err := req.Resolve()
	if err != nil {
		h.fail(c, req.ProductGroup, "INVALID_REQUEST", err.Error())
		return
	}

	log.Info().
		Str("product_group", string(group)).
		Float64("quantity", req.Quantity).
		Str("date", req.Date).
		Msg("prediction request")

	records, err := h.store.Load(asOf)
	if err != nil {
		h.fail(c, string(group), errorCode(err), err.Error())
		return
	}
	market := h.feed.Load(asOf)

	builder := features.Builder{}
	if group == model.GroupValve {
		brass, err := h.registry.Resolve(string(model.GroupBrass))
		if err != nil {
			h.fail(c, string(group), errorCode(err), err.Error())
			return
		}
		builder.BrassIndex = brass.PointEstimate()
	}

	fv, err := builder.Build(group, req.Quantity, asOf, records, market)
	if err != nil {
		h.fail(c, string(group), errorCode(err), err.Error())
		return
	}

	result, err := h.engine.Infer(group, req.Quantity, req.Date, fv)
	if err != nil {
		h.fail(c, string(group), errorCode(err), err.Error())
		return
	}

	metrics.PredictionsTotal.WithLabelValues(string(group), "ok").Inc()
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, models.PredictResponse{
		ProductGroup: result.ProductGroup,
		Quantity:     result.Quantity,
		Date:         result.Date,
		Location:     req.Location,
		Predictions:  result.Predictions,
	})
}

func (h *PredictHandler) fail(c *gin.Context, group, code, message string) {
	metrics.PredictionsTotal.WithLabelValues(group, "error").Inc()
	log.Warn().Str("product_group", group).Str("code", code).Str("message", message).
		Msg("prediction failed")
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

// errorCode maps core failure kinds onto stable client-facing codes. The
// status is uniformly 400; the code tells the kinds apart.
func errorCode(err error) string {
	var dataErr *data.DataUnavailableError
	var histErr *features.NoHistoricalDataError
	var modelErr *registry.ModelNotFoundError
	var featErr *inference.MissingFeaturesError
	switch {
	case errors.As(err, &dataErr):
		return "DATA_UNAVAILABLE"
	case errors.As(err, &histErr):
		return "NO_HISTORICAL_DATA"
	case errors.As(err, &modelErr):
		return "MODEL_NOT_FOUND"
	case errors.As(err, &featErr):
		return "MISSING_FEATURES"
	default:
		return "PREDICTION_ERROR"
	}
}
