package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/Mihaix21/Stock-Forecasting/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// forecastRequestBody uses pointers so an omitted field falls back to the
// configured default while an explicit non-positive value is rejected.
type forecastRequestBody struct {
	Months     *int `json:"months"`
	ReviewDays *int `json:"review_days"`
}

// Compute runs the engine for one product and returns the canonical
// {plan, summary} shape. This is the only response shape the engine emits;
// legacy bare-array consumers are adapted at the presentation layer, not here.
func (h *ForecastHandler) Compute(c *gin.Context) {
	productID, req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	plan, err := h.service.Plan(c.Request.Context(), productID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ComputeAndSave runs the engine and persists the result as a forecast run.
func (h *ForecastHandler) ComputeAndSave(c *gin.Context) {
	productID, req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	plan, runID, err := h.service.PlanAndSave(c.Request.Context(), productID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"run_id":  runID,
		"plan":    plan.Entries,
		"summary": plan.Summary,
	})
}

// ListRuns returns persisted runs, optionally filtered by product.
func (h *ForecastHandler) ListRuns(c *gin.Context) {
	var productID int64
	if raw := c.Query("product_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}
		productID = parsed
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}

	runs, err := h.service.ListRuns(c.Request.Context(), productID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if runs == nil {
		runs = make([]*domain.ForecastRun, 0)
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// DeleteRun removes one run from the alerts history.
func (h *ForecastHandler) DeleteRun(c *gin.Context) {
	runID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || runID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	if err := h.service.DeleteRun(c.Request.Context(), runID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ForecastHandler) parseRequest(c *gin.Context) (int64, domain.ForecastRequest, bool) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, domain.ForecastRequest{}, false
	}

	var body forecastRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: months and review_days must be numeric"})
		return 0, domain.ForecastRequest{}, false
	}

	req := h.service.DefaultRequest()
	if body.Months != nil {
		req.Months = *body.Months
	}
	if body.ReviewDays != nil {
		req.ReviewDays = *body.ReviewDays
	}

	return productID, req, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
