// internal/api/handlers/product_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/Mihaix21/Stock-Forecasting/internal/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service *service.ProductService
}

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type createProductBody struct {
	StockName     string                 `json:"stock_name"`
	MinStockLevel float64                `json:"min_stock_level"`
	IsActive      *bool                  `json:"is_active"`
	History       []domain.HistoryRecord `json:"history"`
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var body createProductBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}

	product := &domain.Product{
		Name:          body.StockName,
		MinStockLevel: body.MinStockLevel,
		IsActive:      active,
		History:       body.History,
	}

	id, err := h.service.Create(c.Request.Context(), product)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ProductHandler) AppendHistory(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var records []domain.HistoryRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no history records supplied"})
		return
	}

	if err := h.service.AppendHistory(c.Request.Context(), id, records); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": len(records)})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}
