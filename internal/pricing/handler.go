package pricing

import (
	"net/http"

	"so101builder/internal/httpx"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GET /pricing/component/:id
func (h *Handler) ComponentPrices(c *gin.Context) {
	id, err := httpx.IntParam(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	prices, err := h.service.ComponentPrices(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// POST /pricing/search
// Search failures come back as an empty result with a message, never a 5xx.
func (h *Handler) Search(c *gin.Context) {
	req := SearchRequest{IncludeShipping: true}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /pricing/setup/:setup_id
func (h *Handler) SetupCost(c *gin.Context) {
	breakdown, err := h.service.SetupCost(c.Request.Context(), c.Param("setup_id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// POST /pricing/refresh/:component_id
func (h *Handler) Refresh(c *gin.Context) {
	id, err := httpx.IntParam(c, "component_id")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	report, err := h.service.Refresh(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
