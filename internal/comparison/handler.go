package comparison

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

// POST /comparison/compare
func (h *Handler) Compare(c *gin.Context) {
	var req struct {
		ComponentIDs []int `json:"component_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.Compare(c.Request.Context(), req.ComponentIDs)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
