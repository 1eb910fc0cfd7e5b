package export

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

// POST /export/json
func (h *Handler) JSON(c *gin.Context) {
	var req JSONRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SetupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	file, err := h.service.JSON(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// POST /export/shopping-list?setup_id=
func (h *Handler) ShoppingList(c *gin.Context) {
	setupID := c.Query("setup_id")
	if setupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "setup_id is required"})
		return
	}

	list, err := h.service.ShoppingList(c.Request.Context(), setupID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /export/xlsx
// Returns the upload URL when storage is configured, otherwise the workbook.
func (h *Handler) XLSX(c *gin.Context) {
	var req struct {
		SetupID string `json:"setup_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SetupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	file, err := h.service.XLSX(c.Request.Context(), req.SetupID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if file.URL != nil {
		c.JSON(http.StatusOK, file)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType(), file.Data())
}
