package catalog

import (
	"net/http"
	"strconv"

	"so101builder/internal/apperrors"
	"so101builder/internal/httpx"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GET /components
func (h *Handler) List(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	list, err := h.service.ListComponents(c.Request.Context(), params)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func parseListParams(c *gin.Context) (ListParams, error) {
	var p ListParams

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return p, apperrors.InvalidInput("invalid category_id")
		}
		p.Filter.CategoryID = &id
	}
	p.Filter.CategorySlug = c.Query("category_slug")
	p.Filter.Search = c.Query("search")
	p.Filter.ArmType = c.Query("arm_type")

	if v := c.Query("is_default_for_so101"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, apperrors.InvalidInput("invalid is_default_for_so101")
		}
		p.Filter.IsDefault = &b
	}
	if v := c.Query("in_stock_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, apperrors.InvalidInput("invalid in_stock_only")
		}
		p.InStockOnly = b
	}

	for key, dst := range map[string]**float64{"min_price": &p.MinPrice, "max_price": &p.MaxPrice} {
		if v := c.Query(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return p, apperrors.InvalidInput("invalid " + key)
			}
			*dst = &f
		}
	}

	for key, dst := range map[string]*int{"page": &p.Filter.Page, "page_size": &p.Filter.PageSize} {
		if v := c.Query(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p, apperrors.InvalidInput("invalid " + key)
			}
			*dst = n
		}
	}
	if c.Query("page") != "" && p.Filter.Page == 0 {
		return p, apperrors.Validation("page must be >= 1")
	}
	if c.Query("page_size") != "" && p.Filter.PageSize == 0 {
		return p, apperrors.Validation("page_size must be between 1 and 100")
	}

	return p, nil
}

// GET /components/so101-defaults
func (h *Handler) Defaults(c *gin.Context) {
	defaults, err := h.service.Defaults(c.Request.Context(), c.DefaultQuery("arm_type", "single"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, defaults)
}

// GET /components/categories
func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GET /components/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := httpx.IntParam(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	view, err := h.service.GetComponent(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /components
func (h *Handler) Create(c *gin.Context) {
	var req CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.service.CreateComponent(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}
