package docs

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

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + key)
	}
	if n == 0 {
		// zero would otherwise read as "use the default"
		return -1, nil
	}
	return n, nil
}

// GET /docs
func (h *Handler) List(c *gin.Context) {
	f := Filter{Category: c.Query("category"), Search: c.Query("search")}

	var err error
	if f.Page, err = queryInt(c, "page"); err != nil {
		httpx.Error(c, err)
		return
	}
	if f.PageSize, err = queryInt(c, "page_size"); err != nil {
		httpx.Error(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /docs/categories
func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GET /docs/search/fulltext
func (h *Handler) Search(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	res, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /docs/:slug
func (h *Handler) Get(c *gin.Context) {
	page, err := h.service.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
